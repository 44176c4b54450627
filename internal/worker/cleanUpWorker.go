package worker

import (
	"context"
	"time"

	"github.com/eventure-dev/eventure-api/internal/service"

	"github.com/sirupsen/logrus"
)

// BookingSweepWorker periodically expires overdue pending bookings.
// It backstops the delayed queue: the queue normally fires the expiry
// exactly on time, the sweep catches anything the queue dropped.
type BookingSweepWorker struct {
	bookingService service.BookingService
	interval       time.Duration
}

func NewBookingSweepWorker(bookingService service.BookingService, interval time.Duration) *BookingSweepWorker {
	return &BookingSweepWorker{
		bookingService: bookingService,
		interval:       interval,
	}
}

func (w *BookingSweepWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.WithField("interval", w.interval.String()).Info("Booking sweep worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Booking sweep worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *BookingSweepWorker) sweep(ctx context.Context) {
	expired, err := w.bookingService.ReclaimAbandoned(ctx)
	if err != nil {
		logrus.Errorf("Failed to reclaim abandoned bookings: %v", err)
		return
	}

	if expired > 0 {
		logrus.WithField("count", expired).Info("Sweep expired abandoned bookings")
	}
}
