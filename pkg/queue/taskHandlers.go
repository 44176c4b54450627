package queue

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// BookingExpirer is the slice of the booking service the queue needs.
// Declared here to keep the queue package free of service imports.
type BookingExpirer interface {
	ExpireBooking(ctx context.Context, bookingID int64) error
	ReclaimAbandoned(ctx context.Context) (int, error)
}

// TaskHandler dispatches queued tasks to the booking service
type TaskHandler struct {
	bookings BookingExpirer
}

func NewTaskHandler(bookings BookingExpirer) *TaskHandler {
	return &TaskHandler{bookings: bookings}
}

func (h *TaskHandler) HandleTask(task *Task) error {
	logrus.WithFields(logrus.Fields{
		"task_id": task.ID,
		"type":    task.Type,
		"attempt": task.Attempts,
	}).Debug("Handling task")

	switch task.Type {
	case TaskTypeExpireBooking:
		return h.handleExpireBooking(task)
	case TaskTypeReclaimAbandoned:
		return h.handleReclaimAbandoned(task)
	default:
		return fmt.Errorf("unknown task type: %s", task.Type)
	}
}

// handleExpireBooking releases the hold on a single booking whose
// checkout window ran out. ExpireBooking itself re-checks the status,
// so a booking confirmed in the meantime is left alone and a double
// delivery is harmless.
func (h *TaskHandler) handleExpireBooking(task *Task) error {
	ctx := context.Background()

	bookingID := task.GetInt64("booking_id")
	if bookingID == 0 {
		return fmt.Errorf("invalid booking_id in task data")
	}

	if err := h.bookings.ExpireBooking(ctx, bookingID); err != nil {
		return fmt.Errorf("failed to expire booking %d: %w", bookingID, err)
	}
	return nil
}

func (h *TaskHandler) handleReclaimAbandoned(task *Task) error {
	ctx := context.Background()

	expired, err := h.bookings.ReclaimAbandoned(ctx)
	if err != nil {
		return fmt.Errorf("failed to reclaim abandoned bookings: %w", err)
	}

	if expired > 0 {
		logrus.WithField("count", expired).Info("Reclaimed abandoned bookings")
	}
	return nil
}
