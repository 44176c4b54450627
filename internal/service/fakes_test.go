package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eventure-dev/eventure-api/internal/entity"
	"github.com/eventure-dev/eventure-api/internal/ledger"
)

// In-memory doubles mirroring the compare-and-set semantics of the
// postgres layer.

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*entity.Booking
	clock    time.Time
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		nextID:   1,
		bookings: make(map[int64]*entity.Booking),
		clock:    time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.EventID == booking.EventID && b.UserEmail == booking.UserEmail && b.Status.IsActive() {
			return entity.ErrDuplicateBooking
		}
	}

	booking.ID = r.nextID
	r.nextID++
	r.clock = r.clock.Add(time.Second)
	booking.CreatedAt = r.clock

	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

func (r *fakeBookingRepo) get(id int64) (*entity.Booking, bool) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, false
	}
	copied := *b
	return &copied, true
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.get(id)
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	return b, nil
}

func (r *fakeBookingRepo) GetBySessionToken(ctx context.Context, token string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.bookings {
		if b.SessionToken == token {
			copied, _ := r.get(id)
			return copied, nil
		}
	}
	return nil, entity.ErrBookingNotFound
}

func (r *fakeBookingRepo) GetActiveByEventAndUser(ctx context.Context, eventID int64, email string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.bookings {
		if b.EventID == eventID && b.UserEmail == email && b.Status.IsActive() {
			copied, _ := r.get(id)
			return copied, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) GetByUserEmail(ctx context.Context, email string) ([]*entity.BookingWithEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.BookingWithEvent
	for id, b := range r.bookings {
		if b.UserEmail == email {
			copied, _ := r.get(id)
			out = append(out, &entity.BookingWithEvent{Booking: *copied})
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetActiveByEvent(ctx context.Context, eventID int64) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for id, b := range r.bookings {
		if b.EventID == eventID && b.Status.IsActive() {
			copied, _ := r.get(id)
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBookingRepo) GetActiveByUser(ctx context.Context, email string) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for id, b := range r.bookings {
		if b.UserEmail == email && b.Status.IsActive() {
			copied, _ := r.get(id)
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBookingRepo) GetOverduePending(ctx context.Context, before time.Time) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id, b := range r.bookings {
		if b.Status == entity.BookingStatusPending && b.ExpiresAt.Before(before) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeBookingRepo) transition(id int64, from, to entity.BookingStatus, mutate func(*entity.Booking)) bool {
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return false
	}
	b.Status = to
	if mutate != nil {
		mutate(b)
	}
	return true
}

func (r *fakeBookingRepo) ConfirmHeld(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != entity.BookingStatusPending || !b.SeatHeld {
		return false, nil
	}
	b.Status = entity.BookingStatusConfirmed
	return true, nil
}

func (r *fakeBookingRepo) ConfirmWithSeat(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transition(id, entity.BookingStatusPending, entity.BookingStatusConfirmed, func(b *entity.Booking) {
		b.SeatHeld = true
	}), nil
}

func (r *fakeBookingRepo) MoveToWaitlist(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transition(id, entity.BookingStatusPending, entity.BookingStatusWaitlist, func(b *entity.Booking) {
		b.SeatHeld = false
	}), nil
}

func (r *fakeBookingRepo) MarkCancelled(ctx context.Context, id int64, from entity.BookingStatus, at time.Time) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return false, false, nil
	}
	seatHeld := b.SeatHeld
	b.Status = entity.BookingStatusCancelled
	b.SeatHeld = false
	b.CancelledAt = &at
	return seatHeld, true, nil
}

func (r *fakeBookingRepo) CancelOverduePending(ctx context.Context, id int64, now time.Time) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != entity.BookingStatusPending || b.ExpiresAt.After(now) {
		return false, false, nil
	}
	seatHeld := b.SeatHeld
	b.Status = entity.BookingStatusCancelled
	b.SeatHeld = false
	b.CancelledAt = &now
	return seatHeld, true, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1, events: make(map[int64]*entity.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = r.nextID
	r.nextID++
	event.AvailableSeats = event.TotalSeats
	stored := *event
	r.events[event.ID] = &stored
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepo) GetAll(ctx context.Context) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Event
	for _, e := range r.events {
		copied := *e
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) GetByOrganizer(ctx context.Context, email string) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Event
	for _, e := range r.events {
		if e.OrganizerEmail == email {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return entity.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

// fakeSeatLedger reproduces the ledger contract over the fake repos:
// Release hands the seat to the oldest waitlisted booking before the
// counter ever rises.
type fakeSeatLedger struct {
	mu       sync.Mutex
	events   *fakeEventRepo
	bookings *fakeBookingRepo
}

func newFakeSeatLedger(events *fakeEventRepo, bookings *fakeBookingRepo) *fakeSeatLedger {
	return &fakeSeatLedger{events: events, bookings: bookings}
}

func (l *fakeSeatLedger) Reserve(ctx context.Context, eventID int64) (ledger.Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events.mu.Lock()
	defer l.events.mu.Unlock()

	e, ok := l.events.events[eventID]
	if !ok {
		return 0, entity.ErrEventNotFound
	}
	if e.AvailableSeats == 0 {
		return ledger.OutcomeWaitlistedFull, nil
	}
	e.AvailableSeats--
	return ledger.OutcomeReserved, nil
}

func (l *fakeSeatLedger) Release(ctx context.Context, eventID int64) (*ledger.Promotion, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events.mu.Lock()
	e, ok := l.events.events[eventID]
	l.events.mu.Unlock()
	if !ok {
		return nil, entity.ErrEventNotFound
	}

	l.bookings.mu.Lock()
	defer l.bookings.mu.Unlock()

	var head *entity.Booking
	for _, b := range l.bookings.bookings {
		if b.EventID != eventID || b.Status != entity.BookingStatusWaitlist {
			continue
		}
		if head == nil || b.CreatedAt.Before(head.CreatedAt) {
			head = b
		}
	}

	if head != nil {
		head.Status = entity.BookingStatusConfirmed
		head.SeatHeld = true
		return &ledger.Promotion{BookingID: head.ID, UserEmail: head.UserEmail}, nil
	}

	l.events.mu.Lock()
	if e.AvailableSeats < e.TotalSeats {
		e.AvailableSeats++
	}
	l.events.mu.Unlock()
	return nil, nil
}

func (l *fakeSeatLedger) Peek(ctx context.Context, eventID int64) (int, error) {
	l.events.mu.Lock()
	defer l.events.mu.Unlock()
	e, ok := l.events.events[eventID]
	if !ok {
		return 0, entity.ErrEventNotFound
	}
	return e.AvailableSeats, nil
}

type fakePublisher struct {
	mu    sync.Mutex
	tasks []*Task
}

func (p *fakePublisher) Publish(ctx context.Context, task *Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*entity.User)}
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			u.Name = user.Name
			u.Photo = user.Photo
			user.ID = u.ID
			user.Role = u.Role
			user.Status = u.Status
			user.CreatedAt = u.CreatedAt
			return nil
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *fakeUserRepo) GetAll(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) RequestManager(ctx context.Context, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.Role == entity.RoleUser && u.Status == entity.StatusVerified {
			u.Status = entity.StatusRequested
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeUserRepo) ApproveManager(ctx context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Status != entity.StatusRequested {
		return 0, nil
	}
	u.Role = entity.RoleManager
	u.Status = entity.StatusVerified
	return 1, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}
