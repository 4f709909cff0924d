package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	bookingserrors "tenniscourts/internal/bookings/errors"
	"tenniscourts/pkg/model"
)

// memoryRepo mimics the Mongo collection including the partial unique index
// on confirmed (booking_date, start_time, court_number).
type memoryRepo struct {
	mu       sync.Mutex
	bookings []*model.Booking
	seq      int

	// widen the gap between the pre-insert check and the insert
	beforeInsert func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{}
}

func (r *memoryRepo) Create(_ context.Context, booking *model.Booking) error {
	if r.beforeInsert != nil {
		r.beforeInsert()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.Status == model.BookingStatusConfirmed {
		for _, b := range r.bookings {
			if b.Status == model.BookingStatusConfirmed &&
				b.BookingDate == booking.BookingDate &&
				b.StartTime == booking.StartTime &&
				b.CourtNumber == booking.CourtNumber {
				return bookingserrors.ErrSlotTaken
			}
		}
	}
	r.seq++
	booking.ID = fmt.Sprintf("%024x", r.seq)
	stored := *booking
	r.bookings = append(r.bookings, &stored)
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (r *memoryRepo) Cancel(_ context.Context, id string) (*model.Booking, bool, error) {
	if len(id) != 24 {
		return nil, false, bookingserrors.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			changed := b.Status != model.BookingStatusCancelled
			b.Status = model.BookingStatusCancelled
			copied := *b
			return &copied, changed, nil
		}
	}
	return nil, false, bookingserrors.ErrNotFound
}

func (r *memoryRepo) ExistsConfirmed(_ context.Context, date, startTime string, court int) (bool, error) {
	found := r.filter(func(b *model.Booking) bool {
		return b.IsConfirmed() && b.BookingDate == date && b.StartTime == startTime && b.CourtNumber == court
	}, nil)
	return len(found) > 0, nil
}

func (r *memoryRepo) CountConfirmed(_ context.Context, email, date string, court int) (int64, error) {
	found := r.filter(func(b *model.Booking) bool {
		return b.IsConfirmed() && b.Email == email && b.BookingDate == date && b.CourtNumber == court
	}, nil)
	return int64(len(found)), nil
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool { return b.Email == email }, dateThenTime), nil
}

func (r *memoryRepo) FindActiveByDate(_ context.Context, date string) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool {
		return b.BookingDate == date && b.Status != model.BookingStatusCancelled
	}, courtThenTime), nil
}

func (r *memoryRepo) FindActive(_ context.Context) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool { return b.Status != model.BookingStatusCancelled }, dateThenTime), nil
}

func (r *memoryRepo) FindByChargeID(_ context.Context, chargeID string) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool { return b.ChargeID == chargeID }, dateThenTime), nil
}

func (r *memoryRepo) FindByVoucherURL(_ context.Context, url string) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool { return b.VoucherURL == url }, dateThenTime), nil
}

func (r *memoryRepo) FindByVoucherURLContaining(_ context.Context, fragment string) ([]*model.Booking, error) {
	return r.filter(func(b *model.Booking) bool {
		return fragment != "" && strings.Contains(b.VoucherURL, fragment)
	}, dateThenTime), nil
}

func (r *memoryRepo) filter(keep func(*model.Booking) bool, less func(a, b *model.Booking) bool) []*model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			copied := *b
			out = append(out, &copied)
		}
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func dateThenTime(a, b *model.Booking) bool {
	if a.BookingDate != b.BookingDate {
		return a.BookingDate < b.BookingDate
	}
	return a.StartTime < b.StartTime
}

func courtThenTime(a, b *model.Booking) bool {
	if a.CourtNumber != b.CourtNumber {
		return a.CourtNumber < b.CourtNumber
	}
	return a.StartTime < b.StartTime
}

type heldLock struct {
	owner     string
	expiresAt time.Time
}

// memoryLocks behaves like the Booking_locks collection.
type memoryLocks struct {
	mu    sync.Mutex
	locks map[string]heldLock
	seq   int

	// onAcquire runs after a successful acquisition, outside the mutex.
	onAcquire func(lockID string)
}

func newMemoryLocks() *memoryLocks {
	return &memoryLocks{locks: map[string]heldLock{}}
}

func (l *memoryLocks) Acquire(_ context.Context, lockID string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	if held, ok := l.locks[lockID]; ok && time.Now().Before(held.expiresAt) {
		l.mu.Unlock()
		return "", bookingserrors.ErrLockHeld
	}
	l.seq++
	owner := fmt.Sprintf("owner-%d", l.seq)
	l.locks[lockID] = heldLock{owner: owner, expiresAt: time.Now().Add(ttl)}
	hook := l.onAcquire
	l.mu.Unlock()

	if hook != nil {
		hook(lockID)
	}
	return owner, nil
}

// takeOver replaces the current holder as if its lock had expired.
func (l *memoryLocks) takeOver(lockID, owner string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks[lockID] = heldLock{owner: owner, expiresAt: time.Now().Add(time.Minute)}
}

func (l *memoryLocks) Release(_ context.Context, lockID, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if held, ok := l.locks[lockID]; ok && held.owner == owner {
		delete(l.locks, lockID)
	}
	return nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	created   []string
	cancelled []string
}

func (p *recordingPublisher) BookingCreated(_ context.Context, b *model.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, b.ID)
}

func (p *recordingPublisher) BookingCancelled(_ context.Context, b *model.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, b.ID)
}

func (p *recordingPublisher) ChargeRecorded(context.Context, *model.Charge) {}
func (p *recordingPublisher) Close() error                                  { return nil }
