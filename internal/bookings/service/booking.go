package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	bookingserrors "tenniscourts/internal/bookings/errors"
	"tenniscourts/internal/bookings/repository"
	"tenniscourts/internal/bookings/validator"
	"tenniscourts/internal/events"
	"tenniscourts/internal/slots"
	"tenniscourts/pkg/config"
	apperrors "tenniscourts/pkg/errors"
	"tenniscourts/pkg/metrics"
	"tenniscourts/pkg/model"
	"tenniscourts/pkg/sanitizer"
	"tenniscourts/pkg/validation"
)

const (
	// MaxDailyHoursPerCourt caps confirmed bookings per (email, date, court)
	// for everyone except the administrator.
	MaxDailyHoursPerCourt = 2

	quotaLockTTL = 10 * time.Second
)

type BookingService interface {
	Availability(ctx context.Context, date string) (*model.DayAvailability, error)
	Create(ctx context.Context, booking *model.Booking) error
	ListByEmail(ctx context.Context, email string) ([]*model.Booking, error)
	ListByDate(ctx context.Context, date string) ([]*model.Booking, error)
	ListActive(ctx context.Context) ([]*model.Booking, error)
	Cancel(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	metrics   *metrics.Metrics
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	m *metrics.Metrics,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Availability(ctx context.Context, date string) (*model.DayAvailability, error) {
	day, err := slots.ParseDate(date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	date = day.Format(slots.DateLayout)

	bookings, err := s.repo.FindActiveByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	occupied := make(map[slots.Key]bool, len(bookings))
	for _, b := range bookings {
		if b.IsConfirmed() {
			occupied[slots.Key{Time: b.StartTime, Court: b.CourtNumber}] = true
		}
	}

	return &model.DayAvailability{
		Date:  date,
		Slots: slots.ComputeAvailability(occupied),
	}, nil
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		s.metrics.BookingRejected(metrics.ReasonValidation)
		return err
	}

	isAdmin := s.cfg.IsAdminEmail(booking.Email)

	// Serialises the count-then-insert below for one customer, court and day.
	// Slot uniqueness does not depend on it: the unique index covers that.
	if !isAdmin {
		lockID := quotaLockID(booking)
		owner, err := s.lockRepo.Acquire(ctx, lockID, quotaLockTTL)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrLockHeld) {
				s.metrics.BookingRejected(metrics.ReasonLocked)
				return apperrors.Conflict("Another booking for this customer, court and day is in progress. Please try again.")
			}
			return apperrors.Internal("Failed to acquire booking lock", err)
		}
		defer func() {
			if err := s.lockRepo.Release(context.WithoutCancel(ctx), lockID, owner); err != nil {
				s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", err)
			}
		}()
	}

	taken, err := s.repo.ExistsConfirmed(ctx, booking.BookingDate, booking.StartTime, booking.CourtNumber)
	if err != nil {
		return apperrors.Internal("Failed to check slot availability", err)
	}
	if taken {
		s.metrics.BookingRejected(metrics.ReasonConflict)
		return slotTaken(booking)
	}

	if !isAdmin {
		count, err := s.repo.CountConfirmed(ctx, booking.Email, booking.BookingDate, booking.CourtNumber)
		if err != nil {
			return apperrors.Internal("Failed to check booking quota", err)
		}
		if count >= MaxDailyHoursPerCourt {
			s.metrics.BookingRejected(metrics.ReasonQuota)
			s.cfg.Log.Info("Booking quota reached",
				"email", booking.Email,
				"date", booking.BookingDate,
				"court", booking.CourtNumber,
			)
			return apperrors.QuotaExceeded(fmt.Sprintf(
				"Limit of %d hours per court and day reached for this customer", MaxDailyHoursPerCourt,
			))
		}
	}

	end, err := slots.EndTime(booking.StartTime)
	if err != nil {
		return apperrors.Internal("Failed to compute end time", err)
	}
	if booking.ChargeID == "" && booking.VoucherURL != "" {
		booking.ChargeID = model.ChargeIDFromVoucherURL(booking.VoucherURL)
	}
	booking.EndTime = end
	booking.Status = model.BookingStatusConfirmed
	booking.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotTaken) {
			s.metrics.BookingRejected(metrics.ReasonConflict)
			return slotTaken(booking)
		}
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"date", booking.BookingDate,
		"start_time", booking.StartTime,
		"court", booking.CourtNumber,
		"charge_id", booking.ChargeID,
	)
	s.metrics.BookingCreated()
	s.publisher.BookingCreated(ctx, booking)
	return nil
}

func (s *bookingService) ListByEmail(ctx context.Context, email string) ([]*model.Booking, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	bookings, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by email", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	day, err := slots.ParseDate(date)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	bookings, err := s.repo.FindActiveByDate(ctx, day.Format(slots.DateLayout))
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by date", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListActive(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.repo.FindActive(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// Cancel is idempotent: cancelling an already cancelled booking succeeds
// without emitting another event.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, changed, err := s.repo.Cancel(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return apperrors.Internal("Failed to cancel booking", err)
	}

	if !changed {
		s.cfg.Log.Info("Booking already cancelled", "id", id)
		return nil
	}

	s.cfg.Log.Info("Booking cancelled", "id", id)
	s.metrics.BookingCancelled()
	s.publisher.BookingCancelled(ctx, booking)
	return nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.CustomerName = sanitizer.NormalizeName(b.CustomerName)
	b.Email = sanitizer.NormalizeEmail(b.Email)
	b.Phone = sanitizer.NormalizePhone(b.Phone)
	b.BookingDate = strings.TrimSpace(b.BookingDate)
	if start, err := slots.NormalizeStartTime(b.StartTime); err == nil {
		b.StartTime = start
	}
	b.AdminComment = sanitizer.NormalizeComment(b.AdminComment)
	b.VoucherURL = strings.TrimSpace(b.VoucherURL)
	b.ChargeID = strings.TrimSpace(b.ChargeID)
	// Server assigned.
	b.ID = ""
	b.EndTime = ""
	b.Status = ""
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			return apperrors.Validation("Booking validation failed", verrs.Details())
		}
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func quotaLockID(b *model.Booking) string {
	return "quota_" + b.Email + "_" + b.BookingDate + "_" + strconv.Itoa(b.CourtNumber)
}

func slotTaken(b *model.Booking) error {
	return apperrors.Conflict(fmt.Sprintf(
		"Court %d is already booked on %s at %s", b.CourtNumber, b.BookingDate, b.StartTime,
	))
}
