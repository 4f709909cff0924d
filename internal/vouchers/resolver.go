package vouchers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	chargeserrors "tenniscourts/internal/charges/errors"
	"tenniscourts/internal/slots"
	"tenniscourts/pkg/config"
	apperrors "tenniscourts/pkg/errors"
	"tenniscourts/pkg/metrics"
	"tenniscourts/pkg/model"
	"tenniscourts/pkg/sanitizer"
)

type Source string

const (
	SourceStored   Source = "stored"
	SourceBookings Source = "bookings"
	SourceQuery    Source = "query"
)

const (
	DefaultEmail        = "demo@example.com"
	DefaultCustomerName = "Cliente"

	maxFallbackHours = 6
)

// Reservation is the court-hour block a voucher describes. Court is zero
// when unknown.
type Reservation struct {
	ID           string
	Court        int
	Date         string
	Start        string
	End          string
	CustomerName string
	Comment      string
}

// ResolvedCharge is what a voucher is rendered from, whichever path found it.
type ResolvedCharge struct {
	Source      Source
	ID          string
	Status      string
	Amount      int64
	AmountSoles float64
	Currency    string
	Email       string
	Method      string
	Description string
	CreatedAt   time.Time
	Reservation Reservation
}

// FallbackQuery carries the voucher query parameters used when neither the
// charge store nor the bookings know the id.
type FallbackQuery struct {
	Enabled bool
	Court   string
	Date    string
	Start   string
	End     string
	Name    string
	Email   string
	Comment string
}

func FallbackQueryFromValues(v url.Values) FallbackQuery {
	return FallbackQuery{
		Enabled: v.Get("fallback") == "1",
		Court:   strings.TrimSpace(v.Get("court")),
		Date:    strings.TrimSpace(v.Get("date")),
		Start:   strings.TrimSpace(v.Get("start")),
		End:     strings.TrimSpace(v.Get("end")),
		Name:    strings.TrimSpace(v.Get("name")),
		Email:   strings.TrimSpace(v.Get("email")),
		Comment: strings.TrimSpace(v.Get("comment")),
	}
}

type ChargeLookup interface {
	// Get returns chargeserrors.ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*model.Charge, error)
}

type BookingLookup interface {
	FindByChargeID(ctx context.Context, chargeID string) ([]*model.Booking, error)
	FindByVoucherURL(ctx context.Context, voucherURL string) ([]*model.Booking, error)
	FindByVoucherURLContaining(ctx context.Context, fragment string) ([]*model.Booking, error)
}

type Resolver struct {
	charges  ChargeLookup
	bookings BookingLookup
	metrics  *metrics.Metrics
	cfg      *config.Config
	now      func() time.Time
}

func NewResolver(charges ChargeLookup, bookings BookingLookup, m *metrics.Metrics, cfg *config.Config) *Resolver {
	return &Resolver{
		charges:  charges,
		bookings: bookings,
		metrics:  m,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Resolve tries the charge store, then the bookings, then the query
// parameters, and stops at the first that knows the id.
func (r *Resolver) Resolve(ctx context.Context, chargeID string, q FallbackQuery) (*ResolvedCharge, error) {
	if chargeID == "" {
		return nil, apperrors.NotFound("Voucher")
	}

	resolved, err := r.fromStore(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		resolved, err = r.fromBookings(ctx, chargeID)
		if err != nil {
			return nil, err
		}
	}
	if resolved == nil {
		resolved = r.fromQuery(chargeID, q)
	}
	if resolved == nil {
		r.cfg.Log.Debug("Voucher not resolved", "charge_id", chargeID)
		return nil, apperrors.NotFoundWithID("Voucher", chargeID)
	}

	r.metrics.VoucherResolved(string(resolved.Source))
	return resolved, nil
}

func (r *Resolver) fromStore(ctx context.Context, chargeID string) (*ResolvedCharge, error) {
	charge, err := r.charges.Get(ctx, chargeID)
	if err != nil {
		if errors.Is(err, chargeserrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	meta := charge.Metadata
	return &ResolvedCharge{
		Source:      SourceStored,
		ID:          charge.ID,
		Status:      charge.Status,
		Amount:      charge.Amount,
		AmountSoles: charge.AmountSoles,
		Currency:    charge.Currency,
		Email:       charge.Email,
		Method:      charge.Method,
		Description: charge.Description,
		CreatedAt:   charge.CreatedAt,
		Reservation: Reservation{
			ID:           metaString(meta, "reservation_id"),
			Court:        metaInt(meta, "court"),
			Date:         metaString(meta, "date"),
			Start:        metaString(meta, "start"),
			End:          metaString(meta, "end"),
			CustomerName: metaString(meta, "customer_name"),
			Comment:      firstNonEmpty(metaString(meta, "admin_comment"), metaString(meta, "comment")),
		},
	}, nil
}

func (r *Resolver) fromBookings(ctx context.Context, chargeID string) (*ResolvedCharge, error) {
	lookups := []func() ([]*model.Booking, error){
		func() ([]*model.Booking, error) { return r.bookings.FindByChargeID(ctx, chargeID) },
		func() ([]*model.Booking, error) { return r.bookings.FindByVoucherURL(ctx, model.VoucherPath(chargeID)) },
		func() ([]*model.Booking, error) { return r.bookings.FindByVoucherURLContaining(ctx, chargeID) },
	}

	var bookings []*model.Booking
	for _, lookup := range lookups {
		found, err := lookup()
		if err != nil {
			r.cfg.Log.Error("Failed to look up bookings for voucher", "charge_id", chargeID, "error", err)
			return nil, apperrors.Internal("Failed to resolve voucher", err)
		}
		if len(found) > 0 {
			bookings = found
			break
		}
	}
	if len(bookings) == 0 {
		return nil, nil
	}

	first, last := bookings[0], bookings[len(bookings)-1]
	hours := len(bookings)
	return &ResolvedCharge{
		Source:      SourceBookings,
		ID:          chargeID,
		Status:      model.ChargeStatusPaid,
		Amount:      r.amountFor(hours),
		AmountSoles: r.cfg.PricePerHour * float64(hours),
		Currency:    model.CurrencyPEN,
		Email:       first.Email,
		Method:      model.MethodMock,
		Description: describe(strconv.Itoa(first.CourtNumber), first.StartTime, last.EndTime, hours),
		CreatedAt:   first.CreatedAt,
		Reservation: Reservation{
			ID:           first.ID,
			Court:        first.CourtNumber,
			Date:         first.BookingDate,
			Start:        first.StartTime,
			End:          last.EndTime,
			CustomerName: first.CustomerName,
			Comment:      first.AdminComment,
		},
	}, nil
}

func (r *Resolver) fromQuery(chargeID string, q FallbackQuery) *ResolvedCharge {
	if !q.Enabled || q.Court == "" || q.Date == "" || q.Start == "" || q.End == "" {
		return nil
	}
	court, err := strconv.Atoi(q.Court)
	if err != nil {
		return nil
	}

	hours := 1
	startHour, startErr := slots.HourOf(q.Start)
	endHour, endErr := slots.HourOf(q.End)
	if startErr == nil && endErr == nil {
		hours = sanitizer.ClampInt(endHour-startHour, 1, maxFallbackHours)
	}

	return &ResolvedCharge{
		Source:      SourceQuery,
		ID:          chargeID,
		Status:      model.ChargeStatusPaid,
		Amount:      r.amountFor(hours),
		AmountSoles: r.cfg.PricePerHour * float64(hours),
		Currency:    model.CurrencyPEN,
		Email:       firstNonEmpty(q.Email, DefaultEmail),
		Method:      model.MethodMock,
		Description: describe(q.Court, q.Start, q.End, hours),
		CreatedAt:   r.now().UTC().Truncate(time.Millisecond),
		Reservation: Reservation{
			Court:        court,
			Date:         q.Date,
			Start:        q.Start,
			End:          q.End,
			CustomerName: firstNonEmpty(q.Name, q.Email, DefaultCustomerName),
			Comment:      q.Comment,
		},
	}
}

func (r *Resolver) amountFor(hours int) int64 {
	return int64(math.Round(r.cfg.PricePerHour * 100 * float64(hours)))
}

func describe(court, start, end string, hours int) string {
	return fmt.Sprintf("Court %s booking | %s–%s (%dh)", court, start, end, hours)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func metaString(meta map[string]any, key string) string {
	switch v := meta[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// metaInt accepts the numeric shapes JSON and BSON decoding produce.
func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
