package vouchers

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	chargeserrors "tenniscourts/internal/charges/errors"
	"tenniscourts/pkg/config"
	apperrors "tenniscourts/pkg/errors"
	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCharges struct {
	charges map[string]*model.Charge
	err     error
}

func (s *stubCharges) Get(_ context.Context, id string) (*model.Charge, error) {
	if s.err != nil {
		return nil, s.err
	}
	if c, ok := s.charges[id]; ok {
		return c, nil
	}
	return nil, chargeserrors.ErrNotFound
}

type stubBookings struct {
	bookings []*model.Booking
	calls    []string
}

func (s *stubBookings) FindByChargeID(_ context.Context, id string) ([]*model.Booking, error) {
	s.calls = append(s.calls, "charge_id")
	return s.filter(func(b *model.Booking) bool { return b.ChargeID == id }), nil
}

func (s *stubBookings) FindByVoucherURL(_ context.Context, u string) ([]*model.Booking, error) {
	s.calls = append(s.calls, "voucher_url")
	return s.filter(func(b *model.Booking) bool { return b.VoucherURL == u }), nil
}

func (s *stubBookings) FindByVoucherURLContaining(_ context.Context, fragment string) ([]*model.Booking, error) {
	s.calls = append(s.calls, "voucher_url_contains")
	return s.filter(func(b *model.Booking) bool { return strings.Contains(b.VoucherURL, fragment) }), nil
}

func (s *stubBookings) filter(keep func(*model.Booking) bool) []*model.Booking {
	out := []*model.Booking{}
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func newResolver(charges *stubCharges, bookings *stubBookings) *Resolver {
	cfg := config.Defaults()
	cfg.Log = logger.NewNop()
	cfg.PricePerHour = 35
	r := NewResolver(charges, bookings, nil, cfg)
	r.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func twoHourBlock() []*model.Booking {
	created := time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC)
	return []*model.Booking{
		{ID: "b1", CustomerName: "Ana", Email: "ana@example.com", BookingDate: "2024-06-01", StartTime: "09:00", EndTime: "10:00", CourtNumber: 2, ChargeID: "ch_mock_1", AdminComment: "walk-in", CreatedAt: created},
		{ID: "b2", CustomerName: "Ana", Email: "ana@example.com", BookingDate: "2024-06-01", StartTime: "10:00", EndTime: "11:00", CourtNumber: 2, ChargeID: "ch_mock_1", CreatedAt: created.Add(time.Minute)},
	}
}

func TestResolve_StoredFirst(t *testing.T) {
	charges := &stubCharges{charges: map[string]*model.Charge{
		"ch_mock_1": {
			ID: "ch_mock_1", Status: model.ChargeStatusFailed, Amount: 7000, AmountSoles: 70, Currency: "PEN",
			Email: "ana@example.com", Method: model.MethodYape,
			Metadata: map[string]any{"court": float64(2), "date": "2024-06-01", "start": "09:00", "end": "11:00", "customer_name": "Ana", "comment": "paid at desk"},
		},
	}}
	bookings := &stubBookings{bookings: twoHourBlock()}

	got, err := newResolver(charges, bookings).Resolve(context.Background(), "ch_mock_1", FallbackQuery{})
	require.NoError(t, err)

	assert.Equal(t, SourceStored, got.Source)
	assert.Equal(t, model.ChargeStatusFailed, got.Status)
	assert.Equal(t, 2, got.Reservation.Court)
	assert.Equal(t, "paid at desk", got.Reservation.Comment)
	assert.Empty(t, bookings.calls)
}

func TestResolve_FromBookings(t *testing.T) {
	bookings := &stubBookings{bookings: twoHourBlock()}

	got, err := newResolver(&stubCharges{}, bookings).Resolve(context.Background(), "ch_mock_1", FallbackQuery{})
	require.NoError(t, err)

	assert.Equal(t, SourceBookings, got.Source)
	assert.Equal(t, int64(7000), got.Amount)
	assert.Equal(t, 70.0, got.AmountSoles)
	assert.Equal(t, model.ChargeStatusPaid, got.Status)
	assert.Equal(t, model.MethodMock, got.Method)
	assert.Equal(t, "Court 2 booking | 09:00–11:00 (2h)", got.Description)
	assert.Equal(t, "09:00", got.Reservation.Start)
	assert.Equal(t, "11:00", got.Reservation.End)
	assert.Equal(t, "b1", got.Reservation.ID)
	assert.Equal(t, "walk-in", got.Reservation.Comment)
	assert.Equal(t, twoHourBlock()[0].CreatedAt, got.CreatedAt)
	assert.Equal(t, []string{"charge_id"}, bookings.calls)
}

func TestResolve_VoucherURLFallbacks(t *testing.T) {
	exact := &model.Booking{ID: "b1", BookingDate: "2024-06-01", StartTime: "18:00", EndTime: "19:00", CourtNumber: 3, VoucherURL: "/voucher/ch_mock_7"}
	bookings := &stubBookings{bookings: []*model.Booking{exact}}

	got, err := newResolver(&stubCharges{}, bookings).Resolve(context.Background(), "ch_mock_7", FallbackQuery{})
	require.NoError(t, err)
	assert.Equal(t, SourceBookings, got.Source)
	assert.Equal(t, []string{"charge_id", "voucher_url"}, bookings.calls)

	absolute := &model.Booking{ID: "b2", BookingDate: "2024-06-01", StartTime: "18:00", EndTime: "19:00", CourtNumber: 3, VoucherURL: "https://courts.example/voucher/ch_mock_8.pdf"}
	bookings = &stubBookings{bookings: []*model.Booking{absolute}}

	got, err = newResolver(&stubCharges{}, bookings).Resolve(context.Background(), "ch_mock_8", FallbackQuery{})
	require.NoError(t, err)
	assert.Equal(t, "b2", got.Reservation.ID)
	assert.Equal(t, []string{"charge_id", "voucher_url", "voucher_url_contains"}, bookings.calls)
}

func TestResolve_FromQuery(t *testing.T) {
	q := FallbackQueryFromValues(url.Values{
		"fallback": {"1"}, "court": {"1"}, "date": {"2024-06-01"},
		"start": {"08:00"}, "end": {"11:00"}, "comment": {"reception"},
	})

	got, err := newResolver(&stubCharges{}, &stubBookings{}).Resolve(context.Background(), "ch_mock_x", q)
	require.NoError(t, err)

	assert.Equal(t, SourceQuery, got.Source)
	assert.Equal(t, int64(10500), got.Amount)
	assert.Equal(t, DefaultEmail, got.Email)
	assert.Equal(t, DefaultCustomerName, got.Reservation.CustomerName)
	assert.Equal(t, "reception", got.Reservation.Comment)
	assert.Equal(t, "Court 1 booking | 08:00–11:00 (3h)", got.Description)
}

func TestResolve_QueryHoursClamped(t *testing.T) {
	tests := []struct {
		start, end string
		want       int64
	}{
		{"06:00", "22:00", 6 * 3500},
		{"10:00", "10:00", 3500},
		{"12:00", "09:00", 3500},
		{"noon", "13:00", 3500},
	}
	for _, tt := range tests {
		q := FallbackQuery{Enabled: true, Court: "1", Date: "2024-06-01", Start: tt.start, End: tt.end, Email: "bo@example.com"}
		got, err := newResolver(&stubCharges{}, &stubBookings{}).Resolve(context.Background(), "ch_q", q)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Amount, "%s-%s", tt.start, tt.end)
		assert.Equal(t, "bo@example.com", got.Reservation.CustomerName)
	}
}

func TestResolve_NotFound(t *testing.T) {
	tests := []struct {
		name string
		q    FallbackQuery
	}{
		{"no fallback", FallbackQuery{Court: "1", Date: "2024-06-01", Start: "08:00", End: "09:00"}},
		{"missing end", FallbackQuery{Enabled: true, Court: "1", Date: "2024-06-01", Start: "08:00"}},
		{"bad court", FallbackQuery{Enabled: true, Court: "two", Date: "2024-06-01", Start: "08:00", End: "09:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newResolver(&stubCharges{}, &stubBookings{}).Resolve(context.Background(), "ch_none", tt.q)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
		})
	}
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	boom := apperrors.Internal("Failed to load charge", errors.New("mongo down"))
	_, err := newResolver(&stubCharges{err: boom}, &stubBookings{}).Resolve(context.Background(), "ch_mock_1", FallbackQuery{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}
