package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "tenniscourts/pkg/errors"
	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/middleware"
	"tenniscourts/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	recordErr error
	status    string
	recorded  int
}

func (s *stubService) Record(_ context.Context, req *model.PaymentRequest) (*model.Charge, error) {
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	s.recorded++
	status := s.status
	if status == "" {
		status = model.ChargeStatusPaid
	}
	return &model.Charge{
		ID:          "ch_mock_abc",
		Status:      status,
		Amount:      int64(req.AmountSoles * 100),
		AmountSoles: req.AmountSoles,
		Currency:    model.CurrencyPEN,
		Email:       req.Email,
		VoucherURL:  "/voucher/ch_mock_abc",
	}, nil
}

func (s *stubService) List(context.Context) ([]*model.Charge, error) {
	return []*model.Charge{{ID: "ch_mock_2"}, {ID: "ch_mock_1"}}, nil
}

func (s *stubService) Get(context.Context, string) (*model.Charge, error) { return nil, nil }

func (s *stubService) Count(context.Context) (int64, error) { return 2, nil }

func (s *stubService) CreateSession(_ context.Context, req *model.PaymentSessionRequest) *model.PaymentSession {
	return &model.PaymentSession{
		ID:             "ps_mock_abc",
		PaymentMethods: []string{model.MethodCard, model.MethodYape},
		CreatedAt:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		AmountSoles:    req.AmountSoles,
		Metadata:       map[string]any{},
	}
}

func newRouter(svc *stubService) *httprouter.Router {
	h := NewChargeHandler(svc, logger.NewNop())
	r := httprouter.New()
	r.POST("/api/payments/session", h.CreateSession)
	r.POST("/api/payments/charge", h.Record)
	r.GET("/api/payments/charges", h.List)
	return r
}

func serve(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRecord(t *testing.T) {
	rec := serve(newRouter(&stubService{}), http.MethodPost, "/api/payments/charge", `{"amount_soles":35,"email":"ana@example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.PaymentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.OK)
	assert.Equal(t, int64(3500), got.Charge.Amount)
	assert.Equal(t, "/voucher/ch_mock_abc", got.Charge.VoucherURL)
}

func TestRecord_DeclinedIsNotOK(t *testing.T) {
	rec := serve(newRouter(&stubService{status: model.ChargeStatusFailed}), http.MethodPost, "/api/payments/charge",
		`{"amount_soles":35,"email":"ana@example.com","simulate":{"status":"failed"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.PaymentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.OK)
	assert.Equal(t, model.ChargeStatusFailed, got.Charge.Status)
}

func TestRecord_Errors(t *testing.T) {
	rec := serve(newRouter(&stubService{}), http.MethodPost, "/api/payments/charge", `{"amount_soles":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc := &stubService{recordErr: apperrors.InvalidInput("PAYMENT_MODE must be 'mock'")}
	rec = serve(newRouter(svc), http.MethodPost, "/api/payments/charge", `{"amount_soles":35}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYMENT_MODE")
}

func TestRecord_IdempotentReplay(t *testing.T) {
	svc := &stubService{}
	h := NewChargeHandler(svc, logger.NewNop())
	store := middleware.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(store.Stop)

	handler := middleware.Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Record(w, r, nil)
	}))

	body := `{"amount_soles":35,"email":"ana@example.com"}`
	first := serve(handler, http.MethodPost, "/api/payments/charge", body, middleware.IdempotencyKeyHeader, "k-1")
	second := serve(handler, http.MethodPost, "/api/payments/charge", body, middleware.IdempotencyKeyHeader, "k-1")

	assert.Equal(t, 1, svc.recorded)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotentReplayedHeader))
}

func TestCreateSession_EmptyBody(t *testing.T) {
	rec := serve(newRouter(&stubService{}), http.MethodPost, "/api/payments/session", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.PaymentSessionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.OK)
	assert.Equal(t, "ps_mock_abc", got.Session.ID)
	assert.Nil(t, got.Session.AmountSoles)
}

func TestList(t *testing.T) {
	rec := serve(newRouter(&stubService{}), http.MethodGet, "/api/payments/charges", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.ChargeList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.OK)
	require.Len(t, got.Charges, 2)
	assert.Equal(t, "ch_mock_2", got.Charges[0].ID)
}
