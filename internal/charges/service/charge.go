package service

import (
	"context"
	"errors"
	"math"
	"time"

	"tenniscourts/internal/charges/cache"
	chargeserrors "tenniscourts/internal/charges/errors"
	"tenniscourts/internal/charges/repository"
	"tenniscourts/internal/events"
	"tenniscourts/pkg/config"
	apperrors "tenniscourts/pkg/errors"
	"tenniscourts/pkg/metrics"
	"tenniscourts/pkg/model"
	"tenniscourts/pkg/sanitizer"
	"tenniscourts/pkg/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ChargeIDPrefix  = "ch_mock_"
	SessionIDPrefix = "ps_mock_"

	DefaultDescription = "Booking payment (demo)"
)

type ChargeService interface {
	Record(ctx context.Context, req *model.PaymentRequest) (*model.Charge, error)
	List(ctx context.Context) ([]*model.Charge, error)
	// Get returns chargeserrors.ErrNotFound when no charge has the id.
	Get(ctx context.Context, id string) (*model.Charge, error)
	Count(ctx context.Context) (int64, error)
	CreateSession(ctx context.Context, req *model.PaymentSessionRequest) *model.PaymentSession
}

type chargeService struct {
	repo      repository.ChargeRepository
	cache     *cache.ChargeCache
	validator *validation.Validator
	publisher events.Publisher
	metrics   *metrics.Metrics
	cfg       *config.Config
	now       func() time.Time
	newID     func() string
}

func NewChargeService(
	repo repository.ChargeRepository,
	cache *cache.ChargeCache,
	validator *validation.Validator,
	publisher events.Publisher,
	m *metrics.Metrics,
	cfg *config.Config,
) ChargeService {
	return &chargeService{
		repo:      repo,
		cache:     cache,
		validator: validator,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
		now:       time.Now,
		newID:     func() string { return primitive.NewObjectID().Hex() },
	}
}

func (s *chargeService) Record(ctx context.Context, req *model.PaymentRequest) (*model.Charge, error) {
	if s.cfg.PaymentMode != config.PaymentModeMock {
		return nil, apperrors.InvalidInput("PAYMENT_MODE must be 'mock' to record demo payments")
	}

	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Description = sanitizer.TrimAndNormalize(req.Description)
	if req.Method == "" {
		req.Method = model.MethodCard
	}
	if err := s.validator.Struct(req); err != nil {
		s.cfg.Log.Warn("Payment validation failed", "error", err)
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Payment validation failed", verrs.Details())
		}
		return nil, apperrors.Validation("Payment validation failed", map[string]any{"error": err.Error()})
	}
	amount := ToMinorUnits(req.AmountSoles)
	if amount < 1 {
		return nil, apperrors.Validation("Payment validation failed", map[string]any{
			"amount_soles": "amount_soles must be at least 0.01",
		})
	}

	status := model.ChargeStatusPaid
	if req.Simulate.Status == model.ChargeStatusFailed {
		status = model.ChargeStatusFailed
	}
	description := req.Description
	if description == "" {
		description = DefaultDescription
	}
	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	id := ChargeIDPrefix + s.newID()
	charge := &model.Charge{
		ID:          id,
		Status:      status,
		Amount:      amount,
		AmountSoles: roundCents(req.AmountSoles),
		Currency:    model.CurrencyPEN,
		Email:       req.Email,
		Method:      req.Method,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
		VoucherURL:  model.VoucherPath(id),
	}

	if err := s.repo.Upsert(ctx, charge); err != nil {
		s.cfg.Log.Error("Failed to record charge", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to record charge", err)
	}
	s.cache.Set(charge)

	s.cfg.Log.Info("Charge recorded",
		"id", charge.ID,
		"status", charge.Status,
		"amount", charge.Amount,
		"method", charge.Method,
	)
	s.metrics.ChargeRecorded(charge.Status)
	s.publisher.ChargeRecorded(ctx, charge)
	return charge, nil
}

func (s *chargeService) List(ctx context.Context) ([]*model.Charge, error) {
	charges, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list charges", "error", err)
		return nil, apperrors.Internal("Failed to retrieve charges", err)
	}
	return charges, nil
}

func (s *chargeService) Get(ctx context.Context, id string) (*model.Charge, error) {
	if charge, ok := s.cache.Get(id); ok {
		s.metrics.ChargeCacheLookup(true)
		return charge, nil
	}
	s.metrics.ChargeCacheLookup(false)

	charge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, chargeserrors.ErrNotFound) {
			return nil, chargeserrors.ErrNotFound
		}
		s.cfg.Log.Error("Failed to load charge", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to load charge", err)
	}
	s.cache.Set(charge)
	return charge, nil
}

func (s *chargeService) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.Internal("Failed to count charges", err)
	}
	return count, nil
}

// CreateSession describes a mock checkout. Nothing is stored.
func (s *chargeService) CreateSession(_ context.Context, req *model.PaymentSessionRequest) *model.PaymentSession {
	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &model.PaymentSession{
		ID:             SessionIDPrefix + s.newID(),
		PaymentMethods: []string{model.MethodCard, model.MethodYape},
		CreatedAt:      s.now().UTC().Truncate(time.Millisecond),
		AmountSoles:    req.AmountSoles,
		Email:          req.Email,
		Description:    req.Description,
		Metadata:       metadata,
	}
}

// ToMinorUnits converts soles to céntimos, rounding half away from zero.
func ToMinorUnits(soles float64) int64 {
	return int64(math.Round(soles * 100))
}

func roundCents(soles float64) float64 {
	return math.Round(soles*100) / 100
}
