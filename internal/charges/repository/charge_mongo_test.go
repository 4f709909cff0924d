package repository_test

import (
	"context"
	"testing"
	"time"

	chargeserrors "tenniscourts/internal/charges/errors"
	"tenniscourts/internal/charges/repository"
	"tenniscourts/internal/testutil/mongotest"
	"tenniscourts/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func charge(id string, amount int64, created time.Time) *model.Charge {
	return &model.Charge{
		ID:          id,
		Status:      model.ChargeStatusPaid,
		Amount:      amount,
		AmountSoles: float64(amount) / 100,
		Currency:    model.CurrencyPEN,
		Email:       "ana@example.com",
		Method:      model.MethodCard,
		Description: "Booking payment (demo)",
		Metadata:    map[string]any{"court": 2},
		CreatedAt:   created.UTC().Truncate(time.Millisecond),
		VoucherURL:  model.VoucherPath(id),
	}
}

func TestMongoChargeRepository(t *testing.T) {
	cfg, h := mongotest.Setup(t)
	repo := repository.NewMongoChargeRepository(cfg)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Upsert(ctx, charge("ch_mock_1", 3500, now.Add(-time.Hour))))
	require.NoError(t, repo.Upsert(ctx, charge("ch_mock_2", 7000, now)))

	// upsert replaces by id
	updated := charge("ch_mock_1", 3500, now.Add(-time.Hour))
	updated.Status = model.ChargeStatusFailed
	require.NoError(t, repo.Upsert(ctx, updated))
	assert.Equal(t, int64(2), h.CountDocuments(t, repository.CollectionName))

	got, err := repo.FindByID(ctx, "ch_mock_1")
	require.NoError(t, err)
	assert.Equal(t, model.ChargeStatusFailed, got.Status)
	assert.Equal(t, 35.0, got.AmountSoles)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ch_mock_2", all[0].ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = repo.FindByID(ctx, "ch_mock_missing")
	assert.ErrorIs(t, err, chargeserrors.ErrNotFound)
}
