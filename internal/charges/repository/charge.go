package repository

import (
	"context"
	"errors"
	"fmt"

	chargeserrors "tenniscourts/internal/charges/errors"
	"tenniscourts/pkg/config"
	"tenniscourts/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Charges"
)

type ChargeRepository interface {
	// Upsert replaces any stored charge with the same id.
	Upsert(ctx context.Context, charge *model.Charge) error
	FindByID(ctx context.Context, id string) (*model.Charge, error)
	FindAll(ctx context.Context) ([]*model.Charge, error)
	Count(ctx context.Context) (int64, error)
}

type mongoChargeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoChargeRepository(cfg *config.Config) ChargeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoChargeRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoChargeRepository) Upsert(ctx context.Context, charge *model.Charge) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"id": charge.ID}, charge, opts); err != nil {
		return fmt.Errorf("failed to upsert charge: %w", err)
	}
	return nil
}

func (r *mongoChargeRepository) FindByID(ctx context.Context, id string) (*model.Charge, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var charge model.Charge
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&charge)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, chargeserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find charge: %w", err)
	}
	return &charge, nil
}

func (r *mongoChargeRepository) FindAll(ctx context.Context) ([]*model.Charge, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find charges: %w", err)
	}
	defer cursor.Close(ctx)

	charges := []*model.Charge{}
	if err = cursor.All(ctx, &charges); err != nil {
		return nil, fmt.Errorf("failed to decode charges: %w", err)
	}
	return charges, nil
}

func (r *mongoChargeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count charges: %w", err)
	}
	return count, nil
}
