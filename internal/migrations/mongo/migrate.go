package mongo

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "tenniscourts/internal/bookings/repository"
	chargesrepo "tenniscourts/internal/charges/repository"
	"tenniscourts/internal/migrations/mongo/validators"
	usersrepo "tenniscourts/internal/users/repository"
	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/model"
)

const ConfirmedSlotIndex = "uniq_confirmed_slot"

var (
	// Only one confirmed booking may hold a (date, start, court) slot.
	// Cancelled bookings are outside the partial filter and never collide.
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "booking_date", Value: 1},
				{Key: "start_time", Value: 1},
				{Key: "court_number", Value: 1},
			},
			Options: options.Index().
				SetName(ConfirmedSlotIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": model.BookingStatusConfirmed}),
		},
		{Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "booking_date", Value: 1},
			{Key: "court_number", Value: 1},
		}},
		{Keys: bson.D{{Key: "charge_id", Value: 1}}},
		{Keys: bson.D{{Key: "voucher_url", Value: 1}}},
	}

	UsersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	ChargesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	BookingLocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		bookingsrepo.CollectionName: {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		bookingsrepo.LockCollectionName: {
			Indexes:   BookingLocksIndexes,
			Validator: validators.BookingLockValidator,
		},
		usersrepo.CollectionName: {
			Indexes:   UsersIndexes,
			Validator: validators.UserValidator,
		},
		chargesrepo.CollectionName: {
			Indexes:   ChargesIndexes,
			Validator: validators.ChargeValidator,
		},
	}
}

// RunMigration creates missing collections, refreshes their validators and
// ensures their indexes. It is safe to run repeatedly.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	defs := Collections()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := defs[name]
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
