package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "tenniscourts/internal/bookings/errors"
	"tenniscourts/pkg/config"
	"tenniscourts/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository provides operations for advisory locks
type BookingLockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) (owner string, err error)
	Release(ctx context.Context, lockID, owner string) error
}

type mongoBookingLockRepository struct {
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts the lock document. A live lock with the same id makes the
// insert fail with a duplicate key, reported as ErrLockHeld. Expired locks are
// removed by the TTL index or taken over here. The returned owner token is
// required to release the lock.
func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	lock := &model.BookingLock{
		ID:        lockID,
		Owner:     uuid.NewString(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil {
		return lock.Owner, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return "", fmt.Errorf("failed to acquire lock: %w", err)
	}

	// The TTL monitor runs about once a minute; take over a lock that has
	// already expired instead of waiting for it.
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "expires_at": bson.M{"$lte": now}})
	if err != nil {
		return "", fmt.Errorf("failed to clear expired lock: %w", err)
	}
	if res.DeletedCount == 0 {
		return "", bookingserrors.ErrLockHeld
	}
	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", bookingserrors.ErrLockHeld
		}
		return "", fmt.Errorf("failed to acquire lock: %w", err)
	}
	return lock.Owner, nil
}

// Release deletes the lock only while owner still holds it. A lock that
// expired and was taken over by another request is left alone.
func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID, owner string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner}); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
