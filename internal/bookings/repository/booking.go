package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	bookingserrors "tenniscourts/internal/bookings/errors"
	"tenniscourts/pkg/config"
	"tenniscourts/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

var (
	byDateThenTime  = bson.D{{Key: "booking_date", Value: 1}, {Key: "start_time", Value: 1}}
	byCourtThenTime = bson.D{{Key: "court_number", Value: 1}, {Key: "start_time", Value: 1}}
	notCancelled    = bson.M{"$ne": model.BookingStatusCancelled}
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	// Cancel moves a confirmed booking to cancelled. It reports false when the
	// booking exists but was already cancelled.
	Cancel(ctx context.Context, id string) (*model.Booking, bool, error)
	ExistsConfirmed(ctx context.Context, date, startTime string, court int) (bool, error)
	CountConfirmed(ctx context.Context, email, date string, court int) (int64, error)
	FindByEmail(ctx context.Context, email string) ([]*model.Booking, error)
	FindActiveByDate(ctx context.Context, date string) ([]*model.Booking, error)
	FindActive(ctx context.Context) ([]*model.Booking, error)
	FindByChargeID(ctx context.Context, chargeID string) ([]*model.Booking, error)
	FindByVoucherURL(ctx context.Context, voucherURL string) ([]*model.Booking, error)
	FindByVoucherURLContaining(ctx context.Context, fragment string) ([]*model.Booking, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout bounds ctx by timeout unless it already has an earlier deadline.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.ID = ""
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrSlotTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) Cancel(ctx context.Context, id string) (*model.Booking, bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "status": bson.M{"$ne": model.BookingStatusCancelled}}
	update := bson.M{"$set": bson.M{"status": model.BookingStatusCancelled}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		return &booking, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("failed to cancel booking: %w", err)
	}

	// Either unknown or already cancelled.
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, bookingserrors.ErrNotFound
		}
		return nil, false, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, false, nil
}

func (r *mongoBookingRepository) ExistsConfirmed(ctx context.Context, date, startTime string, court int) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"booking_date": date,
		"start_time":   startTime,
		"court_number": court,
		"status":       model.BookingStatusConfirmed,
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return count > 0, nil
}

func (r *mongoBookingRepository) CountConfirmed(ctx context.Context, email, date string, court int) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"email":        email,
		"booking_date": date,
		"court_number": court,
		"status":       model.BookingStatusConfirmed,
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) FindByEmail(ctx context.Context, email string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"email": email}, byDateThenTime)
}

func (r *mongoBookingRepository) FindActiveByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"booking_date": date, "status": notCancelled}, byCourtThenTime)
}

func (r *mongoBookingRepository) FindActive(ctx context.Context) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"status": notCancelled}, byDateThenTime)
}

func (r *mongoBookingRepository) FindByChargeID(ctx context.Context, chargeID string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"charge_id": chargeID}, byDateThenTime)
}

func (r *mongoBookingRepository) FindByVoucherURL(ctx context.Context, voucherURL string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"voucher_url": voucherURL}, byDateThenTime)
}

// FindByVoucherURLContaining matches fragment literally anywhere in
// voucher_url, for URLs stored in absolute form.
func (r *mongoBookingRepository) FindByVoucherURLContaining(ctx context.Context, fragment string) ([]*model.Booking, error) {
	if fragment == "" {
		return []*model.Booking{}, nil
	}
	filter := bson.M{"voucher_url": primitive.Regex{Pattern: regexp.QuoteMeta(fragment)}}
	return r.find(ctx, filter, byDateThenTime)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}
