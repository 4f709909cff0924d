// Package events publishes domain events about bookings and charges. Publishing
// is best effort: failures are logged and never fail the originating request.
package events

import (
	"context"
	"time"

	"tenniscourts/pkg/kafka"
	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeChargeRecorded   = "charge.recorded"

	source        = "tenniscourts"
	schemaVersion = "1"
	publishWait   = 5 * time.Second
)

type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingCancelled(ctx context.Context, booking *model.Booking)
	ChargeRecorded(ctx context.Context, charge *model.Charge)
	Close() error
}

// NewPublisher returns a Kafka backed publisher when brokers are configured and
// a no-op publisher otherwise.
func NewPublisher(brokers []string, topic string, log *logger.Logger) (Publisher, error) {
	if len(brokers) == 0 {
		log.Info("Kafka brokers not configured, domain events disabled")
		return NopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: brokers,
		Topic:   topic,
	}, log)
	if err != nil {
		return nil, err
	}
	producer.Use(kafka.LoggingMiddleware(log))

	log.Info("Kafka event publisher initialized", "topic", topic, "brokers", brokers)
	return newKafkaPublisher(producer, log), nil
}

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer producer
	log      *logger.Logger
}

func newKafkaPublisher(p producer, log *logger.Logger) *kafkaPublisher {
	return &kafkaPublisher{producer: p, log: log}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingCreated, booking.ID, booking)
}

func (p *kafkaPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingCancelled, booking.ID, booking)
}

func (p *kafkaPublisher) ChargeRecorded(ctx context.Context, charge *model.Charge) {
	p.publish(ctx, TypeChargeRecorded, charge.ID, charge)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType, key string, payload any) {
	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(source).
		WithSchemaVersion(schemaVersion).
		Build()
	if err != nil {
		p.log.Error("Failed to build event", "event_type", eventType, "key", key, "error", err)
		return
	}

	// The request context may be cancelled right after the response is written.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishWait)
	defer cancel()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish event", "event_type", eventType, "key", key, "error", err)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type NopPublisher struct{}

func (NopPublisher) BookingCreated(context.Context, *model.Booking)   {}
func (NopPublisher) BookingCancelled(context.Context, *model.Booking) {}
func (NopPublisher) ChargeRecorded(context.Context, *model.Charge)    {}
func (NopPublisher) Close() error                                     { return nil }
