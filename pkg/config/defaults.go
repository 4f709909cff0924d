package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tennis_booking_db"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultAdminEmail    = "admin@tenniscourt.com"
	DefaultAdminPassword = "admin123"
	DefaultAdminToken    = "admin123token"

	PaymentModeMock     = "mock"
	DefaultPaymentMode  = PaymentModeMock
	DefaultPricePerHour = 35.0

	DefaultChargeCacheTTL  = 15 * time.Minute
	DefaultChargeCacheSize = 1000

	DefaultKafkaTopic = "court-bookings"

	DefaultMetricsEnabled = true

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

var DefaultAllowedOrigins = []string{"http://localhost:3000"}
