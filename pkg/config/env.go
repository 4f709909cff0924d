package config

const (
	EnvConfigFile = "CONFIG_FILE"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvAdminEmail    = "ADMIN_EMAIL"
	EnvAdminPassword = "ADMIN_PASSWORD"
	EnvAdminToken    = "ADMIN_TOKEN"

	EnvPaymentMode    = "PAYMENT_MODE"
	EnvPricePerHour   = "PRICE_PER_HOUR"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"

	EnvPDFRendererPath = "PDF_RENDERER_PATH"

	EnvChargeCacheTTL  = "CHARGE_CACHE_TTL"
	EnvChargeCacheSize = "CHARGE_CACHE_SIZE"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvMetricsEnabled = "METRICS_ENABLED"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
