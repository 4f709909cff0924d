package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tenniscourts/pkg/client"
	"tenniscourts/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port     string
	LogLevel string

	AdminEmail    string
	AdminPassword string
	AdminToken    string

	PaymentMode    string
	PricePerHour   float64
	AllowedOrigins []string

	PDFRendererPath string

	ChargeCacheTTL  time.Duration
	ChargeCacheSize int

	KafkaBrokers []string
	KafkaTopic   string

	MetricsEnabled bool

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// Defaults returns a Config populated with built-in defaults only.
func Defaults() *Config {
	return &Config{
		MongoURI:          DefaultMongoURI,
		MongoDatabaseName: DefaultMongoDatabaseName,
		MongoConnTimeout:  DefaultMongoConnTimeout,

		Port:     DefaultPort,
		LogLevel: DefaultLogLevel,

		AdminEmail:    DefaultAdminEmail,
		AdminPassword: DefaultAdminPassword,
		AdminToken:    DefaultAdminToken,

		PaymentMode:    DefaultPaymentMode,
		PricePerHour:   DefaultPricePerHour,
		AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),

		ChargeCacheTTL:  DefaultChargeCacheTTL,
		ChargeCacheSize: DefaultChargeCacheSize,

		KafkaTopic: DefaultKafkaTopic,

		MetricsEnabled: DefaultMetricsEnabled,

		RateLimitRequests: DefaultRateLimitRequests,
		RateLimitWindow:   DefaultRateLimitWindow,

		RequestTimeout: DefaultRequestTimeout,
		IdempotencyTTL: DefaultIdempotencyTTL,
		MaxRequestSize: DefaultMaxRequestSize,

		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,

		Client: client.NewClient(),
	}
}

func Load(serviceName string) *Config {
	cfg := Defaults()

	var fileErr error
	if path := os.Getenv(EnvConfigFile); path != "" {
		fileErr = loadFile(path, cfg)
	}

	cfg.applyEnv()

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})

	if fileErr != nil {
		cfg.Log.Fatal("Failed to load config file", "error", fileErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) applyEnv() {
	cfg.MongoURI = getEnvStr(EnvMongoURI, cfg.MongoURI)
	cfg.MongoDatabaseName = getEnvStr(EnvMongoDatabaseName, cfg.MongoDatabaseName)
	cfg.MongoConnTimeout = getEnvDuration(EnvMongoConnTimeout, cfg.MongoConnTimeout)

	cfg.Port = getEnvStr(EnvPort, cfg.Port)
	cfg.LogLevel = getEnvStr(EnvLogLevel, cfg.LogLevel)

	cfg.AdminEmail = getEnvStr(EnvAdminEmail, cfg.AdminEmail)
	cfg.AdminPassword = getEnvStr(EnvAdminPassword, cfg.AdminPassword)
	cfg.AdminToken = getEnvStr(EnvAdminToken, cfg.AdminToken)

	cfg.PaymentMode = getEnvStr(EnvPaymentMode, cfg.PaymentMode)
	cfg.PricePerHour = getEnvFloat(EnvPricePerHour, cfg.PricePerHour)
	cfg.AllowedOrigins = getEnvList(EnvAllowedOrigins, cfg.AllowedOrigins)

	cfg.PDFRendererPath = getEnvStr(EnvPDFRendererPath, cfg.PDFRendererPath)

	cfg.ChargeCacheTTL = getEnvDuration(EnvChargeCacheTTL, cfg.ChargeCacheTTL)
	cfg.ChargeCacheSize = getEnvNum(EnvChargeCacheSize, cfg.ChargeCacheSize)

	cfg.KafkaBrokers = getEnvList(EnvKafkaBrokers, cfg.KafkaBrokers)
	cfg.KafkaTopic = getEnvStr(EnvKafkaTopic, cfg.KafkaTopic)

	cfg.MetricsEnabled = getEnvBool(EnvMetricsEnabled, cfg.MetricsEnabled)

	cfg.RateLimitRequests = getEnvNum(EnvRateLimitRequests, cfg.RateLimitRequests)
	cfg.RateLimitWindow = getEnvDuration(EnvRateLimitWindow, cfg.RateLimitWindow)

	cfg.RequestTimeout = getEnvDuration(EnvRequestTimeout, cfg.RequestTimeout)
	cfg.IdempotencyTTL = getEnvDuration(EnvIdempotencyTTL, cfg.IdempotencyTTL)
	cfg.MaxRequestSize = getEnvNum(EnvMaxRequestSize, cfg.MaxRequestSize)

	cfg.ReadTimeout = getEnvDuration(EnvReadTimeout, cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvDuration(EnvWriteTimeout, cfg.WriteTimeout)
	cfg.IdleTimeout = getEnvDuration(EnvIdleTimeout, cfg.IdleTimeout)
	cfg.ShutdownTimeout = getEnvDuration(EnvShutdownTimeout, cfg.ShutdownTimeout)
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// IsAdminEmail reports whether email belongs to the configured administrator.
// The comparison ignores case and surrounding whitespace.
func (cfg *Config) IsAdminEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), strings.TrimSpace(cfg.AdminEmail))
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.AdminEmail == "" {
		errors = append(errors, "AdminEmail cannot be empty")
	}
	if cfg.AdminPassword == "" {
		errors = append(errors, "AdminPassword cannot be empty")
	}
	if cfg.AdminToken == "" {
		errors = append(errors, "AdminToken cannot be empty")
	}

	if cfg.PaymentMode == "" {
		errors = append(errors, "PaymentMode cannot be empty")
	}
	if cfg.PricePerHour <= 0 {
		errors = append(errors, fmt.Sprintf("PricePerHour must be positive, got: %.2f", cfg.PricePerHour))
	}

	if cfg.ChargeCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("ChargeCacheTTL must be positive, got: %s", cfg.ChargeCacheTTL))
	}
	if cfg.ChargeCacheSize <= 0 {
		errors = append(errors, fmt.Sprintf("ChargeCacheSize must be positive, got: %d", cfg.ChargeCacheSize))
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		errors = append(errors, "KafkaTopic cannot be empty when KafkaBrokers are set")
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"admin_email", cfg.AdminEmail,
		"admin_password_set", cfg.AdminPassword != "",
		"admin_token_set", cfg.AdminToken != "",
		"payment_mode", cfg.PaymentMode,
		"price_per_hour", cfg.PricePerHour,
		"allowed_origins", cfg.AllowedOrigins,
		"pdf_renderer_path", cfg.PDFRendererPath,
		"charge_cache_ttl", cfg.ChargeCacheTTL,
		"charge_cache_size", cfg.ChargeCacheSize,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_topic", cfg.KafkaTopic,
		"metrics_enabled", cfg.MetricsEnabled,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blank entries.
func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
