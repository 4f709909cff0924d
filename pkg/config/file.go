package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the subset of Config that can be set from a TOML file.
// Values from the file replace the built-in defaults; environment variables
// still win over both.
type fileConfig struct {
	Server struct {
		Port            string   `toml:"port"`
		ReadTimeout     string   `toml:"read_timeout"`
		WriteTimeout    string   `toml:"write_timeout"`
		IdleTimeout     string   `toml:"idle_timeout"`
		ShutdownTimeout string   `toml:"shutdown_timeout"`
		RequestTimeout  string   `toml:"request_timeout"`
		AllowedOrigins  []string `toml:"allowed_origins"`
	} `toml:"server"`
	Mongo struct {
		URI         string `toml:"uri"`
		Database    string `toml:"database"`
		ConnTimeout string `toml:"conn_timeout"`
	} `toml:"mongo"`
	Admin struct {
		Email    string `toml:"email"`
		Password string `toml:"password"`
		Token    string `toml:"token"`
	} `toml:"admin"`
	Payments struct {
		Mode         string  `toml:"mode"`
		PricePerHour float64 `toml:"price_per_hour"`
	} `toml:"payments"`
	Kafka struct {
		Brokers []string `toml:"brokers"`
		Topic   string   `toml:"topic"`
	} `toml:"kafka"`
	Logs struct {
		Level string `toml:"level"`
	} `toml:"logs"`
}

func loadFile(path string, cfg *Config) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return fc.apply(cfg)
}

func (fc *fileConfig) apply(cfg *Config) error {
	setStr(&cfg.Port, fc.Server.Port)
	setStr(&cfg.MongoURI, fc.Mongo.URI)
	setStr(&cfg.MongoDatabaseName, fc.Mongo.Database)
	setStr(&cfg.AdminEmail, fc.Admin.Email)
	setStr(&cfg.AdminPassword, fc.Admin.Password)
	setStr(&cfg.AdminToken, fc.Admin.Token)
	setStr(&cfg.PaymentMode, fc.Payments.Mode)
	setStr(&cfg.KafkaTopic, fc.Kafka.Topic)
	setStr(&cfg.LogLevel, fc.Logs.Level)

	if fc.Payments.PricePerHour > 0 {
		cfg.PricePerHour = fc.Payments.PricePerHour
	}
	if len(fc.Server.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.Server.AllowedOrigins
	}
	if len(fc.Kafka.Brokers) > 0 {
		cfg.KafkaBrokers = fc.Kafka.Brokers
	}

	durations := []struct {
		raw string
		dst *time.Duration
	}{
		{fc.Server.ReadTimeout, &cfg.ReadTimeout},
		{fc.Server.WriteTimeout, &cfg.WriteTimeout},
		{fc.Server.IdleTimeout, &cfg.IdleTimeout},
		{fc.Server.ShutdownTimeout, &cfg.ShutdownTimeout},
		{fc.Server.RequestTimeout, &cfg.RequestTimeout},
		{fc.Mongo.ConnTimeout, &cfg.MongoConnTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", d.raw, err)
		}
		*d.dst = parsed
	}
	return nil
}

func setStr(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
