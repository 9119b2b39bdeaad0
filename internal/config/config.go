package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port      string
	StoreName string
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
}

type AuthConfig struct {
	JWTSecret string
}

type RazorpayConfig struct {
	KeyID string
	// CheckoutScriptURL is probed before checkout; if the hosted widget
	// script is unreachable no order is created.
	CheckoutScriptURL string
	ProbeTimeout      time.Duration
}

type RabbitMQConfig struct {
	// URL is optional; when empty, order events are not published.
	URL           string
	OrderExchange string
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Auth     AuthConfig
	Razorpay RazorpayConfig
	RabbitMQ RabbitMQConfig
}

// NewConfig reads configuration from the environment, optionally seeded from
// a .env file in the working directory.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.App.StoreName = getEnv("STORE_NAME", "FashionStore")

	cfg.Postgres.Host = os.Getenv("DB_HOST")
	if cfg.Postgres.Host == "" {
		return nil, fmt.Errorf("config: DB_HOST is required")
	}
	cfg.Postgres.Port = getEnv("DB_PORT", "5432")
	cfg.Postgres.User = os.Getenv("DB_USER")
	if cfg.Postgres.User == "" {
		return nil, fmt.Errorf("config: DB_USER is required")
	}
	cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	if cfg.Postgres.Password == "" {
		return nil, fmt.Errorf("config: DB_PASSWORD is required")
	}
	cfg.Postgres.DBName = os.Getenv("DB_NAME")
	if cfg.Postgres.DBName == "" {
		return nil, fmt.Errorf("config: DB_NAME is required")
	}
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Postgres.MaxConns = int32(getEnvInt("DB_MAX_CONNS", 10))
	cfg.Postgres.MinConns = int32(getEnvInt("DB_MIN_CONNS", 2))
	cfg.Postgres.MaxConnLifetime = getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour)
	cfg.Postgres.MigrationsPath = getEnv("DB_MIGRATIONS_PATH", "migrations")

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}

	cfg.Razorpay.KeyID = os.Getenv("RAZORPAY_KEY_ID")
	if cfg.Razorpay.KeyID == "" {
		return nil, fmt.Errorf("config: RAZORPAY_KEY_ID is required")
	}
	cfg.Razorpay.CheckoutScriptURL = getEnv("RAZORPAY_CHECKOUT_URL", "https://checkout.razorpay.com/v1/checkout.js")
	cfg.Razorpay.ProbeTimeout = getEnvDuration("RAZORPAY_PROBE_TIMEOUT", 5*time.Second)

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	cfg.RabbitMQ.OrderExchange = getEnv("ORDER_EXCHANGE", "orders_exchange")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
