package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Gateway GatewayConfig
	Tasks   TaskConfig
	SMTP    SMTPConfig

	ChatWebhookURL string
	RedisAddr      string

	DefaultTenantHostname string
}

// GatewayConfig configures the payment gateway HTTP client.
type GatewayConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TaskConfig configures the webhook task queue and its processor.
type TaskConfig struct {
	BaseRetryDelay time.Duration
	MaxAttempts    int
	BatchSize      int
	PollInterval   time.Duration
	RunTimeout     time.Duration
}

// SMTPConfig configures the outbound email notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "inscrevia"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "inscrevia"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		Gateway: GatewayConfig{
			BaseURL: strings.TrimRight(getenv("GATEWAY_BASE_URL", "https://api.asaas.com/v3"), "/"),
			Timeout: getenvDurationMS("GATEWAY_TIMEOUT_MS", 12000),
		},
		Tasks: TaskConfig{
			BaseRetryDelay: getenvDurationMS("TASK_BASE_RETRY_DELAY_MS", 60000),
			MaxAttempts:    getenvInt("TASK_MAX_ATTEMPTS", 3),
			BatchSize:      getenvInt("TASK_BATCH_SIZE", 50),
			PollInterval:   getenvDurationMS("TASK_POLL_INTERVAL_MS", 300000),
			RunTimeout:     getenvDurationMS("TASK_RUN_TIMEOUT_MS", 120000),
		},
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", ""),
			Port:     getenvInt("SMTP_PORT", 587),
			Username: getenv("SMTP_USERNAME", ""),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     getenv("SMTP_FROM", "no-reply@inscrevia.com.br"),
		},

		ChatWebhookURL: strings.TrimSpace(getenv("CHAT_WEBHOOK_URL", "")),
		RedisAddr:      strings.TrimSpace(getenv("REDIS_ADDR", "")),

		DefaultTenantHostname: getenv("DEFAULT_TENANT_HOSTNAME", ""),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDurationMS(key string, defMS int64) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return time.Duration(defMS) * time.Millisecond
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return time.Duration(defMS) * time.Millisecond
	}
	return time.Duration(parsed) * time.Millisecond
}
