package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	Debug    bool

	DB    DBConfig
	Kafka KafkaConfig

	Retry  RetryConfig
	Worker WorkerConfig
	Remote RemoteConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	ExponentialBase float64
	JitterEnabled   bool
	// RevalidateAfter is the fixed reschedule interval for insufficient-stock
	// failures, which do not consume the technical retry budget.
	RevalidateAfter time.Duration
}

type WorkerConfig struct {
	ProcessInterval   time.Duration
	ProcessBatchSize  int
	ReconcileInterval time.Duration
	ReconcileLimit    int
	NotifyInterval    time.Duration
	OutboxInterval    time.Duration
	OutboxBatchSize   int
	OutboxMaxAttempts int
}

type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads .env (walking up like the original homework setup did) and
// assembles the typed config. Every knob has a default so an empty
// environment still yields a runnable local setup.
func Load() Config {
	loadEnv()

	return Config{
		HTTPPort: getEnv("HTTP_PORT", "9000"),
		Debug:    getBool("DEBUG", false),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getInt("DB_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Name:     getEnv("POSTGRES_DB", "stocksync"),
		},
		Kafka: KafkaConfig{
			Brokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			AuditTopic: getEnv("KAFKA_AUDIT_TOPIC", "audit_logs"),
		},
		Retry: RetryConfig{
			MaxAttempts:     getInt("RETRY_MAX_ATTEMPTS", 5),
			InitialDelay:    getDuration("RETRY_INITIAL_DELAY", 30*time.Second),
			MaxDelay:        getDuration("RETRY_MAX_DELAY", time.Hour),
			ExponentialBase: getFloat("RETRY_EXPONENTIAL_BASE", 2.0),
			JitterEnabled:   getBool("RETRY_JITTER", false),
			RevalidateAfter: getDuration("RETRY_REVALIDATE_AFTER", 15*time.Minute),
		},
		Worker: WorkerConfig{
			ProcessInterval:   getDuration("WORKER_PROCESS_INTERVAL", time.Minute),
			ProcessBatchSize:  getInt("WORKER_PROCESS_BATCH", 50),
			ReconcileInterval: getDuration("WORKER_RECONCILE_INTERVAL", time.Hour),
			ReconcileLimit:    getInt("WORKER_RECONCILE_LIMIT", 100),
			NotifyInterval:    getDuration("WORKER_NOTIFY_INTERVAL", time.Minute),
			OutboxInterval:    getDuration("WORKER_OUTBOX_INTERVAL", 5*time.Second),
			OutboxBatchSize:   getInt("WORKER_OUTBOX_BATCH", 20),
			OutboxMaxAttempts: getInt("WORKER_OUTBOX_MAX_ATTEMPTS", 5),
		},
		Remote: RemoteConfig{
			BaseURL: getEnv("REMOTE_BASE_URL", "http://localhost:8080"),
			Timeout: getDuration("REMOTE_TIMEOUT", 15*time.Second),
		},
	}
}

func loadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			return
		}
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
