package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Features gates optional leave types. Resolved once at startup and injected
// into services so behavior is deterministic and testable without touching
// the environment mid-run.
type Features struct {
	ToilEnabled bool
	SickEnabled bool
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig

	RedisAddr    string
	KafkaBrokers []string

	JWTSecret string
	JWTTTL    time.Duration

	SMTP SMTPConfig

	Features Features

	// CoverageUserIDs lists users who must always have cover: their leave is
	// checked for overlap against each other's pending/approved requests.
	CoverageUserIDs []string

	// AdminNotifyEmails receive a copy of every decision notification.
	AdminNotifyEmails []string

	// BulkRejectMinReasonLen is the minimum rejection reason length on the
	// bulk-reject path.
	BulkRejectMinReasonLen int
}

// Load reads the whole configuration from the environment in one pass.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "leavetrack"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getList("KAFKA_BROKERS", []string{"localhost:9092"}),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTTTL:       getDuration("JWT_TTL", 24*time.Hour),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "leave@example.com"),
		},
		Features: Features{
			ToilEnabled: getBool("FEATURE_TOIL_ENABLED", true),
			SickEnabled: getBool("FEATURE_SICK_ENABLED", true),
		},
		CoverageUserIDs:        getList("COVERAGE_USER_IDS", nil),
		AdminNotifyEmails:      getList("ADMIN_NOTIFY_EMAILS", nil),
		BulkRejectMinReasonLen: getInt("BULK_REJECT_MIN_REASON_LEN", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
