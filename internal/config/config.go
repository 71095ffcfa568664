// Package config reads service settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	HTTPAddr string

	StoreDriver string
	DataDir     string
	DatabaseURL string
	SQLitePath  string

	StrictEnums bool
	SeedDemo    bool

	RabbitMQURL string
	OutboxDir   string
	MailFrom    string

	AllowedOrigins        []string
	CaptureRateLimit      int
	PipelineGaugeInterval time.Duration
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverFile)),
		DataDir:     getenv("DATA_DIR", "./data"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getenv("SQLITE_PATH", "./data/hecms.db"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		OutboxDir:   getenv("OUTBOX_DIR", "./data/outbox"),
		MailFrom:    getenv("MAIL_FROM", "admissions@example.edu"),
	}

	var err error
	if cfg.StrictEnums, err = getbool("STRICT_ENUMS", true); err != nil {
		return nil, err
	}
	if cfg.SeedDemo, err = getbool("SEED_DEMO", false); err != nil {
		return nil, err
	}
	if cfg.CaptureRateLimit, err = getint("CAPTURE_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.PipelineGaugeInterval, err = getduration("PIPELINE_GAUGE_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	cfg.AllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,*"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverFile, DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE_DRIVER=postgres requires DATABASE_URL")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("STORE_DRIVER=sqlite requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.CaptureRateLimit <= 0 {
		return fmt.Errorf("CAPTURE_RATE_LIMIT must be positive")
	}
	if c.PipelineGaugeInterval <= 0 {
		return fmt.Errorf("PIPELINE_GAUGE_INTERVAL must be positive")
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getint(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
