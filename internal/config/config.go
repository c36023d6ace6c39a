// Package config holds the environment-backed runtime configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full configuration surface of the bot. Values come from
// environment variables (a .env file is loaded by main before Load runs).
type Config struct {
	// BlockedSenders are sender IDs (or "@suffix" patterns) that never
	// receive any reply.
	BlockedSenders []string

	// TimeZone is an IANA zone name, or a signed integer treated as a
	// fixed UTC offset in hours (the shop's original deployment used -3).
	TimeZone string

	CatalogPath string

	InferenceURL     string
	InferenceToken   string
	InferenceTimeout time.Duration

	TypingDelay     time.Duration
	DefaultLeadTime time.Duration
	SessionTTL      time.Duration

	Port      string
	UploadDir string
	DataDir   string

	loadErrs []string
}

// Load reads configuration from the environment, applying defaults. A set
// but unparseable value is not papered over; it surfaces from Validate.
func Load() *Config {
	c := &Config{
		BlockedSenders: splitList(os.Getenv("BLOCKED_SENDERS")),
		TimeZone:       getEnv("SHOP_TZ", "America/Sao_Paulo"),
		CatalogPath:    getEnv("CATALOG_PATH", "data/services.csv"),
		InferenceURL:   os.Getenv("HF_MODEL_URL"),
		InferenceToken: os.Getenv("HF_TOKEN"),
		Port:           getEnv("PORT", "3000"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		DataDir:        getEnv("DATA_DIR", "data"),
	}
	c.InferenceTimeout = time.Duration(c.intEnv("INFERENCE_TIMEOUT_S", 10)) * time.Second
	c.TypingDelay = time.Duration(c.intEnv("TYPING_DELAY_MS", 3000)) * time.Millisecond
	c.DefaultLeadTime = time.Duration(c.intEnv("LEAD_TIME_MINUTES", 30)) * time.Minute
	c.SessionTTL = time.Duration(c.intEnv("SESSION_TTL_HOURS", 24)) * time.Hour
	return c
}

// Validate checks the configuration for invalid or missing values.
// The process must not start misconfigured.
func (c *Config) Validate() error {
	if errs := c.validate(); len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *Config) validate() []string {
	errs := append([]string(nil), c.loadErrs...)

	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("SHOP_TZ %q: %v", c.TimeZone, err))
	}
	if c.InferenceTimeout <= 0 {
		errs = append(errs, "INFERENCE_TIMEOUT_S must be positive")
	}
	if c.TypingDelay < 0 {
		errs = append(errs, "TYPING_DELAY_MS must be non-negative")
	}
	if c.DefaultLeadTime <= 0 {
		errs = append(errs, "LEAD_TIME_MINUTES must be positive")
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, "SESSION_TTL_HOURS must be positive")
	}
	if c.Port == "" {
		errs = append(errs, "PORT must not be empty")
	}
	if c.UploadDir == "" {
		errs = append(errs, "UPLOAD_DIR must not be empty")
	}
	for _, b := range c.BlockedSenders {
		if b == "" {
			errs = append(errs, "BLOCKED_SENDERS contains an empty entry")
		}
	}

	return errs
}

// Location resolves TimeZone into a *time.Location. A bare signed integer
// is treated as a fixed UTC offset so deployments without tzdata still work.
func (c *Config) Location() (*time.Location, error) {
	if hours, err := strconv.Atoi(c.TimeZone); err == nil {
		if hours < -12 || hours > 14 {
			return nil, fmt.Errorf("offset %d out of range", hours)
		}
		return time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*3600), nil
	}
	return time.LoadLocation(c.TimeZone)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.loadErrs = append(c.loadErrs, fmt.Sprintf("%s: %q is not an integer", key, v))
		return fallback
	}
	return n
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
