// Package config resolves the service configuration from environment
// variables. Missing optional values fall back to defaults; malformed
// values fail startup with a typed error naming the variable.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Enrichment modes. "direct" calls the chat-completion API itself,
// "mediated" posts to an automation endpoint that may call it on our
// behalf, "off" disables enrichment.
const (
	EnrichDirect   = "direct"
	EnrichMediated = "mediated"
	EnrichOff      = "off"
)

// Error reports a configuration variable that could not be parsed.
type Error struct {
	Variable string
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Variable, e.Reason)
}

type Config struct {
	DatabaseURL string
	Port        string
	LogMode     string

	OpenAIKey   string
	OpenAIModel string
	WebhookURL  string
	EnrichMode  string

	ForceSimulated      bool
	ConfidenceThreshold float64
	EnrichTimeout       time.Duration
	NotifyChannel       string
}

// FromEnv reads and validates the configuration.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Port:                getenv("PORT", "8080"),
		LogMode:             getenv("LOG_MODE", "dev"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getenv("OPENAI_MODEL", "gpt-3.5-turbo"),
		WebhookURL:          os.Getenv("AUTOMATION_WEBHOOK_URL"),
		EnrichMode:          os.Getenv("ENRICH_MODE"),
		ForceSimulated:      os.Getenv("FORCE_SIMULATED") == "true",
		ConfidenceThreshold: 0.6,
		EnrichTimeout:       8 * time.Second,
		NotifyChannel:       getenv("NOTIFY_CHANNEL", "triage_urgente"),
	}

	if v := os.Getenv("TRIAGE_CONFIDENCE_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil || threshold < 0 || threshold > 1 {
			return nil, &Error{Variable: "TRIAGE_CONFIDENCE_THRESHOLD", Reason: "must be a number in [0,1]"}
		}
		cfg.ConfidenceThreshold = threshold
	}

	if v := os.Getenv("ENRICH_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout <= 0 {
			return nil, &Error{Variable: "ENRICH_TIMEOUT", Reason: "must be a positive duration"}
		}
		cfg.EnrichTimeout = timeout
	}

	if cfg.WebhookURL != "" {
		parsed, err := url.Parse(cfg.WebhookURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, &Error{Variable: "AUTOMATION_WEBHOOK_URL", Reason: "must be an absolute URL"}
		}
	}

	if cfg.EnrichMode == "" {
		cfg.EnrichMode = deriveEnrichMode(cfg)
	}
	switch cfg.EnrichMode {
	case EnrichDirect:
		if cfg.OpenAIKey == "" {
			return nil, &Error{Variable: "ENRICH_MODE", Reason: "direct mode requires OPENAI_API_KEY"}
		}
	case EnrichMediated:
		if cfg.WebhookURL == "" {
			return nil, &Error{Variable: "ENRICH_MODE", Reason: "mediated mode requires AUTOMATION_WEBHOOK_URL"}
		}
	case EnrichOff:
	default:
		return nil, &Error{Variable: "ENRICH_MODE", Reason: "must be direct, mediated or off"}
	}

	if cfg.ForceSimulated {
		cfg.EnrichMode = EnrichOff
	}
	return cfg, nil
}

// Simulated reports whether persistence and enrichment run against the
// self-contained in-memory implementations.
func (c *Config) Simulated() bool {
	return c.ForceSimulated || c.DatabaseURL == ""
}

// deriveEnrichMode picks a mode from whichever credentials are present.
func deriveEnrichMode(c *Config) string {
	switch {
	case c.OpenAIKey != "":
		return EnrichDirect
	case c.WebhookURL != "":
		return EnrichMediated
	default:
		return EnrichOff
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
