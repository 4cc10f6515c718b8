package config

import (
	"errors"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "PORT", "LOG_MODE", "OPENAI_API_KEY", "OPENAI_MODEL",
		"AUTOMATION_WEBHOOK_URL", "ENRICH_MODE", "FORCE_SIMULATED",
		"TRIAGE_CONFIDENCE_THRESHOLD", "ENRICH_TIMEOUT", "NOTIFY_CHANNEL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port: want=%q got=%q", "8080", cfg.Port)
	}
	if cfg.ConfidenceThreshold != 0.6 {
		t.Fatalf("ConfidenceThreshold: want=0.6 got=%v", cfg.ConfidenceThreshold)
	}
	if cfg.EnrichTimeout != 8*time.Second {
		t.Fatalf("EnrichTimeout: want=8s got=%v", cfg.EnrichTimeout)
	}
	if cfg.EnrichMode != EnrichOff {
		t.Fatalf("EnrichMode: want=%q got=%q", EnrichOff, cfg.EnrichMode)
	}
	if !cfg.Simulated() {
		t.Fatalf("Simulated: want=true without DATABASE_URL")
	}
}

func TestFromEnvDerivesDirectMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.EnrichMode != EnrichDirect {
		t.Fatalf("EnrichMode: want=%q got=%q", EnrichDirect, cfg.EnrichMode)
	}
}

func TestFromEnvDerivesMediatedMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTOMATION_WEBHOOK_URL", "https://automation.example/webhook")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.EnrichMode != EnrichMediated {
		t.Fatalf("EnrichMode: want=%q got=%q", EnrichMediated, cfg.EnrichMode)
	}
}

func TestFromEnvForceSimulatedDisablesEnrichment(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://localhost/salud")
	t.Setenv("FORCE_SIMULATED", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if !cfg.Simulated() {
		t.Fatalf("Simulated: want=true when forced")
	}
	if cfg.EnrichMode != EnrichOff {
		t.Fatalf("EnrichMode: want=%q got=%q", EnrichOff, cfg.EnrichMode)
	}
}

func TestFromEnvInvalidThreshold(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRIAGE_CONFIDENCE_THRESHOLD", "1.5")

	_, err := FromEnv()
	if err == nil {
		t.Fatalf("FromEnv: want error for out-of-range threshold")
	}
	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("want *config.Error got %T", err)
	}
	if cfgErr.Variable != "TRIAGE_CONFIDENCE_THRESHOLD" {
		t.Fatalf("Variable: want=%q got=%q", "TRIAGE_CONFIDENCE_THRESHOLD", cfgErr.Variable)
	}
}

func TestFromEnvInvalidWebhookURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTOMATION_WEBHOOK_URL", "not-a-url")

	_, err := FromEnv()
	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("want *config.Error got %v", err)
	}
	if cfgErr.Variable != "AUTOMATION_WEBHOOK_URL" {
		t.Fatalf("Variable: want=%q got=%q", "AUTOMATION_WEBHOOK_URL", cfgErr.Variable)
	}
}

func TestFromEnvModeRequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENRICH_MODE", "direct")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("FromEnv: want error for direct mode without OPENAI_API_KEY")
	}

	clearEnv(t)
	t.Setenv("ENRICH_MODE", "mediated")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("FromEnv: want error for mediated mode without AUTOMATION_WEBHOOK_URL")
	}

	clearEnv(t)
	t.Setenv("ENRICH_MODE", "everything")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("FromEnv: want error for unknown mode")
	}
}
