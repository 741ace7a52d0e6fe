package config

import (
	"testing"

	"github.com/shopspring/decimal"

	"ledgerbot/internal/money"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("BUDGET_NEAR_LIMIT_THRESHOLD", "")
	t.Setenv("MAX_AMOUNT", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("ALERTS_ENABLED", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.DBDriver)
	}
	if !cfg.NearLimitThreshold.Equal(decimal.RequireFromString("0.80")) {
		t.Errorf("expected threshold 0.80, got %s", cfg.NearLimitThreshold)
	}
	if cfg.MaxAmount != money.DefaultMax {
		t.Errorf("expected max amount %s, got %s", money.DefaultMax, cfg.MaxAmount)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("expected UTC, got %s", cfg.Location)
	}
	if !cfg.AlertsEnabled {
		t.Error("expected alerts to be enabled by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("BUDGET_NEAR_LIMIT_THRESHOLD", "0.9")
	t.Setenv("MAX_AMOUNT", "5000")
	t.Setenv("ALERTS_ENABLED", "false")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("expected sqlite driver, got %s", cfg.DBDriver)
	}
	if !cfg.NearLimitThreshold.Equal(decimal.RequireFromString("0.9")) {
		t.Errorf("expected threshold 0.9, got %s", cfg.NearLimitThreshold)
	}
	if cfg.MaxAmount != money.Amount(500000) {
		t.Errorf("expected max amount 5000.00, got %s", cfg.MaxAmount)
	}
	if cfg.AlertsEnabled {
		t.Error("expected alerts to be disabled")
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"driver", "DB_DRIVER", "mysql"},
		{"threshold_not_number", "BUDGET_NEAR_LIMIT_THRESHOLD", "eighty"},
		{"threshold_above_one", "BUDGET_NEAR_LIMIT_THRESHOLD", "1.5"},
		{"max_amount_negative", "MAX_AMOUNT", "-1"},
		{"timezone", "TIMEZONE", "Mars/Olympus"},
		{"alerts", "ALERTS_ENABLED", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
