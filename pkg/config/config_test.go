package config

import (
	"os"
	"testing"
	"time"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvSpreadsheetID, "1aBcD")
	t.Setenv("VSTUPENKY_BANK_TOKEN", "fio-test-token")
	t.Setenv("VSTUPENKY_BANK_FEED_FROM", "2026-06-01")
	t.Setenv("VSTUPENKY_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("VSTUPENKY_TICKET_UNIT_PRICE", "350")
	t.Setenv("VSTUPENKY_ACCOUNT_NUMBER", "2901234567/2010")
	t.Setenv("VSTUPENKY_GATE_TOKEN", "gate-secret")
}

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("VSTUPENKY_CATALOG_RESOURCES", "stan-u-reky:1500,parkovani:300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsProd() {
		t.Fatalf("expected production env, got %q", cfg.App.Env)
	}
	if cfg.Sheets.PurchasesSheet != "listky" {
		t.Fatalf("unexpected purchases sheet default: %q", cfg.Sheets.PurchasesSheet)
	}
	if cfg.Bank.Currency != "CZK" {
		t.Fatalf("unexpected currency default: %q", cfg.Bank.Currency)
	}
	if cfg.Recon.Interval != 5*time.Minute {
		t.Fatalf("unexpected recon interval: %v", cfg.Recon.Interval)
	}
	if got := cfg.Catalog.Resources["stan-u-reky"]; got != 1500 {
		t.Fatalf("catalog resource price not parsed: %d", got)
	}
	if cfg.Mail.Enabled() {
		t.Fatal("mail should be disabled without smtp host")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvSpreadsheetID); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvSpreadsheetID, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error when spreadsheet id is missing")
	}
}

func TestLoad_RejectsNonPositiveUnitPrice(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("VSTUPENKY_TICKET_UNIT_PRICE", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero unit price")
	}
}
