package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yungbote/costing-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "FINANCING_MARGIN_PERCENT", "REDIS_ADDR", "REDIS_CHANNEL", "DB_AUTOMIGRATE", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" || !cfg.AutoMigrate || cfg.RedisAddr != "" || cfg.RedisChannel != "design-events" {
		t.Fatalf("defaults: got=%+v", cfg)
	}
	if !cfg.FinancingMarginPercent.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("financing: want=10 got=%s", cfg.FinancingMarginPercent)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("cors origins: want none got=%v", cfg.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FINANCING_MARGIN_PERCENT", "12.5")
	t.Setenv("DB_AUTOMIGRATE", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" || cfg.AutoMigrate {
		t.Fatalf("overrides: got port=%s automigrate=%v", cfg.Port, cfg.AutoMigrate)
	}
	if !cfg.FinancingMarginPercent.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("financing: want=12.5 got=%s", cfg.FinancingMarginPercent)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("cors origins: got=%v", cfg.CORSOrigins)
	}
}

func TestLoadConfigRejectsBadFinancingMargin(t *testing.T) {
	for _, v := range []string{"abc", "-1", "100", "150"} {
		t.Setenv("FINANCING_MARGIN_PERCENT", v)
		if _, err := LoadConfig(logger.NewNop()); err == nil {
			t.Fatalf("FINANCING_MARGIN_PERCENT=%s: want error", v)
		}
	}
}
