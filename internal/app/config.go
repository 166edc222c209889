package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/yungbote/costing-backend/internal/observability"
	"github.com/yungbote/costing-backend/internal/platform/envutil"
	"github.com/yungbote/costing-backend/internal/platform/logger"
	"github.com/yungbote/costing-backend/internal/realtime/bus"
)

type Config struct {
	Port        string
	LogMode     string
	AutoMigrate bool
	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisChannel  string

	// FinancingMarginPercent is the margin pay-later totals add on top of
	// pay-now totals, in percent.
	FinancingMarginPercent decimal.Decimal

	Otel observability.OtelConfig
}

// LoadDotEnv reads .env into the environment outside production. Variables
// already set win over the file.
func LoadDotEnv(log *logger.Logger) {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_MODE")), "production") {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Debug(".env not loaded", "error", err)
		return
	}
	log.Info("environment loaded from .env")
}

func LoadConfig(log *logger.Logger) (Config, error) {
	financing, err := parsePercent(envutil.String("FINANCING_MARGIN_PERCENT", "10", log))
	if err != nil {
		return Config{}, fmt.Errorf("FINANCING_MARGIN_PERCENT: %w", err)
	}

	var origins []string
	for _, o := range strings.Split(envutil.String("CORS_ORIGINS", "", log), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	logMode := envutil.String("LOG_MODE", "development", log)
	return Config{
		Port:        envutil.String("PORT", "8080", log),
		LogMode:     logMode,
		AutoMigrate: envutil.Bool("DB_AUTOMIGRATE", true, log),
		CORSOrigins: origins,

		RedisAddr:     envutil.String("REDIS_ADDR", "", log),
		RedisPassword: envutil.String("REDIS_PASSWORD", "", log),
		RedisChannel:  envutil.String("REDIS_CHANNEL", bus.DefaultChannel, log),

		FinancingMarginPercent: financing,

		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "costing", log),
			Environment: logMode,
			Version:     envutil.String("SERVICE_VERSION", "", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 100, log)) / 100,
		},
	}, nil
}

// parsePercent accepts [0, 100); a 100% margin has no finite price.
func parsePercent(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() || d.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("must be in [0, 100), got %s", d)
	}
	return d, nil
}
