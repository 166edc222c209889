package app

import (
	"fmt"

	"github.com/yungbote/costing-backend/internal/platform/logger"
	"github.com/yungbote/costing-backend/internal/realtime/bus"
)

type Clients struct {
	Bus bus.Bus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set; quote notifications are dropped")
		return Clients{Bus: bus.NewNoopBus()}, nil
	}
	b, err := bus.NewRedisBus(log, bus.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		Channel:  cfg.RedisChannel,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis bus: %w", err)
	}
	return Clients{Bus: b}, nil
}

func (c Clients) Close() {
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
}
