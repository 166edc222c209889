package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/costing-backend/internal/platform/logger"
)

// Hooks receives one signal per aggregate write.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

type logHooks struct {
	log *logger.Logger
}

// NewLogHooks reports aggregate writes as structured log lines.
func NewLogHooks(baseLog *logger.Logger) Hooks {
	if baseLog == nil {
		return noopHooks{}
	}
	return &logHooks{log: baseLog.With("component", "AggregateHooks")}
}

func (h *logHooks) ObserveOperation(name, status string, dur time.Duration) {
	status = strings.TrimSpace(status)
	kv := []interface{}{"op", strings.TrimSpace(name), "status", status, "duration_ms", dur.Milliseconds()}
	switch status {
	case "success":
		h.log.Debug("aggregate write", kv...)
	case "internal":
		h.log.Error("aggregate write failed", kv...)
	default:
		h.log.Warn("aggregate write rejected", kv...)
	}
}

func (h *logHooks) IncConflict(name string) {
	h.log.Warn("aggregate conflict", "op", strings.TrimSpace(name))
}

func (h *logHooks) IncRetry(name string) {
	h.log.Warn("aggregate retryable failure", "op", strings.TrimSpace(name))
}
