package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/yungbote/costing-backend/internal/platform/logger"
)

// String returns the trimmed value of name, or def when unset.
func String(name, def string, log *logger.Logger) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		if log != nil {
			log.Debug("env not set, using default", "key", name, "default", def)
		}
		return def
	}
	return v
}

func Int(name string, def int, log *logger.Logger) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		if log != nil {
			log.Warn("invalid int env, using default", "key", name, "value", v, "default", def)
		}
		return def
	}
	return i
}

func Bool(name string, def bool, log *logger.Logger) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	switch v {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		if log != nil {
			log.Warn("invalid bool env, using default", "key", name, "value", v, "default", def)
		}
		return def
	}
}
