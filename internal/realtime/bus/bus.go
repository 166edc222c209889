package bus

import (
	"context"

	"github.com/yungbote/costing-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	Close() error
}
