package design

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

// EventRepo appends design audit events. Rows are never updated.
type EventRepo interface {
	Create(dbc dbctx.Context, events []*types.DesignEvent) ([]*types.DesignEvent, error)
	// ExistsForApprovalStep reports whether the step has an event of
	// eventType priced from costInputID. A nil costInputID matches any.
	ExistsForApprovalStep(dbc dbctx.Context, approvalStepID, costInputID uuid.UUID, eventType string) (bool, error)
	ListByDesignID(dbc dbctx.Context, designID uuid.UUID, eventType string) ([]*types.DesignEvent, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{
		db:  db,
		log: baseLog.With("repo", "DesignEventRepo"),
	}
}

func (r *eventRepo) Create(dbc dbctx.Context, events []*types.DesignEvent) ([]*types.DesignEvent, error) {
	if len(events) == 0 {
		return []*types.DesignEvent{}, nil
	}
	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
	}
	if err := dbc.DB(r.db).CreateInBatches(&events, 500).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) ExistsForApprovalStep(dbc dbctx.Context, approvalStepID, costInputID uuid.UUID, eventType string) (bool, error) {
	if approvalStepID == uuid.Nil {
		return false, nil
	}
	q := dbc.DB(r.db).
		Model(&types.DesignEvent{}).
		Where("approval_step_id = ? AND type = ?", approvalStepID, eventType)
	if costInputID != uuid.Nil {
		q = q.Where("cost_input_id = ?", costInputID)
	}
	var count int64
	err := q.Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByDesignID returns events oldest first; an empty eventType matches all.
func (r *eventRepo) ListByDesignID(dbc dbctx.Context, designID uuid.UUID, eventType string) ([]*types.DesignEvent, error) {
	var out []*types.DesignEvent
	if designID == uuid.Nil {
		return out, nil
	}
	q := dbc.DB(r.db).Where("design_id = ?", designID)
	if eventType != "" {
		q = q.Where("type = ?", eventType)
	}
	if err := q.Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
