package design

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type ApprovalStepRepo interface {
	Create(dbc dbctx.Context, steps []*types.ApprovalStep) ([]*types.ApprovalStep, error)
	GetByDesignIDAndType(dbc dbctx.Context, designID uuid.UUID, stepType string) (*types.ApprovalStep, error)
}

type approvalStepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApprovalStepRepo(db *gorm.DB, baseLog *logger.Logger) ApprovalStepRepo {
	return &approvalStepRepo{
		db:  db,
		log: baseLog.With("repo", "ApprovalStepRepo"),
	}
}

func (r *approvalStepRepo) Create(dbc dbctx.Context, steps []*types.ApprovalStep) ([]*types.ApprovalStep, error) {
	if len(steps) == 0 {
		return []*types.ApprovalStep{}, nil
	}
	for _, s := range steps {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
	}
	if err := dbc.DB(r.db).Create(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *approvalStepRepo) GetByDesignIDAndType(dbc dbctx.Context, designID uuid.UUID, stepType string) (*types.ApprovalStep, error) {
	if designID == uuid.Nil || stepType == "" {
		return nil, nil
	}
	var step types.ApprovalStep
	err := dbc.DB(r.db).
		Where("design_id = ? AND type = ?", designID, stepType).
		Order("ordering ASC").
		Order("created_at ASC").
		Limit(1).
		Find(&step).Error
	if err != nil {
		return nil, err
	}
	if step.ID == uuid.Nil {
		return nil, nil
	}
	return &step, nil
}
