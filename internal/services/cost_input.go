package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/costing-backend/internal/data/aggregates"
	"github.com/yungbote/costing-backend/internal/data/repos"
	types "github.com/yungbote/costing-backend/internal/domain"
	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type CostInputService interface {
	// CommitCostInput supersedes the design's active cost input.
	CommitCostInput(ctx context.Context, actorID, designID uuid.UUID, attrs types.CostAttributes) (*types.CostInput, error)
	GetCostInput(dbc dbctx.Context, id uuid.UUID) (*types.CostInput, error)
}

type costInputService struct {
	log        *logger.Logger
	costInputs repos.CostInputRepo
	agg        domainagg.CostInputAggregate
}

func NewCostInputService(log *logger.Logger, costInputs repos.CostInputRepo, agg domainagg.CostInputAggregate) CostInputService {
	return &costInputService{
		log:        log.With("service", "CostInputService"),
		costInputs: costInputs,
		agg:        agg,
	}
}

func (s *costInputService) CommitCostInput(ctx context.Context, actorID, designID uuid.UUID, attrs types.CostAttributes) (*types.CostInput, error) {
	res, err := s.agg.CommitCostInput(ctx, domainagg.CommitCostInputInput{
		ActorID:    actorID,
		DesignID:   designID,
		Attributes: attrs,
	})
	if err != nil {
		return nil, err
	}
	return res.CostInput, nil
}

func (s *costInputService) GetCostInput(dbc dbctx.Context, id uuid.UUID) (*types.CostInput, error) {
	const op = "CostInputService.GetCostInput"
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing cost input id", nil)
	}
	ci, err := s.costInputs.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if ci == nil {
		return nil, domainagg.Newf(domainagg.CodeNotFound, op, "cost input %s not found", id)
	}
	return ci, nil
}
