package design

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type VariantRepo interface {
	Create(dbc dbctx.Context, variants []*types.Variant) ([]*types.Variant, error)
	// ColorwayUnits sums units_to_produce per color name, ordered by name.
	ColorwayUnits(dbc dbctx.Context, designID uuid.UUID) ([]types.ColorwayUnits, error)
}

type variantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVariantRepo(db *gorm.DB, baseLog *logger.Logger) VariantRepo {
	return &variantRepo{
		db:  db,
		log: baseLog.With("repo", "VariantRepo"),
	}
}

func (r *variantRepo) Create(dbc dbctx.Context, variants []*types.Variant) ([]*types.Variant, error) {
	if len(variants) == 0 {
		return []*types.Variant{}, nil
	}
	for _, v := range variants {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
	}
	if err := dbc.DB(r.db).Create(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *variantRepo) ColorwayUnits(dbc dbctx.Context, designID uuid.UUID) ([]types.ColorwayUnits, error) {
	out := []types.ColorwayUnits{}
	if designID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Model(&types.Variant{}).
		Select("COALESCE(color_name, '') AS color_name, CAST(COALESCE(SUM(units_to_produce), 0) AS BIGINT) AS units").
		Where("design_id = ?", designID).
		Group("color_name").
		Order("color_name ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
