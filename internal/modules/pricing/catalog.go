package pricing

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/costing-backend/internal/data/repos"
	types "github.com/yungbote/costing-backend/internal/domain"
	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

// Catalog is one pricing release as written in a seed file. Every category
// present is published under Version; absent categories keep their current
// latest version.
type Catalog struct {
	Version               int                    `yaml:"version"`
	Constants             *catalogConstants      `yaml:"constants"`
	Margins               []catalogMargin        `yaml:"margins"`
	ProductMaterials      []catalogMaterial      `yaml:"product_materials"`
	ProductTypes          []catalogProductType   `yaml:"product_types"`
	Processes             []catalogProcess       `yaml:"processes"`
	ProcessTimelines      []catalogTimeline      `yaml:"process_timelines"`
	CareLabels            []catalogCareLabel     `yaml:"care_labels"`
	UnitMaterialMultiples []catalogUnitMultiples `yaml:"unit_material_multiples"`
}

type catalogConstants struct {
	BrandedLabelsMinimumCents    int64 `yaml:"branded_labels_minimum_cents"`
	BrandedLabelsMinimumUnits    int64 `yaml:"branded_labels_minimum_units"`
	BrandedLabelsAdditionalCents int64 `yaml:"branded_labels_additional_cents"`
	GradingCents                 int64 `yaml:"grading_cents"`
	MarkingCents                 int64 `yaml:"marking_cents"`
	PatternRevisionCents         int64 `yaml:"pattern_revision_cents"`
	SampleMinimumCents           int64 `yaml:"sample_minimum_cents"`
	TechnicalDesignCents         int64 `yaml:"technical_design_cents"`
	WorkingSessionCents          int64 `yaml:"working_session_cents"`
}

type catalogMargin struct {
	MinimumUnits int64  `yaml:"minimum_units"`
	Margin       string `yaml:"margin"`
}

type catalogMaterial struct {
	Category     string `yaml:"category"`
	MinimumUnits int64  `yaml:"minimum_units"`
	UnitCents    int64  `yaml:"unit_cents"`
}

type catalogProductType struct {
	Name                string `yaml:"name"`
	Complexity          string `yaml:"complexity"`
	MinimumUnits        int64  `yaml:"minimum_units"`
	UnitCents           int64  `yaml:"unit_cents"`
	PatternMinimumCents int64  `yaml:"pattern_minimum_cents"`
	SampleUnitCents     int64  `yaml:"sample_unit_cents"`
	Yield               string `yaml:"yield"`
	Contrast            string `yaml:"contrast"`
	CreationTimeMs      int64  `yaml:"creation_time_ms"`
	SpecificationTimeMs int64  `yaml:"specification_time_ms"`
	SourcingTimeMs      int64  `yaml:"sourcing_time_ms"`
	SamplingTimeMs      int64  `yaml:"sampling_time_ms"`
	PreProductionTimeMs int64  `yaml:"pre_production_time_ms"`
	ProductionTimeMs    int64  `yaml:"production_time_ms"`
	FulfillmentTimeMs   int64  `yaml:"fulfillment_time_ms"`
}

type catalogProcess struct {
	Name         string `yaml:"name"`
	Complexity   string `yaml:"complexity"`
	MinimumUnits int64  `yaml:"minimum_units"`
	SetupCents   int64  `yaml:"setup_cents"`
	UnitCents    int64  `yaml:"unit_cents"`
}

type catalogTimeline struct {
	MinimumUnits    int64 `yaml:"minimum_units"`
	UniqueProcesses int   `yaml:"unique_processes"`
	TimeMs          int64 `yaml:"time_ms"`
}

type catalogCareLabel struct {
	MinimumUnits int64 `yaml:"minimum_units"`
	UnitCents    int64 `yaml:"unit_cents"`
}

type catalogUnitMultiples struct {
	MinimumUnits int64  `yaml:"minimum_units"`
	Multiple     string `yaml:"multiple"`
}

const opCatalog = "Pricing.Catalog"

func invalidCatalog(format string, args ...any) error {
	return domainagg.Newf(domainagg.CodeValidation, opCatalog, format, args...)
}

// ParseCatalog decodes and validates a release. Unknown keys are rejected.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, invalidCatalog("decode: %v", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// tierSet rejects repeated tiers and remembers which groups have a zero tier.
type tierSet struct {
	category string
	tiers    map[string]struct{}
	base     map[string]bool
}

func newTierSet(category string) *tierSet {
	return &tierSet{category: category, tiers: map[string]struct{}{}, base: map[string]bool{}}
}

func (s *tierSet) add(group string, minimumUnits int64) error {
	if minimumUnits < 0 {
		return invalidCatalog("%s %q: minimum_units must not be negative", s.category, group)
	}
	key := fmt.Sprintf("%s@%d", group, minimumUnits)
	if _, ok := s.tiers[key]; ok {
		return invalidCatalog("%s %q: duplicate tier minimum_units=%d", s.category, group, minimumUnits)
	}
	s.tiers[key] = struct{}{}
	if minimumUnits == 0 {
		s.base[group] = true
	} else if _, ok := s.base[group]; !ok {
		s.base[group] = false
	}
	return nil
}

// complete requires a zero tier per group so every unit count resolves.
func (s *tierSet) complete() error {
	for group, ok := range s.base {
		if !ok {
			return invalidCatalog("%s %q: missing minimum_units=0 tier", s.category, group)
		}
	}
	return nil
}

func (c *Catalog) validate() error {
	if c.Version <= 0 {
		return invalidCatalog("version must be positive")
	}

	margins := newTierSet("margin")
	for _, m := range c.Margins {
		d, err := decimal.NewFromString(m.Margin)
		if err != nil {
			return invalidCatalog("margin %q: %v", m.Margin, err)
		}
		if d.GreaterThanOrEqual(hundred) || d.IsNegative() {
			return invalidCatalog("margin %s: must be in [0, 100)", m.Margin)
		}
		if err := margins.add("", m.MinimumUnits); err != nil {
			return err
		}
	}

	materials := newTierSet("product material")
	for _, m := range c.ProductMaterials {
		if m.Category == "" {
			return invalidCatalog("product material: category is required")
		}
		if err := materials.add(m.Category, m.MinimumUnits); err != nil {
			return err
		}
	}

	productTypes := newTierSet("product type")
	for _, t := range c.ProductTypes {
		if t.Name == "" || t.Complexity == "" {
			return invalidCatalog("product type: name and complexity are required")
		}
		for field, v := range map[string]string{"yield": t.Yield, "contrast": t.Contrast} {
			if _, err := decimal.NewFromString(v); err != nil {
				return invalidCatalog("product type %s/%s %s %q: %v", t.Name, t.Complexity, field, v, err)
			}
		}
		if err := productTypes.add(t.Name+"/"+t.Complexity, t.MinimumUnits); err != nil {
			return err
		}
	}

	processes := newTierSet("process")
	for _, p := range c.Processes {
		if p.Name == "" || p.Complexity == "" {
			return invalidCatalog("process: name and complexity are required")
		}
		if err := processes.add(p.Name+"/"+p.Complexity, p.MinimumUnits); err != nil {
			return err
		}
	}

	timelines := newTierSet("process timeline")
	for _, t := range c.ProcessTimelines {
		if t.UniqueProcesses < 0 {
			return invalidCatalog("process timeline: unique_processes must not be negative")
		}
		if err := timelines.add(fmt.Sprintf("unique=%d", t.UniqueProcesses), t.MinimumUnits); err != nil {
			return err
		}
	}

	careLabels := newTierSet("care label")
	for _, l := range c.CareLabels {
		if err := careLabels.add("", l.MinimumUnits); err != nil {
			return err
		}
	}

	multiples := newTierSet("unit material multiple")
	for _, m := range c.UnitMaterialMultiples {
		if _, err := decimal.NewFromString(m.Multiple); err != nil {
			return invalidCatalog("unit material multiple %q: %v", m.Multiple, err)
		}
		if err := multiples.add("", m.MinimumUnits); err != nil {
			return err
		}
	}

	// Timelines are tiered on two axes; the zero-units tier per process count
	// is not required because a missing timeline is valid.
	for _, s := range []*tierSet{margins, materials, productTypes, processes, careLabels, multiples} {
		if err := s.complete(); err != nil {
			return err
		}
	}
	return nil
}

// ReferenceSet converts the release into rows stamped with its version.
func (c *Catalog) ReferenceSet() repos.ReferenceSet {
	var set repos.ReferenceSet
	v := c.Version
	if k := c.Constants; k != nil {
		set.Constants = append(set.Constants, &types.PricingConstant{
			Version:                      v,
			BrandedLabelsMinimumCents:    k.BrandedLabelsMinimumCents,
			BrandedLabelsMinimumUnits:    k.BrandedLabelsMinimumUnits,
			BrandedLabelsAdditionalCents: k.BrandedLabelsAdditionalCents,
			GradingCents:                 k.GradingCents,
			MarkingCents:                 k.MarkingCents,
			PatternRevisionCents:         k.PatternRevisionCents,
			SampleMinimumCents:           k.SampleMinimumCents,
			TechnicalDesignCents:         k.TechnicalDesignCents,
			WorkingSessionCents:          k.WorkingSessionCents,
		})
	}
	for _, m := range c.Margins {
		set.Margins = append(set.Margins, &types.PricingMargin{
			Version: v, MinimumUnits: m.MinimumUnits, Margin: decimal.RequireFromString(m.Margin),
		})
	}
	for _, m := range c.ProductMaterials {
		set.ProductMaterials = append(set.ProductMaterials, &types.PricingProductMaterial{
			Version: v, Category: m.Category, MinimumUnits: m.MinimumUnits, UnitCents: m.UnitCents,
		})
	}
	for _, t := range c.ProductTypes {
		set.ProductTypes = append(set.ProductTypes, &types.PricingProductType{
			Version:             v,
			Name:                t.Name,
			Complexity:          t.Complexity,
			MinimumUnits:        t.MinimumUnits,
			UnitCents:           t.UnitCents,
			PatternMinimumCents: t.PatternMinimumCents,
			SampleUnitCents:     t.SampleUnitCents,
			Yield:               decimal.RequireFromString(t.Yield),
			Contrast:            decimal.RequireFromString(t.Contrast),
			CreationTimeMs:      t.CreationTimeMs,
			SpecificationTimeMs: t.SpecificationTimeMs,
			SourcingTimeMs:      t.SourcingTimeMs,
			SamplingTimeMs:      t.SamplingTimeMs,
			PreProductionTimeMs: t.PreProductionTimeMs,
			ProductionTimeMs:    t.ProductionTimeMs,
			FulfillmentTimeMs:   t.FulfillmentTimeMs,
		})
	}
	for _, p := range c.Processes {
		set.Processes = append(set.Processes, &types.PricingProcess{
			Version: v, Name: p.Name, Complexity: p.Complexity, MinimumUnits: p.MinimumUnits,
			SetupCents: p.SetupCents, UnitCents: p.UnitCents,
		})
	}
	for _, t := range c.ProcessTimelines {
		set.ProcessTimelines = append(set.ProcessTimelines, &types.PricingProcessTimeline{
			Version: v, MinimumUnits: t.MinimumUnits, UniqueProcesses: t.UniqueProcesses, TimeMs: t.TimeMs,
		})
	}
	for _, l := range c.CareLabels {
		set.CareLabels = append(set.CareLabels, &types.PricingCareLabel{
			Version: v, MinimumUnits: l.MinimumUnits, UnitCents: l.UnitCents,
		})
	}
	for _, m := range c.UnitMaterialMultiples {
		set.UnitMaterialMultiples = append(set.UnitMaterialMultiples, &types.PricingUnitMaterialMultiple{
			Version: v, MinimumUnits: m.MinimumUnits, Multiple: decimal.RequireFromString(m.Multiple),
		})
	}
	return set
}

// CatalogStore is the write side of the reference store.
type CatalogStore interface {
	LatestVersions(dbc dbctx.Context) (types.PricingVersions, error)
	Seed(dbc dbctx.Context, set repos.ReferenceSet) error
}

// SeedCatalog appends a release. Releases are append-only: the version must
// be above the latest version of every category the release touches.
func SeedCatalog(dbc dbctx.Context, store CatalogStore, c *Catalog) error {
	latest, err := store.LatestVersions(dbc)
	if err != nil {
		return err
	}
	set := c.ReferenceSet()
	checks := []struct {
		name    string
		rows    int
		current int
	}{
		{"constants", len(set.Constants), latest.Constants},
		{"margins", len(set.Margins), latest.Margins},
		{"product_materials", len(set.ProductMaterials), latest.ProductMaterials},
		{"product_types", len(set.ProductTypes), latest.ProductTypes},
		{"processes", len(set.Processes), latest.Processes},
		{"process_timelines", len(set.ProcessTimelines), latest.ProcessTimelines},
		{"care_labels", len(set.CareLabels), latest.CareLabels},
		{"unit_material_multiples", len(set.UnitMaterialMultiples), latest.UnitMaterialMultiples},
	}
	for _, ch := range checks {
		if ch.rows > 0 && c.Version <= ch.current {
			return domainagg.Newf(domainagg.CodeConflict, opCatalog,
				"%s already at version %d; release version %d must be higher", ch.name, ch.current, c.Version)
		}
	}
	if set.Len() == 0 {
		return invalidCatalog("release %d has no rows", c.Version)
	}
	return store.Seed(dbc, set)
}
