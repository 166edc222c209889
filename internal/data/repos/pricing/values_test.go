package pricing

import (
	"context"
	"testing"

	"github.com/yungbote/costing-backend/internal/data/repos/testutil"
	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

func TestValueRepoTierSelection(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedReferenceTables(t, ctx, db)
	repo := NewValueRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	cases := []struct {
		units int64
		want  int64
	}{
		{1, 50},
		{999, 50},
		{1000, 45},
		{9999, 45},
		{10000, 40},
		{100000, 35},
		{5000000, 35},
	}
	for _, tc := range cases {
		m, err := repo.GetMargin(dbc, 1, tc.units)
		if err != nil {
			t.Fatalf("GetMargin(%d): %v", tc.units, err)
		}
		if m == nil {
			t.Fatalf("GetMargin(%d): want row got nil", tc.units)
		}
		if m.Margin.IntPart() != tc.want {
			t.Fatalf("GetMargin(%d): want=%d got=%s", tc.units, tc.want, m.Margin)
		}
	}

	latest, err := repo.GetMargin(dbc, types.LatestVersion, 100000)
	if err != nil {
		t.Fatalf("GetMargin latest: %v", err)
	}
	if latest == nil || latest.Version != 2 || latest.Margin.IntPart() != 30 {
		t.Fatalf("GetMargin latest: want version=2 margin=30 got=%+v", latest)
	}

	pt, err := repo.GetProductType(dbc, 1, testutil.ProductTeeshirt, types.ComplexitySimple, 100000)
	if err != nil {
		t.Fatalf("GetProductType: %v", err)
	}
	if pt == nil || pt.UnitCents != 360 {
		t.Fatalf("GetProductType: want unit_cents=360 got=%+v", pt)
	}

	missing, err := repo.GetProductType(dbc, 1, "JACKET", types.ComplexitySimple, 100000)
	if err != nil {
		t.Fatalf("GetProductType missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("GetProductType missing: want nil got=%+v", missing)
	}

	c, err := repo.GetConstant(dbc, types.LatestVersion)
	if err != nil {
		t.Fatalf("GetConstant: %v", err)
	}
	if c == nil || c.Version != 1 || c.TechnicalDesignCents != 750000 {
		t.Fatalf("GetConstant: want version 1 got=%+v", c)
	}
}

func TestValueRepoProcessTimeline(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedReferenceTables(t, ctx, db)
	repo := NewValueRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	cases := []struct {
		unique int
		units  int64
		wantMs int64
		isNil  bool
	}{
		{unique: 0, units: 500, isNil: true},
		{unique: 1, units: 500, wantMs: 1 * 86400000},
		{unique: 2, units: 500, wantMs: 2 * 86400000},
		{unique: 5, units: 500, wantMs: 2 * 86400000},
		{unique: 1, units: 20000, wantMs: 2 * 86400000},
		{unique: 3, units: 20000, wantMs: 3 * 86400000},
	}
	for _, tc := range cases {
		tl, err := repo.GetProcessTimeline(dbc, 1, tc.unique, tc.units)
		if err != nil {
			t.Fatalf("GetProcessTimeline(%d,%d): %v", tc.unique, tc.units, err)
		}
		if tc.isNil {
			if tl != nil {
				t.Fatalf("GetProcessTimeline(%d,%d): want nil got=%+v", tc.unique, tc.units, tl)
			}
			continue
		}
		if tl == nil || tl.TimeMs != tc.wantMs {
			t.Fatalf("GetProcessTimeline(%d,%d): want=%d got=%+v", tc.unique, tc.units, tc.wantMs, tl)
		}
	}
}

func TestValueRepoPooledLookups(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedReferenceTables(t, ctx, db)
	repo := NewValueRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}
	counter := testutil.CountQueries(t, db)

	margins, err := repo.FindMargins(dbc, []VersionFilter{{Version: 1, Units: 500}, {Version: 1, Units: 20000}})
	if err != nil {
		t.Fatalf("FindMargins: %v", err)
	}
	// version 1 rows at or below 20000 units, highest tier first
	if len(margins) != 3 {
		t.Fatalf("FindMargins: want=3 got=%d", len(margins))
	}
	for i := 1; i < len(margins); i++ {
		if margins[i-1].MinimumUnits < margins[i].MinimumUnits {
			t.Fatalf("FindMargins: not sorted by minimum_units desc: %d before %d", margins[i-1].MinimumUnits, margins[i].MinimumUnits)
		}
		if margins[i].Version != 1 {
			t.Fatalf("FindMargins: want version 1 got=%d", margins[i].Version)
		}
	}

	processes, err := repo.FindProcesses(dbc, []ProcessFilter{
		{Version: 1, Name: testutil.ProcessScreenPrint, Complexity: types.ComplexitySimple, Units: 100000},
		{Version: 1, Name: testutil.ProcessEmbroidery, Complexity: types.ComplexitySimple, Units: 10},
	})
	if err != nil {
		t.Fatalf("FindProcesses: %v", err)
	}
	if len(processes) != 3 {
		t.Fatalf("FindProcesses: want=3 got=%d", len(processes))
	}

	single, err := repo.FindProductMaterials(dbc, []ProductMaterialFilter{{Version: 1, Category: "SPECIALTY", Units: 100}})
	if err != nil {
		t.Fatalf("FindProductMaterials: %v", err)
	}
	if len(single) != 1 || single[0].Category != "SPECIALTY" {
		t.Fatalf("FindProductMaterials single filter: want only SPECIALTY got=%d rows", len(single))
	}

	timelines, err := repo.FindProcessTimelines(dbc, []ProcessTimelineFilter{{Version: 1, UniqueProcesses: 1, Units: 100}})
	if err != nil {
		t.Fatalf("FindProcessTimelines: %v", err)
	}
	if len(timelines) != 1 || timelines[0].UniqueProcesses != 1 {
		t.Fatalf("FindProcessTimelines: want one unique=1 row got=%d", len(timelines))
	}

	if got := counter.Count("pricing_margins"); got != 1 {
		t.Fatalf("pricing_margins queries: want=1 got=%d", got)
	}
	if got := counter.Count("pricing_processes"); got != 1 {
		t.Fatalf("pricing_processes queries: want=1 got=%d", got)
	}
}

func TestValueRepoLatestVersionsAndSeed(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewValueRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	empty, err := repo.LatestVersions(dbc)
	if err != nil {
		t.Fatalf("LatestVersions empty: %v", err)
	}
	if empty != (types.PricingVersions{}) {
		t.Fatalf("LatestVersions empty: want zero got=%+v", empty)
	}

	testutil.SeedReferenceTables(t, ctx, db)
	if err := repo.Seed(dbc, ReferenceSet{
		CareLabels: []*types.PricingCareLabel{{Version: 4, MinimumUnits: 0, UnitCents: 20}},
	}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	v, err := repo.LatestVersions(dbc)
	if err != nil {
		t.Fatalf("LatestVersions: %v", err)
	}
	if v.Margins != 2 || v.CareLabels != 4 || v.Constants != 1 {
		t.Fatalf("LatestVersions: want margins=2 care_labels=4 constants=1 got=%+v", v)
	}
}
