package aggregates_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/costing-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/costing-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/costing-backend/internal/data/repos"
	repotest "github.com/yungbote/costing-backend/internal/data/repos/testutil"
	types "github.com/yungbote/costing-backend/internal/domain"
	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

type checkoutHarness struct {
	db     *gorm.DB
	agg    domainagg.QuoteCheckoutAggregate
	quotes repos.QuoteRepo
	events repos.DesignEventRepo
	costs  repos.CostInputRepo
	hooks  *aggtest.HooksRecorder
}

func newCheckoutHarness(t *testing.T, db *gorm.DB, runner aggregates.TxRunner) *checkoutHarness {
	t.Helper()
	log := repotest.Logger(t)
	h := &checkoutHarness{
		db:     db,
		quotes: repos.NewQuoteRepo(db, log),
		events: repos.NewDesignEventRepo(db, log),
		costs:  repos.NewCostInputRepo(db, log),
		hooks:  &aggtest.HooksRecorder{},
	}
	if runner == nil {
		runner = aggregates.NewGormTxRunner(db)
	}
	h.agg = aggregates.NewQuoteCheckoutAggregate(aggregates.QuoteCheckoutAggregateDeps{
		Base:          aggregates.BaseDeps{DB: db, Log: log, Runner: runner, Hooks: h.hooks},
		Values:        repos.NewValueRepo(db, log),
		CostInputs:    h.costs,
		Quotes:        h.quotes,
		QuoteInputs:   repos.NewQuoteInputRepo(db, log),
		ApprovalSteps: repos.NewApprovalStepRepo(db, log),
		Events:        h.events,
		Variants:      repos.NewVariantRepo(db, log),
		Plans:         repos.NewPlanRepo(db, log),
	})
	return h
}

func (h *checkoutHarness) quotesFor(t *testing.T, designID uuid.UUID) []*types.Quote {
	t.Helper()
	out, err := h.quotes.ListByDesignID(dbctx.Context{Ctx: context.Background()}, designID)
	if err != nil {
		t.Fatalf("ListByDesignID: %v", err)
	}
	return out
}

func (h *checkoutHarness) commitEventsFor(t *testing.T, designID uuid.UUID) []*types.DesignEvent {
	t.Helper()
	out, err := h.events.ListByDesignID(dbctx.Context{Ctx: context.Background()}, designID, types.EventCommitQuote)
	if err != nil {
		t.Fatalf("ListByDesignID events: %v", err)
	}
	return out
}

func seedCheckoutDesign(t *testing.T, db *gorm.DB, colorways map[string]int64, processes ...types.ProcessSelection) *repotest.DesignFixture {
	t.Helper()
	ci := repotest.TeeshirtCostInput(uuid.New(), processes...)
	return repotest.SeedDesign(t, context.Background(), db, ci, colorways, repotest.BasisPoints(250))
}

func TestCreateQuotesCommitsBatch(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	repotest.SeedReferenceTables(t, ctx, db)
	h := newCheckoutHarness(t, db, nil)

	a := seedCheckoutDesign(t, db, map[string]int64{"Black": 60000, "White": 40000}, repotest.ScreenPrint(), repotest.ScreenPrint())
	b := seedCheckoutDesign(t, db, map[string]int64{"Navy": 500})
	c := seedCheckoutDesign(t, db, map[string]int64{"Red": 1500}, repotest.Embroidery(), repotest.ScreenPrint())

	actor := uuid.New()
	res, err := h.agg.CreateQuotes(ctx, domainagg.CreateQuotesInput{
		ActorID: actor,
		Requests: []domainagg.QuoteRequest{
			{DesignID: a.Design.ID, Units: 100000},
			{DesignID: b.Design.ID, Units: 500},
			{DesignID: c.Design.ID, Units: 1500},
		},
	})
	if err != nil {
		t.Fatalf("CreateQuotes: %v", err)
	}
	if len(res.Quotes) != 3 || len(res.EventIDs) != 3 {
		t.Fatalf("result sizes: want 3/3 got %d/%d", len(res.Quotes), len(res.EventIDs))
	}
	for i, want := range []uuid.UUID{a.Design.ID, b.Design.ID, c.Design.ID} {
		if res.Quotes[i].DesignID != want {
			t.Fatalf("quote[%d] design: want=%s got=%s", i, want, res.Quotes[i].DesignID)
		}
	}

	first := res.Quotes[0]
	if first.UnitCostCents != 1777 || first.BaseCostCents != 386 || first.ProcessCostCents != 101 {
		t.Fatalf("quote a: want unit=1777 base=386 process=101 got=%d/%d/%d", first.UnitCostCents, first.BaseCostCents, first.ProcessCostCents)
	}
	if first.ProductionFeeCents != 4442500 {
		t.Fatalf("quote a fee: want=4442500 got=%d", first.ProductionFeeCents)
	}
	if first.CostInputID == nil || *first.CostInputID != a.CostInput.ID {
		t.Fatalf("quote a cost input: want=%s got=%v", a.CostInput.ID, first.CostInputID)
	}

	stored, err := h.quotes.GetByID(dbctx.Context{Ctx: ctx}, first.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetByID: quote=%v err=%v", stored, err)
	}
	if len(stored.ChargedProcesses) != 2 || stored.ChargedProcesses[0].ProcessID != stored.ChargedProcesses[1].ProcessID {
		t.Fatalf("charged processes: want the same process twice got=%+v", stored.ChargedProcesses)
	}
	if len(res.Quotes[1].ChargedProcesses) != 0 {
		t.Fatalf("quote b processes: want none got=%d", len(res.Quotes[1].ChargedProcesses))
	}

	for i, fx := range []*repotest.DesignFixture{a, b, c} {
		events := h.commitEventsFor(t, fx.Design.ID)
		if len(events) != 1 {
			t.Fatalf("design %d events: want=1 got=%d", i, len(events))
		}
		e := events[0]
		if e.ID != res.EventIDs[i] || e.ActorID != actor {
			t.Fatalf("design %d event: got=%+v", i, e)
		}
		if e.ApprovalStepID == nil || *e.ApprovalStepID != fx.Step.ID {
			t.Fatalf("design %d event step: want=%s got=%v", i, fx.Step.ID, e.ApprovalStepID)
		}
		if e.QuoteID == nil || *e.QuoteID != res.Quotes[i].ID {
			t.Fatalf("design %d event quote: want=%s got=%v", i, res.Quotes[i].ID, e.QuoteID)
		}
		if !strings.Contains(string(e.Metadata), `"units"`) {
			t.Fatalf("design %d event metadata: got=%s", i, e.Metadata)
		}
	}

	if len(h.hooks.Operations) != 1 || h.hooks.Operations[0].Status != "success" {
		t.Fatalf("hooks: want one success got=%+v", h.hooks.Operations)
	}
}

func TestCreateQuotesPoolsReferenceLookups(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	repotest.SeedReferenceTables(t, ctx, db)
	h := newCheckoutHarness(t, db, nil)

	var reqs []domainagg.QuoteRequest
	for i := 0; i < 8; i++ {
		fx := seedCheckoutDesign(t, db, map[string]int64{"Black": 2000}, repotest.ScreenPrint())
		reqs = append(reqs, domainagg.QuoteRequest{DesignID: fx.Design.ID, Units: int64(1000 * (i + 1))})
	}

	counter := repotest.CountQueries(t, db)
	if _, err := h.agg.CreateQuotes(ctx, domainagg.CreateQuotesInput{ActorID: uuid.New(), Requests: reqs}); err != nil {
		t.Fatalf("CreateQuotes: %v", err)
	}
	for _, table := range []string{"pricing_margins", "pricing_product_types", "pricing_processes", "pricing_process_timelines"} {
		if got := counter.Count(table); got != 1 {
			t.Fatalf("%s queries: want=1 got=%d", table, got)
		}
	}
}

func TestCreateQuotesMOQViolationRollsBack(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	repotest.SeedReferenceTables(t, ctx, db)
	h := newCheckoutHarness(t, db, nil)

	ok := seedCheckoutDesign(t, db, map[string]int64{"Black": 1000})
	ci := repotest.TeeshirtCostInput(uuid.New())
	ci.MinimumOrderQuantity = 500
	short := repotest.SeedDesign(t, ctx, db, ci, map[string]int64{"Black": 600, "Sand": 100}, repotest.BasisPoints(0))

	_, err := h.agg.CreateQuotes(ctx, domainagg.CreateQuotesInput{
		ActorID: uuid.New(),
		Requests: []domainagg.QuoteRequest{
			{DesignID: ok.Design.ID, Units: 1000},
			{DesignID: short.Design.ID, Units: 700},
		},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("CreateQuotes: want validation got=%v", err)
	}
	msg := domainagg.MessageOf(err)
	if !strings.Contains(msg, "Sand") || !strings.Contains(msg, short.Design.ID.String()) {
		t.Fatalf("message should name design and colorway, got=%q", msg)
	}
	if got := h.quotesFor(t, ok.Design.ID); len(got) != 0 {
		t.Fatalf("quotes after rollback: want=0 got=%d", len(got))
	}
	if got := h.commitEventsFor(t, ok.Design.ID); len(got) != 0 {
		t.Fatalf("events after rollback: want=0 got=%d", len(got))
	}
	if h.hooks.Operations[0].Status != string(domainagg.CodeValidation) {
		t.Fatalf("hook status: want=validation got=%s", h.hooks.Operations[0].Status)
	}
}

func TestCreateQuotesPreconditionFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing checkout step", func(t *testing.T) {
		db := repotest.DB(t)
		repotest.SeedReferenceTables(t, ctx, db)
		h := newCheckoutHarness(t, db, nil)
		fx := seedCheckoutDesign(t, db, map[string]int64{"Black": 100})
		if err := db.Delete(&types.ApprovalStep{}, "id = ?", fx.Step.ID).Error; err != nil {
			t.Fatalf("delete step: %v", err)
		}
		_, err := h.agg.CreateQuotes(ctx, domainagg.CreateQuotesInput{
			ActorID:  uuid.New(),
			Requests: []domainagg.QuoteRequest{{DesignID: fx.Design.ID, Units: 100}},
		})
		if !domainagg.IsCode(err, domainagg.CodeInternal) {
			t.Fatalf("want internal got=%v", err)
		}
	})

	t.Run("missing cost input", func(t *testing.T) {
		db := repotest.DB(t)
		repotest.SeedReferenceTables(t, ctx, db)
		h := newCheckoutHarness(t, db, nil)
		fx := seedCheckoutDesign(t, db, map[string]int64{"Black": 100})
		if _, err := h.costs.ExpireActiveByDesignID(dbctx.Context{Ctx: ctx}, fx.Design.ID, time.Now().Add(-time.Minute)); err != nil {
			t.Fatalf("expire: %v", err)
		}
		_, err := h.agg.CreateQuotes(ctx, domainagg.CreateQuotesInput{
			ActorID:  uuid.New(),
			Requests: []domainagg.QuoteRequest{{DesignID: fx.Design.ID, Units: 100}},
		})
		if !domainagg.IsCode(err, domainagg.CodeInternal) {
			t.Fatalf("want internal got=%v", err)
		}
		if !strings.Contains(domainagg.MessageOf(err), fx.Design.ID.String()) {
			t.Fatalf("message should name the design, got=%q", domainagg.MessageOf(err))
		}
	})

	t.Run("no plan", func(t *testing.T) {
		db := repotest.DB(t)
		repotest.SeedReferenceTables(t, ctx, db)
		h := newCheckoutHarness(t, db, nil)
		fx := repotest.SeedDesign(t, ctx, db, repotest.TeeshirtCostInput(uuid.New()), map[string]int64{"Black": 100}, nil)
		_, err := h.agg.CreateQuotes(ctx, domainagg.CreateQuotesInput{
			ActorID:  uuid.New(),
			Requests: []domainagg.QuoteRequest{{DesignID: fx.Design.ID, Units: 100}},
		})
		if !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
			t.Fatalf("want unauthorized got=%v", err)
		}
	})

	t.Run("missing pricing values", func(t *testing.T) {
		db := repotest.DB(t)
		repotest.SeedReferenceTables(t, ctx, db)
		h := newCheckoutHarness(t, db, nil)
		ci := repotest.TeeshirtCostInput(uuid.New())
		ci.MaterialCategory = "LEATHER"
		fx := repotest.SeedDesign(t, ctx, db, ci, map[string]int64{"Black": 100}, repotest.BasisPoints(0))
		_, err := h.agg.CreateQuotes(ctx, domainagg.CreateQuotesInput{
			ActorID:  uuid.New(),
			Requests: []domainagg.QuoteRequest{{DesignID: fx.Design.ID, Units: 100}},
		})
		if !domainagg.IsCode(err, domainagg.CodeNotFound) {
			t.Fatalf("want not_found got=%v", err)
		}
	})
}

func TestCreateQuotesRejectsSecondCommit(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	repotest.SeedReferenceTables(t, ctx, db)
	h := newCheckoutHarness(t, db, nil)
	fx := seedCheckoutDesign(t, db, map[string]int64{"Black": 100})

	in := domainagg.CreateQuotesInput{
		ActorID:  uuid.New(),
		Requests: []domainagg.QuoteRequest{{DesignID: fx.Design.ID, Units: 100}},
	}
	if _, err := h.agg.CreateQuotes(ctx, in); err != nil {
		t.Fatalf("first CreateQuotes: %v", err)
	}
	_, err := h.agg.CreateQuotes(ctx, in)
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("second CreateQuotes: want conflict got=%v", err)
	}
	if got := h.quotesFor(t, fx.Design.ID); len(got) != 1 {
		t.Fatalf("quotes: want=1 got=%d", len(got))
	}
	if len(h.hooks.Conflicts) != 1 {
		t.Fatalf("conflict hooks: want=1 got=%d", len(h.hooks.Conflicts))
	}
}

func TestCreateQuotesValidatesPayload(t *testing.T) {
	db := repotest.DB(t)
	h := newCheckoutHarness(t, db, nil)
	id := uuid.New()

	cases := map[string]domainagg.CreateQuotesInput{
		"empty":           {ActorID: uuid.New()},
		"zero units":      {ActorID: uuid.New(), Requests: []domainagg.QuoteRequest{{DesignID: id, Units: 0}}},
		"units above cap": {ActorID: uuid.New(), Requests: []domainagg.QuoteRequest{{DesignID: id, Units: types.MaxQuoteUnits + 1}}},
		"duplicate":       {ActorID: uuid.New(), Requests: []domainagg.QuoteRequest{{DesignID: id, Units: 1}, {DesignID: id, Units: 2}}},
		"missing actor":   {Requests: []domainagg.QuoteRequest{{DesignID: id, Units: 1}}},
		"nil design":      {ActorID: uuid.New(), Requests: []domainagg.QuoteRequest{{Units: 1}}},
	}
	for name, in := range cases {
		if _, err := h.agg.CreateQuotes(context.Background(), in); !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("%s: want validation got=%v", name, err)
		}
	}
}

func TestCreateQuotesCommitFailureRollsBack(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	repotest.SeedReferenceTables(t, ctx, db)
	runner := &aggtest.InjectedTxRunner{Inner: aggregates.NewGormTxRunner(db), FailCommit: errors.New("commit failed")}
	h := newCheckoutHarness(t, db, runner)
	fx := seedCheckoutDesign(t, db, map[string]int64{"Black": 100})

	_, err := h.agg.CreateQuotes(ctx, domainagg.CreateQuotesInput{
		ActorID:  uuid.New(),
		Requests: []domainagg.QuoteRequest{{DesignID: fx.Design.ID, Units: 100}},
	})
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("CreateQuotes: want internal got=%v", err)
	}
	if runner.RollbackCalls != 1 || runner.CommitCalls != 0 {
		t.Fatalf("runner: want rollback=1 commit=0 got=%d/%d", runner.RollbackCalls, runner.CommitCalls)
	}
	if got := h.quotesFor(t, fx.Design.ID); len(got) != 0 {
		t.Fatalf("quotes after failed commit: want=0 got=%d", len(got))
	}
}

func TestCreateQuoteSingleDesign(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	repotest.SeedReferenceTables(t, ctx, db)
	h := newCheckoutHarness(t, db, nil)

	ci := repotest.TeeshirtCostInput(uuid.New(), repotest.ScreenPrint(), repotest.ScreenPrint())
	ci.MinimumOrderQuantity = 500
	// Colorway minimums are not checked on the single path.
	fx := repotest.SeedDesign(t, ctx, db, ci, map[string]int64{"Black": 10}, repotest.BasisPoints(0))

	res, err := h.agg.CreateQuote(ctx, domainagg.CreateQuoteInput{ActorID: uuid.New(), DesignID: fx.Design.ID, Units: 100000})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	if res.Quote.UnitCostCents != 1777 || res.Quote.ProductionFeeCents != 0 {
		t.Fatalf("quote: want unit=1777 fee=0 got=%d/%d", res.Quote.UnitCostCents, res.Quote.ProductionFeeCents)
	}
	events := h.commitEventsFor(t, fx.Design.ID)
	if len(events) != 1 || events[0].ID != res.EventID {
		t.Fatalf("events: want one with id %s got=%+v", res.EventID, events)
	}

	_, err = h.agg.CreateQuote(ctx, domainagg.CreateQuoteInput{ActorID: uuid.New(), DesignID: fx.Design.ID, Units: 100000})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("second CreateQuote: want conflict got=%v", err)
	}
}

// Row locks need a real database; SQLite ignores FOR UPDATE.
func TestCreateQuotesBlocksOnLockedCostInput(t *testing.T) {
	db := repotest.PostgresDB(t)
	ctx := context.Background()
	log := repotest.Logger(t)

	values := repos.NewValueRepo(db, log)
	if c, err := values.GetConstant(dbctx.Context{Ctx: ctx}, 1); err != nil {
		t.Fatalf("GetConstant: %v", err)
	} else if c == nil {
		repotest.SeedReferenceTables(t, ctx, db)
	}
	h := newCheckoutHarness(t, db, nil)
	fx := seedCheckoutDesign(t, db, map[string]int64{"Black": 100})

	holder := db.Begin()
	if holder.Error != nil {
		t.Fatalf("begin: %v", holder.Error)
	}
	locked, err := h.costs.LockLatestActiveByDesignID(dbctx.Context{Ctx: ctx, Tx: holder}, fx.Design.ID)
	if err != nil || locked == nil {
		_ = holder.Rollback()
		t.Fatalf("lock: ci=%v err=%v", locked, err)
	}

	in := domainagg.CreateQuotesInput{
		ActorID:  uuid.New(),
		Requests: []domainagg.QuoteRequest{{DesignID: fx.Design.ID, Units: 100}},
	}
	done := make(chan error, 1)
	go func() {
		_, err := h.agg.CreateQuotes(ctx, in)
		done <- err
	}()

	select {
	case err := <-done:
		_ = holder.Rollback()
		t.Fatalf("CreateQuotes finished while the cost input was locked: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	if err := holder.Commit().Error; err != nil {
		t.Fatalf("commit holder: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("CreateQuotes after unlock: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("CreateQuotes did not resume after unlock")
	}

	if _, err := h.agg.CreateQuotes(ctx, in); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("repeat CreateQuotes: want conflict got=%v", err)
	}
}

func TestQuoteCheckoutContract(t *testing.T) {
	c := aggregates.NewQuoteCheckoutAggregate(aggregates.QuoteCheckoutAggregateDeps{}).Contract()
	if !c.RequiresAggregateOwnedTx() {
		t.Fatalf("write tx ownership: want=%v got=%v", domainagg.WriteTxOwnedByAggregate, c.WriteTxOwnership)
	}
	if !c.LocksRows() || c.LockPolicy != domainagg.LockPolicyCostInputSorted {
		t.Fatalf("lock policy: want=%v got=%v", domainagg.LockPolicyCostInputSorted, c.LockPolicy)
	}
	if (domainagg.Contract{LockPolicy: domainagg.LockPolicyNone}).LocksRows() {
		t.Fatalf("none policy should not lock rows")
	}
}
