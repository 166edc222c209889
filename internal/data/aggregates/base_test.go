package aggregates

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

func TestExecuteWriteStatuses(t *testing.T) {
	designID := uuid.New()
	cases := []struct {
		name      string
		fnErr     error
		want      string
		conflicts int
		retries   int
	}{
		{name: "committed", want: "success"},
		{
			name:  "missing margin tier",
			fnErr: domainagg.Newf(domainagg.CodeNotFound, "quote_checkout.create_quotes", "no margin tier for category %s", "TEESHIRT"),
			want:  string(domainagg.CodeNotFound),
		},
		{
			name:  "cost input row vanished",
			fnErr: fmt.Errorf("lock cost input: %w", gorm.ErrRecordNotFound),
			want:  string(domainagg.CodeNotFound),
		},
		{
			name:      "design already committed",
			fnErr:     domainagg.Newf(domainagg.CodeConflict, "quote_checkout.create_quotes", "design %s already has a committed quote", designID),
			want:      string(domainagg.CodeConflict),
			conflicts: 1,
		},
		{
			name:      "duplicate quote id",
			fnErr:     fmt.Errorf("insert quote: %w", &pgconn.PgError{Code: "23505"}),
			want:      string(domainagg.CodeConflict),
			conflicts: 1,
		},
		{
			name:    "serialization failure",
			fnErr:   fmt.Errorf("lock cost input: %w", &pgconn.PgError{Code: "40001"}),
			want:    string(domainagg.CodeRetryable),
			retries: 1,
		},
		{
			name:  "design not ready",
			fnErr: domainagg.Newf(domainagg.CodePreconditionFailed, "quote_checkout.create_quotes", "design %s has no CHECKOUT step", designID),
			want:  string(domainagg.CodePreconditionFailed),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hooks := &spyHooks{}
			err := executeWrite(context.Background(), BaseDeps{
				Runner: spyTxRunner{},
				Hooks:  hooks,
			}, "quote_checkout.create_quotes", func(_ dbctx.Context) error { return c.fnErr })

			if got := aggregateErrorStatus(err); got != c.want {
				t.Fatalf("status: want=%s got=%s (%v)", c.want, got, err)
			}
			if len(hooks.Operations) != 1 {
				t.Fatalf("operations count: want=1 got=%d", len(hooks.Operations))
			}
			op := hooks.Operations[0]
			if op.Name != "quote_checkout.create_quotes" || op.Status != c.want {
				t.Fatalf("operation: want=%s/%s got=%s/%s", "quote_checkout.create_quotes", c.want, op.Name, op.Status)
			}
			if len(hooks.Conflicts) != c.conflicts {
				t.Fatalf("conflict hooks: want=%d got=%+v", c.conflicts, hooks.Conflicts)
			}
			if len(hooks.Retries) != c.retries {
				t.Fatalf("retry hooks: want=%d got=%+v", c.retries, hooks.Retries)
			}
		})
	}
}

func TestExecuteWriteDefaultsOperationName(t *testing.T) {
	hooks := &spyHooks{}
	if err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, "  ", func(_ dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("executeWrite: %v", err)
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Name != "aggregate.write" {
		t.Fatalf("operation name: want=aggregate.write got=%+v", hooks.Operations)
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	cases := []struct {
		in   error
		want string
	}{
		{nil, "success"},
		{context.DeadlineExceeded, string(domainagg.CodeRetryable)},
		{gorm.ErrRecordNotFound, string(domainagg.CodeNotFound)},
		{domainagg.NewError(domainagg.CodeValidation, "op", "units must be between 1 and 100000000", nil), string(domainagg.CodeValidation)},
		{fmt.Errorf("boom"), string(domainagg.CodeInternal)},
	}
	for _, c := range cases {
		if got := aggregateErrorStatus(c.in); got != c.want {
			t.Fatalf("status(%v): want=%s got=%s", c.in, c.want, got)
		}
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) {
	h.Conflicts = append(h.Conflicts, name)
}

func (h *spyHooks) IncRetry(name string) {
	h.Retries = append(h.Retries, name)
}
