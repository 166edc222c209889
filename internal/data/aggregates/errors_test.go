package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
)

func TestMapError_Infrastructure(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want domainagg.ErrorCode
	}{
		{"not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"wrapped not found", fmt.Errorf("load cost input: %w", gorm.ErrRecordNotFound), domainagg.CodeNotFound},
		{"deadline", context.DeadlineExceeded, domainagg.CodeRetryable},
		{"duplicate key", errors.New("UNIQUE constraint failed: quotes.id"), domainagg.CodeConflict},
		{"canceled", context.Canceled, domainagg.CodeRetryable},
		{"unknown", errors.New("boom"), domainagg.CodeInternal},
	}
	for _, c := range cases {
		if got := domainagg.CodeOf(MapError("op", c.in)); got != c.want {
			t.Fatalf("%s: want=%s got=%s", c.name, c.want, got)
		}
	}
}

func TestMapError_PostgresCodes(t *testing.T) {
	cases := map[string]domainagg.ErrorCode{
		"23505": domainagg.CodeConflict,
		"23503": domainagg.CodePreconditionFailed,
		"40001": domainagg.CodeRetryable,
		"40P01": domainagg.CodeRetryable,
		"55P03": domainagg.CodeRetryable,
	}
	for code, want := range cases {
		err := fmt.Errorf("insert quote: %w", &pgconn.PgError{Code: code})
		if got := domainagg.CodeOf(MapError("op", err)); got != want {
			t.Fatalf("pg %s: want=%s got=%s", code, want, got)
		}
	}
}

func TestMapError_SQLiteLocked(t *testing.T) {
	err := MapError("op", errors.New("database is locked (5) (SQLITE_BUSY)"))
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
	wrapped := fmt.Errorf("tx: %w", in)
	if got := MapError("other", wrapped); got != wrapped {
		t.Fatalf("expected passthrough of wrapped aggregate error")
	}
}
