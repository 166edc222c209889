package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/costing-backend/internal/data/repos/testutil"
	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

func TestCostInputRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCostInputRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	designID := uuid.New()
	old := testutil.TeeshirtCostInput(designID, testutil.ScreenPrint())
	old.CreatedAt = time.Now().UTC().Add(-time.Hour)
	if _, err := repo.Create(dbc, []*types.CostInput{old}); err != nil {
		t.Fatalf("Create old: %v", err)
	}

	expired, err := repo.ExpireActiveByDesignID(dbc, designID, time.Now().UTC())
	if err != nil {
		t.Fatalf("ExpireActiveByDesignID: %v", err)
	}
	if expired != 1 {
		t.Fatalf("ExpireActiveByDesignID: want=1 got=%d", expired)
	}

	none, err := repo.GetLatestActiveByDesignID(dbc, designID)
	if err != nil {
		t.Fatalf("GetLatestActiveByDesignID: %v", err)
	}
	if none != nil {
		t.Fatalf("GetLatestActiveByDesignID after expiry: want nil got=%s", none.ID)
	}

	current := testutil.TeeshirtCostInput(designID, testutil.ScreenPrint(), testutil.Embroidery(), testutil.ScreenPrint())
	if _, err := repo.Create(dbc, []*types.CostInput{current}); err != nil {
		t.Fatalf("Create current: %v", err)
	}

	got, err := repo.GetLatestActiveByDesignID(dbc, designID)
	if err != nil {
		t.Fatalf("GetLatestActiveByDesignID: %v", err)
	}
	if got == nil || got.ID != current.ID {
		t.Fatalf("GetLatestActiveByDesignID: want=%s got=%v", current.ID, got)
	}
	if len(got.Processes) != 3 {
		t.Fatalf("processes: want=3 got=%d", len(got.Processes))
	}
	if got.Processes[1].Name != testutil.ProcessEmbroidery {
		t.Fatalf("process order: want %s at position 1 got=%s", testutil.ProcessEmbroidery, got.Processes[1].Name)
	}
	if got.Attributes().UniqueProcessCount() != 2 {
		t.Fatalf("unique processes: want=2 got=%d", got.Attributes().UniqueProcessCount())
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.LockLatestActiveByDesignID(dbctx.Context{Ctx: ctx, Tx: tx}, designID)
		if err != nil {
			return err
		}
		if locked == nil || locked.ID != current.ID {
			t.Fatalf("LockLatestActiveByDesignID: want=%s got=%v", current.ID, locked)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("lock tx: %v", err)
	}
}
