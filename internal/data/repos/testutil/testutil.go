package testutil

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/costing-backend/internal/data/db"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB opens a private in-memory SQLite database with the full schema. SQLite
// ignores row locks, so lock behaviour needs PostgresDB.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:costing_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		tb.Fatalf("sqlite pool: %v", err)
	}
	// One connection keeps the shared-cache database alive and serializes access.
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("sqlite automigrate: %v", err)
	}
	return gdb
}

// PostgresDB returns the shared integration database, skipping the test when
// TEST_POSTGRES_DSN is unset.
func PostgresDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	pgOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			pgErr = errMissingDSN
			return
		}
		gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			pgErr = err
			return
		}
		if err := db.AutoMigrateAll(gdb); err != nil {
			pgErr = err
			return
		}
		pgDB = gdb
	})

	if errors.Is(pgErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run postgres integration tests")
	}
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	return pgDB
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

// QueryCounter counts executed SELECTs per table.
type QueryCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

// CountQueries installs a QueryCounter on db.
func CountQueries(tb testing.TB, db *gorm.DB) *QueryCounter {
	tb.Helper()
	qc := &QueryCounter{counts: map[string]int{}}
	record := func(tx *gorm.DB) {
		if tx.DryRun || tx.Statement == nil {
			return
		}
		qc.mu.Lock()
		qc.counts[tx.Statement.Table]++
		qc.mu.Unlock()
	}
	name := "testutil:count_queries:" + uuid.NewString()
	if err := db.Callback().Query().After("gorm:query").Register(name, record); err != nil {
		tb.Fatalf("register query counter: %v", err)
	}
	if err := db.Callback().Row().After("gorm:row").Register(name, record); err != nil {
		tb.Fatalf("register row counter: %v", err)
	}
	return qc
}

func (qc *QueryCounter) Count(table string) int {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	return qc.counts[table]
}

func (qc *QueryCounter) Reset() {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	qc.counts = map[string]int{}
}
