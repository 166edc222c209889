package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/costing-backend/internal/data/aggregates"
	"github.com/yungbote/costing-backend/internal/data/repos"
	pricingmod "github.com/yungbote/costing-backend/internal/modules/pricing"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

var (
	seedFile    string
	seedDryRun  bool
	seedTimeout time.Duration
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Append a pricing release from a YAML catalog",
	Long: `Validates a catalog file and writes every row in one transaction.

Releases are append-only: the catalog version must be higher than the latest
version of every table it contains. Existing rows are never modified.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "catalog YAML file")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "validate the catalog without writing")
	seedCmd.Flags().DurationVar(&seedTimeout, "timeout", 2*time.Minute, "timeout for the seed transaction")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(seedFile)
	if err != nil {
		return fail("open catalog: %v", err)
	}
	defer f.Close()

	catalog, err := pricingmod.ParseCatalog(f)
	if err != nil {
		return fail("%v", err)
	}
	set := catalog.ReferenceSet()
	if seedDryRun {
		fmt.Printf("catalog version %d is valid (%d rows)\n", catalog.Version, set.Len())
		return nil
	}

	e, err := openEnv()
	if err != nil {
		return fail("%v", err)
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	values := repos.NewValueRepo(e.DB(), e.log)
	err = aggregates.NewGormTxRunner(e.DB()).InTx(ctx, func(dbc dbctx.Context) error {
		return pricingmod.SeedCatalog(dbc, values, catalog)
	})
	if err != nil {
		return fail("seed release %d: %v", catalog.Version, err)
	}
	e.log.Info("pricing release seeded", "version", catalog.Version, "rows", set.Len())
	fmt.Printf("seeded pricing release %d (%d rows)\n", catalog.Version, set.Len())
	return nil
}
