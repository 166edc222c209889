package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/costing-backend/internal/app"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/services"
)

var (
	quoteDesign string
	quoteUnits  int64
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Preview a design quote without committing it",
	Long: `Prices the design's active cost input at the given units using its pinned
reference versions and prints the design quote as JSON. Nothing is written.`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&quoteDesign, "design", "", "design id")
	quoteCmd.Flags().Int64Var(&quoteUnits, "units", 0, "units to price")
	_ = quoteCmd.MarkFlagRequired("design")
	_ = quoteCmd.MarkFlagRequired("units")
}

func runQuote(cmd *cobra.Command, args []string) error {
	designID, err := uuid.Parse(quoteDesign)
	if err != nil {
		return fail("invalid --design: %v", err)
	}

	e, err := openEnv()
	if err != nil {
		return fail("%v", err)
	}
	defer e.Close()

	r := app.WireRepos(e.DB(), e.log)
	// Read-only: no checkout aggregate and no notifier.
	quotes := services.NewQuoteService(e.log, r.Values, r.CostInputs, r.Quotes, r.Plans, nil, nil, e.cfg.FinancingMarginPercent)

	dq, err := quotes.GetDesignQuote(dbctx.Context{Ctx: context.Background()}, designID, quoteUnits)
	if err != nil {
		return fail("%v", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(dq)
}
