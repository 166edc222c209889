package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/costing-backend/internal/data/repos"
	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Print the latest version of every pricing table",
	RunE:  runVersions,
}

func runVersions(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return fail("%v", err)
	}
	defer e.Close()

	latest, err := repos.NewValueRepo(e.DB(), e.log).LatestVersions(dbctx.Context{Ctx: context.Background()})
	if err != nil {
		return fail("latest versions: %v", err)
	}
	printVersions(os.Stdout, latest)
	return nil
}

func printVersions(out io.Writer, v types.PricingVersions) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tVERSION")
	for _, row := range []struct {
		name    string
		version int
	}{
		{"constants", v.Constants},
		{"margins", v.Margins},
		{"product_materials", v.ProductMaterials},
		{"product_types", v.ProductTypes},
		{"processes", v.Processes},
		{"process_timelines", v.ProcessTimelines},
		{"care_labels", v.CareLabels},
		{"unit_material_multiples", v.UnitMaterialMultiples},
	} {
		fmt.Fprintf(w, "%s\t%d\n", row.name, row.version)
	}
	_ = w.Flush()
}
