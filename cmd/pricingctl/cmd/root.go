// Package cmd provides the pricingctl commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yungbote/costing-backend/internal/app"
	"github.com/yungbote/costing-backend/internal/data/db"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pricingctl",
	Short: "Manage pricing reference tables and preview quotes",
	Long: `pricingctl talks to the same database as the costing server, configured
from the same environment (DATABASE_URL or POSTGRES_*).

Examples:
  pricingctl seed --file pricing/v3.yaml
  pricingctl versions
  pricingctl quote --design 6f1c... --units 5000`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(quoteCmd)
}

// env is what every subcommand needs: config, a logger and the database.
type env struct {
	log *logger.Logger
	cfg app.Config
	pg  *db.PostgresService
}

func (e *env) DB() *gorm.DB { return e.pg.DB() }

func (e *env) Close() {
	if e.pg != nil {
		_ = e.pg.Close()
	}
	e.log.Sync()
}

func openEnv() (*env, error) {
	mode := "production"
	if verbose {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	app.LoadDotEnv(log)
	cfg, err := app.LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return &env{log: log, cfg: cfg, pg: pg}, nil
}

func fail(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	fmt.Fprintln(os.Stderr, "Error:", err)
	return err
}
