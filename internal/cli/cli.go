// Package cli implements the command-line interface for sales-etl.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dataforge/sales-etl/internal/config"
	"github.com/dataforge/sales-etl/internal/logging"
	"github.com/dataforge/sales-etl/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "sales-etl",
		Short: "Batch ETL pipeline producing a validated sales star schema",
		Long: `sales-etl ingests raw customer, product, and sales datasets with
realistic data-quality defects, validates and repairs them, and produces a
star schema (dim_customer, dim_product, fact_sales) ready for an analytical
warehouse, together with a machine-readable quality report.

Typical flow:
  sales-etl generate   # create defect-laden raw CSVs
  sales-etl transform  # clean, validate, and build the star schema
  sales-etl load       # create DDL and insert the output into Postgres`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./sales-etl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(loadCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
