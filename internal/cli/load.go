package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dataforge/sales-etl/internal/csvio"
	"github.com/dataforge/sales-etl/internal/db"
	"github.com/dataforge/sales-etl/internal/logging"
)

var (
	loadConnection   string
	loadInput        string
	loadDropExisting bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the transformed star schema into PostgreSQL",
	Long: `Create the star-schema tables and insert the output of a transform run
into PostgreSQL. Dimensions load before facts so the foreign key
constraints hold throughout.

Example:
  sales-etl load --input data/processed --connection "postgres://..."`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadConnection, "connection", "",
		"PostgreSQL connection string")
	loadCmd.Flags().StringVar(&loadInput, "input", "",
		"processed directory from a transform run (default: data/processed)")
	loadCmd.Flags().BoolVar(&loadDropExisting, "drop-existing", false,
		"drop the star-schema tables before loading")
}

func runLoad(cmd *cobra.Command, args []string) error {
	if loadConnection != "" {
		cfg.Load.Connection = loadConnection
	}
	if loadInput != "" {
		cfg.Load.Input = loadInput
	}
	if cmd.Flags().Changed("drop-existing") {
		cfg.Load.DropExisting = loadDropExisting
	}

	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	schema, err := csvio.ReadStarSchema(cfg.Load.Input)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := db.Connect(ctx, cfg.Load.Connection)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Load.DropExisting {
		if err := db.DropSchema(ctx, pool); err != nil {
			return err
		}
	}
	if err := db.CreateSchema(ctx, pool); err != nil {
		return err
	}

	start := time.Now()
	if err := db.LoadStarSchema(ctx, pool, schema); err != nil {
		return err
	}

	logging.Info().
		Dur("elapsed", time.Since(start)).
		Msg("Warehouse load complete")
	return nil
}
