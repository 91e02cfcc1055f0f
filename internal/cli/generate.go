package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dataforge/sales-etl/internal/csvio"
	"github.com/dataforge/sales-etl/internal/datagen"
	"github.com/dataforge/sales-etl/internal/logging"
)

var (
	generateOutput    string
	generateCustomers int
	generateProducts  int
	generateSales     int
	generateSeed      uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate raw sample datasets with data-quality defects",
	Long: `Generate the three raw CSV datasets (customers, products, sales) with
deliberate defects: missing and malformed emails, duplicate keys, negative
prices and quantities, orphaned foreign keys, out-of-range discounts and
ratings, and missing or future dates.

Example:
  sales-etl generate --output data/raw --sales 50000 --seed 42`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateOutput, "output", "",
		"output directory for raw CSVs (default: data/raw)")
	generateCmd.Flags().IntVar(&generateCustomers, "customers", 0,
		"number of customer rows (default: 1000)")
	generateCmd.Flags().IntVar(&generateProducts, "products", 0,
		"number of product rows (default: 150)")
	generateCmd.Flags().IntVar(&generateSales, "sales", 0,
		"number of sales rows (default: 50000)")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0,
		"random seed for reproducible output (default: 42)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateOutput != "" {
		cfg.Generate.Output = generateOutput
	}
	if generateCustomers > 0 {
		cfg.Generate.Customers = generateCustomers
	}
	if generateProducts > 0 {
		cfg.Generate.Products = generateProducts
	}
	if generateSales > 0 {
		cfg.Generate.Sales = generateSales
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generate.Seed = generateSeed
	}

	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	sampleCfg := datagen.DefaultSampleConfig()
	sampleCfg.Customers = cfg.Generate.Customers
	sampleCfg.Products = cfg.Generate.Products
	sampleCfg.Sales = cfg.Generate.Sales
	sampleCfg.Seed = cfg.Generate.Seed

	start := time.Now()
	sampler := datagen.NewSampler(sampleCfg)
	customers := sampler.Customers()
	products := sampler.Products()
	sales := sampler.Sales(customers, products)

	if err := csvio.WriteRawDatasets(cfg.Generate.Output, customers, products, sales); err != nil {
		return err
	}

	logging.Info().
		Str("output", cfg.Generate.Output).
		Dur("elapsed", time.Since(start)).
		Msg("Sample data generated")
	return nil
}
