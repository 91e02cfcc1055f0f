package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dataforge/sales-etl/internal/cleaner"
	"github.com/dataforge/sales-etl/internal/csvio"
	"github.com/dataforge/sales-etl/internal/logging"
	"github.com/dataforge/sales-etl/internal/star"
)

var (
	transformInput          string
	transformOutput         string
	transformReport         string
	transformWorkers        int
	transformDiscountPolicy string
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Clean the raw datasets and build the star schema",
	Long: `Run the validation-and-transformation pipeline: clean the customer and
product dimensions, clean sales against the resulting valid key sets,
compute the derived monetary metrics, and emit dim_customer, dim_product,
fact_sales, and a quality report.

A referential integrity failure in the assembled output aborts the run:
it indicates a pipeline defect, not bad input data.

Example:
  sales-etl transform --input data/raw --output data/processed`,
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().StringVar(&transformInput, "input", "",
		"directory with customers.csv, products.csv, sales.csv (default: data/raw)")
	transformCmd.Flags().StringVar(&transformOutput, "output", "",
		"directory for the star-schema CSVs (default: data/processed)")
	transformCmd.Flags().StringVar(&transformReport, "report", "",
		"path for the quality report JSON (default: <output>/quality_report.json)")
	transformCmd.Flags().IntVar(&transformWorkers, "workers", 0,
		"per-stage validation workers (default: GOMAXPROCS)")
	transformCmd.Flags().StringVar(&transformDiscountPolicy, "discount-policy", "",
		"out-of-range discount handling: clamp or reject (default: clamp)")
}

func runTransform(cmd *cobra.Command, args []string) error {
	if transformInput != "" {
		cfg.Transform.Input = transformInput
	}
	if transformOutput != "" {
		cfg.Transform.Output = transformOutput
		cfg.Transform.Report = filepath.Join(transformOutput, "quality_report.json")
	}
	if transformReport != "" {
		cfg.Transform.Report = transformReport
	}
	if transformWorkers > 0 {
		cfg.Transform.Workers = transformWorkers
	}
	if transformDiscountPolicy != "" {
		cfg.Transform.DiscountPolicy = transformDiscountPolicy
	}

	if err := cfg.ValidateTransform(); err != nil {
		return err
	}

	start := time.Now()

	customers, err := csvio.ReadCustomers(filepath.Join(cfg.Transform.Input, "customers.csv"))
	if err != nil {
		return err
	}
	products, err := csvio.ReadProducts(filepath.Join(cfg.Transform.Input, "products.csv"))
	if err != nil {
		return err
	}
	sales, err := csvio.ReadSales(filepath.Join(cfg.Transform.Input, "sales.csv"))
	if err != nil {
		return err
	}

	opts := cleaner.Options{
		Now:            time.Now(),
		Workers:        cfg.Transform.Workers,
		DiscountPolicy: cleaner.DiscountPolicy(cfg.Transform.DiscountPolicy),
	}

	schema, report, err := star.Transform(customers, products, sales, opts)
	if err != nil {
		return err
	}

	if err := csvio.WriteStarSchema(cfg.Transform.Output, schema); err != nil {
		return err
	}
	if err := csvio.WriteQualityReport(cfg.Transform.Report, report); err != nil {
		return err
	}

	logging.Info().
		Str("output", cfg.Transform.Output).
		Str("report", cfg.Transform.Report).
		Dur("elapsed", time.Since(start)).
		Msg("Transformation complete")
	return nil
}
