// Package star assembles the star-schema output and performs the final
// consistency checks over it.
package star

import (
	"errors"
	"fmt"
	"time"

	"github.com/dataforge/sales-etl/internal/cleaner"
	"github.com/dataforge/sales-etl/internal/logging"
	"github.com/dataforge/sales-etl/internal/model"
)

// ErrIntegrity marks a referential closure failure in the assembled output.
// It indicates a defect in the pipeline itself, not in the input data, and
// callers must treat it as fatal for the run.
var ErrIntegrity = errors.New("referential integrity violation")

// Build assembles the three-table output and verifies global referential
// closure: every fact row's foreign keys must resolve in the emitted
// dimensions. This re-checks what the sale cleaner enforced per row; a
// failure means the cleaning and assembly steps have diverged.
func Build(customers []model.CleanCustomer, products []model.CleanProduct, sales []model.CleanSale) (*model.StarSchema, error) {
	customerIDs := make(map[int64]struct{}, len(customers))
	for _, c := range customers {
		customerIDs[c.CustomerID] = struct{}{}
	}
	productIDs := make(map[int64]struct{}, len(products))
	for _, p := range products {
		productIDs[p.ProductID] = struct{}{}
	}

	for _, s := range sales {
		if _, ok := customerIDs[s.CustomerID]; !ok {
			return nil, fmt.Errorf("%w: fact row %d references customer_id %d absent from dim_customer",
				ErrIntegrity, s.SaleID, s.CustomerID)
		}
		if _, ok := productIDs[s.ProductID]; !ok {
			return nil, fmt.Errorf("%w: fact row %d references product_id %d absent from dim_product",
				ErrIntegrity, s.SaleID, s.ProductID)
		}
	}

	logging.Info().
		Int("dim_customer", len(customers)).
		Int("dim_product", len(products)).
		Int("fact_sales", len(sales)).
		Msg("Star schema assembled")

	return &model.StarSchema{
		DimCustomer: customers,
		DimProduct:  products,
		FactSales:   sales,
	}, nil
}

// Transform runs the full pipeline over the raw datasets: clean both
// dimensions, derive the admissible key sets, clean sales against them,
// then assemble and verify the star schema. Stages run strictly in
// dependency order; rows within a stage may be evaluated in parallel.
func Transform(customers []model.RawCustomer, products []model.RawProduct, sales []model.RawSale, opts cleaner.Options) (*model.StarSchema, *model.QualityReport, error) {
	cleanCustomers, customerReport := cleaner.CleanCustomers(customers, opts)
	cleanProducts, productReport := cleaner.CleanProducts(products, opts)

	refs := cleaner.BuildReferences(cleanCustomers, cleanProducts)
	cleanSales, saleReport := cleaner.CleanSales(sales, refs, opts)

	schema, err := Build(cleanCustomers, cleanProducts, cleanSales)
	if err != nil {
		return nil, nil, err
	}

	report := model.NewQualityReport(time.Now(), customerReport, productReport, saleReport)
	return schema, report, nil
}
