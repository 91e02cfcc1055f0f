package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dataforge/sales-etl/internal/logging"
	"github.com/dataforge/sales-etl/internal/model"
)

const insertBatchSize = 1000

// nullableDate maps the zero time to SQL NULL.
func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func flushBatch(ctx context.Context, pool *pgxpool.Pool, batch *pgx.Batch, table string) error {
	if batch.Len() == 0 {
		return nil
	}
	results := pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// LoadStarSchema inserts the transformed output into the warehouse tables,
// dimensions first so the fact FK constraints hold.
func LoadStarSchema(ctx context.Context, pool *pgxpool.Pool, schema *model.StarSchema) error {
	batch := &pgx.Batch{}
	for _, c := range schema.DimCustomer {
		batch.Queue(
			`INSERT INTO dim_customer (customer_id, name, email, country, registration_date, segment, city)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.CustomerID, c.Name, c.Email, c.Country, nullableDate(c.RegistrationDate), c.Segment, c.City,
		)
		if batch.Len() >= insertBatchSize {
			if err := flushBatch(ctx, pool, batch, "dim_customer"); err != nil {
				return err
			}
			batch = &pgx.Batch{}
		}
	}
	if err := flushBatch(ctx, pool, batch, "dim_customer"); err != nil {
		return err
	}
	logging.Info().Int("rows", len(schema.DimCustomer)).Msg("Loaded dim_customer")

	batch = &pgx.Batch{}
	for _, p := range schema.DimProduct {
		batch.Queue(
			`INSERT INTO dim_product (product_id, product_name, category, unit_price, supplier, stock_quantity, rating)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ProductID, p.ProductName, p.Category, p.UnitPrice, p.Supplier, p.StockQuantity, p.Rating,
		)
		if batch.Len() >= insertBatchSize {
			if err := flushBatch(ctx, pool, batch, "dim_product"); err != nil {
				return err
			}
			batch = &pgx.Batch{}
		}
	}
	if err := flushBatch(ctx, pool, batch, "dim_product"); err != nil {
		return err
	}
	logging.Info().Int("rows", len(schema.DimProduct)).Msg("Loaded dim_product")

	batch = &pgx.Batch{}
	for _, s := range schema.FactSales {
		batch.Queue(
			`INSERT INTO fact_sales
			 (sale_id, customer_id, product_id, sale_date, quantity, unit_price, discount_percent,
			  amount_before_discount, discount_amount, total_amount, payment_method, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			s.SaleID, s.CustomerID, s.ProductID, s.Date, s.Quantity, s.UnitPrice, s.DiscountPercent,
			s.AmountBeforeDiscount, s.DiscountAmount, s.TotalAmount, s.PaymentMethod, s.Status,
		)
		if batch.Len() >= insertBatchSize {
			if err := flushBatch(ctx, pool, batch, "fact_sales"); err != nil {
				return err
			}
			batch = &pgx.Batch{}
		}
	}
	if err := flushBatch(ctx, pool, batch, "fact_sales"); err != nil {
		return err
	}
	logging.Info().Int("rows", len(schema.FactSales)).Msg("Loaded fact_sales")

	return nil
}
