package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dataforge/sales-etl/internal/logging"
)

// Star-schema DDL. Email carries no UNIQUE constraint: customer_id is the
// key and duplicate emails are tolerated by the cleaning rules.
const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS dim_customer (
    customer_id       BIGINT PRIMARY KEY,
    name              VARCHAR(200) NOT NULL,
    email             VARCHAR(255),
    country           VARCHAR(100),
    registration_date DATE,
    segment           VARCHAR(50),
    city              VARCHAR(100)
);

CREATE TABLE IF NOT EXISTS dim_product (
    product_id     BIGINT PRIMARY KEY,
    product_name   VARCHAR(200) NOT NULL,
    category       VARCHAR(100),
    unit_price     NUMERIC(12,2) NOT NULL CHECK (unit_price > 0),
    supplier       VARCHAR(100),
    stock_quantity INTEGER,
    rating         NUMERIC(3,1) CHECK (rating >= 0 AND rating <= 5)
);

CREATE TABLE IF NOT EXISTS fact_sales (
    sale_id                BIGINT PRIMARY KEY,
    customer_id            BIGINT NOT NULL REFERENCES dim_customer(customer_id),
    product_id             BIGINT NOT NULL REFERENCES dim_product(product_id),
    sale_date              DATE NOT NULL,
    quantity               INTEGER NOT NULL CHECK (quantity > 0),
    unit_price             NUMERIC(12,2) NOT NULL,
    discount_percent       NUMERIC(5,2) NOT NULL CHECK (discount_percent >= 0 AND discount_percent <= 100),
    amount_before_discount NUMERIC(14,2) NOT NULL,
    discount_amount        NUMERIC(14,2) NOT NULL,
    total_amount           NUMERIC(14,2) NOT NULL CHECK (total_amount >= 0),
    payment_method         VARCHAR(50),
    status                 VARCHAR(50)
);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS fact_sales;
DROP TABLE IF EXISTS dim_product;
DROP TABLE IF EXISTS dim_customer;
`

// CreateSchema creates the star-schema tables if they do not exist.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	logging.Info().Msg("Creating star schema")
	if _, err := pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DropSchema drops the star-schema tables.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	logging.Info().Msg("Dropping star schema")
	if _, err := pool.Exec(ctx, dropSchemaSQL); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
