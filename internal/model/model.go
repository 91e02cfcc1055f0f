// Package model defines the row types flowing through the cleaning pipeline.
//
// Raw types mirror the source datasets column for column; nullable columns
// use pointers (or the zero time for dates) so that missing values survive
// format decoding. Clean types are the validated star-schema rows. The core
// never sees files or connections, only these typed rows.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the canonical date layout for all datasets.
const DateFormat = "2006-01-02"

// RawCustomer is one row of the raw customers dataset.
type RawCustomer struct {
	CustomerID       *int64
	Name             string
	Email            *string
	Country          string
	RegistrationDate time.Time // zero = missing
	Segment          string
	City             *string
}

// CleanCustomer is a validated customer dimension row.
// Invariants: CustomerID unique, Email nil or structurally valid,
// RegistrationDate not after the processing date.
type CleanCustomer struct {
	CustomerID       int64
	Name             string
	Email            *string
	Country          string
	RegistrationDate time.Time
	Segment          string
	City             string
}

// RawProduct is one row of the raw products dataset.
type RawProduct struct {
	ProductID     *int64
	ProductName   string
	Category      string
	UnitPrice     *decimal.Decimal
	Supplier      *string
	StockQuantity *int64
	Rating        *float64
}

// CleanProduct is a validated product dimension row.
// Invariants: ProductID unique, UnitPrice > 0, Rating nil or in [0,5],
// StockQuantity nil or >= 0.
type CleanProduct struct {
	ProductID     int64
	ProductName   string
	Category      string
	UnitPrice     decimal.Decimal
	Supplier      string
	StockQuantity *int64
	Rating        *float64
}

// RawSale is one row of the raw sales dataset.
type RawSale struct {
	SaleID          *int64
	CustomerID      *int64
	ProductID       *int64
	Date            time.Time // zero = missing
	Quantity        *int64
	DiscountPercent *float64
	PaymentMethod   string
	Status          string
}

// CleanSale is a validated fact row with derived monetary metrics.
// Invariants: SaleID unique, CustomerID and ProductID resolve in the
// dimensions, Quantity > 0, DiscountPercent in [0,100], Date in the past,
// TotalAmount = AmountBeforeDiscount - DiscountAmount exactly.
type CleanSale struct {
	SaleID               int64
	CustomerID           int64
	ProductID            int64
	Date                 time.Time
	Quantity             int64
	UnitPrice            decimal.Decimal
	DiscountPercent      decimal.Decimal
	AmountBeforeDiscount decimal.Decimal
	DiscountAmount       decimal.Decimal
	TotalAmount          decimal.Decimal
	PaymentMethod        string
	Status               string
}

// StarSchema bundles the three output tables of one pipeline run.
type StarSchema struct {
	DimCustomer []CleanCustomer
	DimProduct  []CleanProduct
	FactSales   []CleanSale
}
