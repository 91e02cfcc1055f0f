package csvio

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dataforge/sales-etl/internal/model"
)

// strictRecord parses one record of pipeline output. Unlike the raw
// readers, any malformed value is an error: these files are produced by the
// transform stage and must be internally consistent.
type strictRecord struct {
	h   header
	rec []string
	err error
}

func (p *strictRecord) text(name string) string {
	return p.h.get(p.rec, name)
}

func (p *strictRecord) int64(name string) int64 {
	s := p.h.get(p.rec, name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v
}

func (p *strictRecord) int64Ptr(name string) *int64 {
	if p.h.get(p.rec, name) == "" {
		return nil
	}
	v := p.int64(name)
	return &v
}

func (p *strictRecord) float64Ptr(name string) *float64 {
	s := p.h.get(p.rec, name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return &v
}

func (p *strictRecord) stringPtr(name string) *string {
	s := p.h.get(p.rec, name)
	if s == "" {
		return nil
	}
	return &s
}

func (p *strictRecord) decimal(name string) decimal.Decimal {
	s := p.h.get(p.rec, name)
	v, err := decimal.NewFromString(s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v
}

func (p *strictRecord) date(name string) time.Time {
	s := p.h.get(p.rec, name)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(model.DateFormat, s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return t
}

// ReadStarSchema decodes a processed output directory back into memory,
// for handing to the warehouse loader.
func ReadStarSchema(dir string) (*model.StarSchema, error) {
	schema := &model.StarSchema{}

	path := filepath.Join(dir, "dim_customer.csv")
	err := eachRecord(path, func(h header, rec []string) error {
		p := &strictRecord{h: h, rec: rec}
		row := model.CleanCustomer{
			CustomerID:       p.int64("customer_id"),
			Name:             p.text("name"),
			Email:            p.stringPtr("email"),
			Country:          p.text("country"),
			RegistrationDate: p.date("registration_date"),
			Segment:          p.text("segment"),
			City:             p.text("city"),
		}
		if p.err != nil {
			return fmt.Errorf("%s: %w", path, p.err)
		}
		schema.DimCustomer = append(schema.DimCustomer, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	path = filepath.Join(dir, "dim_product.csv")
	err = eachRecord(path, func(h header, rec []string) error {
		p := &strictRecord{h: h, rec: rec}
		row := model.CleanProduct{
			ProductID:     p.int64("product_id"),
			ProductName:   p.text("product_name"),
			Category:      p.text("category"),
			UnitPrice:     p.decimal("unit_price"),
			Supplier:      p.text("supplier"),
			StockQuantity: p.int64Ptr("stock_quantity"),
			Rating:        p.float64Ptr("rating"),
		}
		if p.err != nil {
			return fmt.Errorf("%s: %w", path, p.err)
		}
		schema.DimProduct = append(schema.DimProduct, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	path = filepath.Join(dir, "fact_sales.csv")
	err = eachRecord(path, func(h header, rec []string) error {
		p := &strictRecord{h: h, rec: rec}
		row := model.CleanSale{
			SaleID:               p.int64("sale_id"),
			CustomerID:           p.int64("customer_id"),
			ProductID:            p.int64("product_id"),
			Date:                 p.date("sale_date"),
			Quantity:             p.int64("quantity"),
			UnitPrice:            p.decimal("unit_price"),
			DiscountPercent:      p.decimal("discount_percent"),
			AmountBeforeDiscount: p.decimal("amount_before_discount"),
			DiscountAmount:       p.decimal("discount_amount"),
			TotalAmount:          p.decimal("total_amount"),
			PaymentMethod:        p.text("payment_method"),
			Status:               p.text("status"),
		}
		if p.err != nil {
			return fmt.Errorf("%s: %w", path, p.err)
		}
		schema.FactSales = append(schema.FactSales, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return schema, nil
}
