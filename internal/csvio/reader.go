// Package csvio is the file collaborator for the cleaning core: it decodes
// raw CSV datasets into typed rows and encodes the star schema and quality
// report. The core itself never touches files.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dataforge/sales-etl/internal/model"
)

// header maps column names to record indexes.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	rec, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h := make(header, len(rec))
	for i, name := range rec {
		h[strings.TrimSpace(name)] = i
	}
	return h, nil
}

func (h header) get(rec []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// Field decoding is lenient on raw input: an empty or unparseable value
// becomes null and the cleaners decide what to do with the row. Only the
// cleaners reject rows; the reader never does.

func int64Ptr(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func float64Ptr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func decimalPtr(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &v
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func date(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(model.DateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func eachRecord(path string, fn func(header, []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows surface as empty fields, not errors
	h, err := readHeader(r)
	if err != nil {
		return err
	}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := fn(h, rec); err != nil {
			return err
		}
	}
}

// ReadCustomers decodes the raw customers dataset. Row order is preserved;
// it is the canonical ordering for first-occurrence deduplication.
func ReadCustomers(path string) ([]model.RawCustomer, error) {
	var rows []model.RawCustomer
	err := eachRecord(path, func(h header, rec []string) error {
		rows = append(rows, model.RawCustomer{
			CustomerID:       int64Ptr(h.get(rec, "customer_id")),
			Name:             h.get(rec, "name"),
			Email:            stringPtr(h.get(rec, "email")),
			Country:          h.get(rec, "country"),
			RegistrationDate: date(h.get(rec, "registration_date")),
			Segment:          h.get(rec, "segment"),
			City:             stringPtr(h.get(rec, "city")),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadProducts decodes the raw products dataset.
func ReadProducts(path string) ([]model.RawProduct, error) {
	var rows []model.RawProduct
	err := eachRecord(path, func(h header, rec []string) error {
		rows = append(rows, model.RawProduct{
			ProductID:     int64Ptr(h.get(rec, "product_id")),
			ProductName:   h.get(rec, "product_name"),
			Category:      h.get(rec, "category"),
			UnitPrice:     decimalPtr(h.get(rec, "unit_price")),
			Supplier:      stringPtr(h.get(rec, "supplier")),
			StockQuantity: int64Ptr(h.get(rec, "stock_quantity")),
			Rating:        float64Ptr(h.get(rec, "rating")),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadSales decodes the raw sales dataset.
func ReadSales(path string) ([]model.RawSale, error) {
	var rows []model.RawSale
	err := eachRecord(path, func(h header, rec []string) error {
		rows = append(rows, model.RawSale{
			SaleID:          int64Ptr(h.get(rec, "sale_id")),
			CustomerID:      int64Ptr(h.get(rec, "customer_id")),
			ProductID:       int64Ptr(h.get(rec, "product_id")),
			Date:            date(h.get(rec, "date")),
			Quantity:        int64Ptr(h.get(rec, "quantity")),
			DiscountPercent: float64Ptr(h.get(rec, "discount_percent")),
			PaymentMethod:   h.get(rec, "payment_method"),
			Status:          h.get(rec, "status"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
