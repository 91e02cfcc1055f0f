package csvio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dataforge/sales-etl/internal/model"
)

// writeCSV writes a complete table to path via a temp file and rename, so a
// failed run never leaves a partially written output behind.
func writeCSV(path string, header []string, rows [][]string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

func fmtInt64Ptr(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func fmtFloat64Ptr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtStringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// WriteRawDatasets writes the three generated raw datasets to dir as
// customers.csv, products.csv, and sales.csv.
func WriteRawDatasets(dir string, customers []model.RawCustomer, products []model.RawProduct, sales []model.RawSale) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	customerRows := make([][]string, 0, len(customers))
	for _, c := range customers {
		regDate := ""
		if !c.RegistrationDate.IsZero() {
			regDate = c.RegistrationDate.Format(model.DateFormat)
		}
		customerRows = append(customerRows, []string{
			fmtInt64Ptr(c.CustomerID), c.Name, fmtStringPtr(c.Email), c.Country,
			regDate, c.Segment, fmtStringPtr(c.City),
		})
	}
	if err := writeCSV(filepath.Join(dir, "customers.csv"),
		[]string{"customer_id", "name", "email", "country", "registration_date", "segment", "city"},
		customerRows); err != nil {
		return err
	}

	productRows := make([][]string, 0, len(products))
	for _, p := range products {
		price := ""
		if p.UnitPrice != nil {
			price = p.UnitPrice.StringFixed(2)
		}
		productRows = append(productRows, []string{
			fmtInt64Ptr(p.ProductID), p.ProductName, p.Category, price,
			fmtStringPtr(p.Supplier), fmtInt64Ptr(p.StockQuantity), fmtFloat64Ptr(p.Rating),
		})
	}
	if err := writeCSV(filepath.Join(dir, "products.csv"),
		[]string{"product_id", "product_name", "category", "unit_price", "supplier", "stock_quantity", "rating"},
		productRows); err != nil {
		return err
	}

	saleRows := make([][]string, 0, len(sales))
	for _, s := range sales {
		saleDate := ""
		if !s.Date.IsZero() {
			saleDate = s.Date.Format(model.DateFormat)
		}
		saleRows = append(saleRows, []string{
			fmtInt64Ptr(s.SaleID), fmtInt64Ptr(s.CustomerID), fmtInt64Ptr(s.ProductID),
			saleDate, fmtInt64Ptr(s.Quantity), fmtFloat64Ptr(s.DiscountPercent),
			s.PaymentMethod, s.Status,
		})
	}
	return writeCSV(filepath.Join(dir, "sales.csv"),
		[]string{"sale_id", "customer_id", "product_id", "date", "quantity", "discount_percent", "payment_method", "status"},
		saleRows)
}

// WriteStarSchema writes dim_customer.csv, dim_product.csv, and
// fact_sales.csv to dir.
func WriteStarSchema(dir string, schema *model.StarSchema) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	customerRows := make([][]string, 0, len(schema.DimCustomer))
	for _, c := range schema.DimCustomer {
		regDate := ""
		if !c.RegistrationDate.IsZero() {
			regDate = c.RegistrationDate.Format(model.DateFormat)
		}
		customerRows = append(customerRows, []string{
			strconv.FormatInt(c.CustomerID, 10), c.Name, fmtStringPtr(c.Email),
			c.Country, regDate, c.Segment, c.City,
		})
	}
	if err := writeCSV(filepath.Join(dir, "dim_customer.csv"),
		[]string{"customer_id", "name", "email", "country", "registration_date", "segment", "city"},
		customerRows); err != nil {
		return err
	}

	productRows := make([][]string, 0, len(schema.DimProduct))
	for _, p := range schema.DimProduct {
		productRows = append(productRows, []string{
			strconv.FormatInt(p.ProductID, 10), p.ProductName, p.Category,
			p.UnitPrice.StringFixed(2), p.Supplier,
			fmtInt64Ptr(p.StockQuantity), fmtFloat64Ptr(p.Rating),
		})
	}
	if err := writeCSV(filepath.Join(dir, "dim_product.csv"),
		[]string{"product_id", "product_name", "category", "unit_price", "supplier", "stock_quantity", "rating"},
		productRows); err != nil {
		return err
	}

	factRows := make([][]string, 0, len(schema.FactSales))
	for _, s := range schema.FactSales {
		factRows = append(factRows, []string{
			strconv.FormatInt(s.SaleID, 10),
			strconv.FormatInt(s.CustomerID, 10),
			strconv.FormatInt(s.ProductID, 10),
			s.Date.Format(model.DateFormat),
			strconv.FormatInt(s.Quantity, 10),
			s.UnitPrice.StringFixed(2),
			s.DiscountPercent.StringFixed(2),
			s.AmountBeforeDiscount.StringFixed(2),
			s.DiscountAmount.StringFixed(2),
			s.TotalAmount.StringFixed(2),
			s.PaymentMethod,
			s.Status,
		})
	}
	return writeCSV(filepath.Join(dir, "fact_sales.csv"),
		[]string{"sale_id", "customer_id", "product_id", "sale_date", "quantity", "unit_price",
			"discount_percent", "amount_before_discount", "discount_amount", "total_amount",
			"payment_method", "status"},
		factRows)
}

// WriteQualityReport writes the machine-readable run summary as JSON.
func WriteQualityReport(path string, report *model.QualityReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode quality report: %w", err)
	}
	data = append(data, '\n')
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}
