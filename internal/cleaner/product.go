package cleaner

import (
	"strings"

	"github.com/dataforge/sales-etl/internal/model"
)

// CleanProducts validates the raw product dataset.
//
// Rules, in order: missing product_id, duplicate product_id (first
// occurrence wins), unit_price <= 0, rating outside [0,5], negative stock.
// Out-of-range ratings and stock are rejected, not clamped: silently
// altering recorded values would corrupt downstream revenue and inventory
// figures. Null rating and null stock pass through.
func CleanProducts(rows []model.RawProduct, opts Options) ([]model.CleanProduct, *model.Report) {
	report := model.NewReport("products")
	report.RawCount = len(rows)

	unique := make([]model.RawProduct, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		if row.ProductID == nil {
			report.Reject(model.ReasonMissingKey)
			continue
		}
		if _, dup := seen[*row.ProductID]; dup {
			report.Reject(model.ReasonDuplicateKey)
			continue
		}
		seen[*row.ProductID] = struct{}{}
		unique = append(unique, row)
	}

	clean, reasons := classify(unique, opts.Workers, func(row model.RawProduct) (model.CleanProduct, model.Reason, bool) {
		if row.UnitPrice == nil || !row.UnitPrice.IsPositive() {
			return model.CleanProduct{}, model.ReasonInvalidPrice, false
		}
		if row.Rating != nil && (*row.Rating < 0 || *row.Rating > 5) {
			return model.CleanProduct{}, model.ReasonInvalidRating, false
		}
		if row.StockQuantity != nil && *row.StockQuantity < 0 {
			return model.CleanProduct{}, model.ReasonInvalidStock, false
		}
		return model.CleanProduct{
			ProductID:     *row.ProductID,
			ProductName:   strings.TrimSpace(row.ProductName),
			Category:      strings.TrimSpace(row.Category),
			UnitPrice:     *row.UnitPrice,
			Supplier:      fillUnknown(row.Supplier),
			StockQuantity: row.StockQuantity,
			Rating:        row.Rating,
		}, "", true
	})
	for reason, n := range reasons {
		report.Rejections[reason] += n
	}
	report.CleanCount = len(clean)
	logReport(report)
	return clean, report
}
