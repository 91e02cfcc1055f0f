package cleaner

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dataforge/sales-etl/internal/model"
)

var hundred = decimal.NewFromInt(100)

// References carries the admissible key sets and the unit-price lookup
// produced by the dimension cleaners. The sale cleaner cannot run until
// both dimensions are finalized.
type References struct {
	ValidCustomerIDs map[int64]struct{}
	ValidProductIDs  map[int64]struct{}
	UnitPrices       map[int64]decimal.Decimal
}

// BuildReferences derives the reference sets from the cleaned dimensions.
func BuildReferences(customers []model.CleanCustomer, products []model.CleanProduct) References {
	refs := References{
		ValidCustomerIDs: make(map[int64]struct{}, len(customers)),
		ValidProductIDs:  make(map[int64]struct{}, len(products)),
		UnitPrices:       make(map[int64]decimal.Decimal, len(products)),
	}
	for _, c := range customers {
		refs.ValidCustomerIDs[c.CustomerID] = struct{}{}
	}
	for _, p := range products {
		refs.ValidProductIDs[p.ProductID] = struct{}{}
		refs.UnitPrices[p.ProductID] = p.UnitPrice
	}
	return refs
}

// CleanSales validates the raw sales dataset against the cleaned dimensions
// and computes the derived monetary metrics for surviving rows.
//
// Checks run cheapest-rejection-first: duplicate sale_id, orphaned
// customer_id, orphaned product_id, non-positive quantity, discount policy,
// missing or future date. A row removed upstream cascades here as an orphan
// FK rejection even if the sale itself looks valid. Money is computed in
// fixed-point decimal, rounded half-up to 2 places.
func CleanSales(rows []model.RawSale, refs References, opts Options) ([]model.CleanSale, *model.Report) {
	report := model.NewReport("sales")
	report.RawCount = len(rows)

	unique := make([]model.RawSale, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		if row.SaleID == nil {
			report.Reject(model.ReasonMissingKey)
			continue
		}
		if _, dup := seen[*row.SaleID]; dup {
			report.Reject(model.ReasonDuplicateKey)
			continue
		}
		seen[*row.SaleID] = struct{}{}
		unique = append(unique, row)
	}

	now := opts.processingDate()
	policy := opts.discountPolicy()
	clean, reasons := classify(unique, opts.Workers, func(row model.RawSale) (model.CleanSale, model.Reason, bool) {
		if row.CustomerID == nil {
			return model.CleanSale{}, model.ReasonOrphanCustomerFK, false
		}
		if _, ok := refs.ValidCustomerIDs[*row.CustomerID]; !ok {
			return model.CleanSale{}, model.ReasonOrphanCustomerFK, false
		}
		if row.ProductID == nil {
			return model.CleanSale{}, model.ReasonOrphanProductFK, false
		}
		if _, ok := refs.ValidProductIDs[*row.ProductID]; !ok {
			return model.CleanSale{}, model.ReasonOrphanProductFK, false
		}
		if row.Quantity == nil || *row.Quantity <= 0 {
			return model.CleanSale{}, model.ReasonInvalidQuantity, false
		}
		discount, ok := resolveDiscount(row.DiscountPercent, policy)
		if !ok {
			return model.CleanSale{}, model.ReasonInvalidDiscount, false
		}
		if row.Date.IsZero() || row.Date.After(now) {
			return model.CleanSale{}, model.ReasonInvalidDate, false
		}

		// Guaranteed present after the product FK check.
		unitPrice := refs.UnitPrices[*row.ProductID]
		amount := unitPrice.Mul(decimal.NewFromInt(*row.Quantity)).Round(2)
		discountAmt := amount.Mul(discount).Div(hundred).Round(2)
		total := amount.Sub(discountAmt)

		return model.CleanSale{
			SaleID:               *row.SaleID,
			CustomerID:           *row.CustomerID,
			ProductID:            *row.ProductID,
			Date:                 row.Date,
			Quantity:             *row.Quantity,
			UnitPrice:            unitPrice,
			DiscountPercent:      discount,
			AmountBeforeDiscount: amount,
			DiscountAmount:       discountAmt,
			TotalAmount:          total,
			PaymentMethod:        strings.TrimSpace(row.PaymentMethod),
			Status:               strings.TrimSpace(row.Status),
		}, "", true
	})
	for reason, n := range reasons {
		report.Rejections[reason] += n
	}
	report.CleanCount = len(clean)
	logReport(report)
	return clean, report
}

// resolveDiscount applies the configured discount policy. Null means no
// discount under either policy.
func resolveDiscount(pct *float64, policy DiscountPolicy) (decimal.Decimal, bool) {
	if pct == nil {
		return decimal.Zero, true
	}
	d := decimal.NewFromFloat(*pct)
	if d.IsNegative() || d.GreaterThan(hundred) {
		if policy == DiscountReject {
			return decimal.Zero, false
		}
		if d.IsNegative() {
			return decimal.Zero, true
		}
		return hundred, true
	}
	return d, true
}
