package cleaner

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dataforge/sales-etl/internal/model"
)

func testRefs() References {
	customers := []model.CleanCustomer{
		{CustomerID: 1}, {CustomerID: 2},
	}
	products := []model.CleanProduct{
		{ProductID: 101, UnitPrice: decimal.RequireFromString("20.00")},
		{ProductID: 102, UnitPrice: decimal.RequireFromString("7.99")},
	}
	return BuildReferences(customers, products)
}

func validSale(id int64) model.RawSale {
	return model.RawSale{
		SaleID:          i64(id),
		CustomerID:      i64(1),
		ProductID:       i64(101),
		Date:            testNow.AddDate(0, -1, 0),
		Quantity:        i64(3),
		DiscountPercent: f64(10),
		PaymentMethod:   "Credit Card",
		Status:          "Completed",
	}
}

func TestCleanSalesDerivedMetrics(t *testing.T) {
	// quantity=3 at unit_price=20.00 with a 10% discount.
	clean, report := CleanSales([]model.RawSale{validSale(1001)}, testRefs(), testOpts())

	if len(clean) != 1 {
		t.Fatalf("Expected 1 clean row, got %d", len(clean))
	}
	s := clean[0]
	if !s.AmountBeforeDiscount.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("Expected amount_before_discount 60.00, got %s", s.AmountBeforeDiscount)
	}
	if !s.DiscountAmount.Equal(decimal.RequireFromString("6.00")) {
		t.Errorf("Expected discount_amount 6.00, got %s", s.DiscountAmount)
	}
	if !s.TotalAmount.Equal(decimal.RequireFromString("54.00")) {
		t.Errorf("Expected total_amount 54.00, got %s", s.TotalAmount)
	}
	if report.Rejected() != 0 {
		t.Errorf("Expected no rejections, got %d", report.Rejected())
	}
}

func TestCleanSalesMonetaryIdentity(t *testing.T) {
	rows := []model.RawSale{}
	for i := int64(0); i < 50; i++ {
		row := validSale(2000 + i)
		if i%2 == 0 {
			row.ProductID = i64(102)
		}
		qty := i%7 + 1
		row.Quantity = &qty
		disc := float64(i % 21)
		row.DiscountPercent = &disc
		rows = append(rows, row)
	}

	clean, _ := CleanSales(rows, testRefs(), testOpts())

	if len(clean) != len(rows) {
		t.Fatalf("Expected %d clean rows, got %d", len(rows), len(clean))
	}
	for _, s := range clean {
		if !s.TotalAmount.Equal(s.AmountBeforeDiscount.Sub(s.DiscountAmount)) {
			t.Errorf("Sale %d: total %s != %s - %s",
				s.SaleID, s.TotalAmount, s.AmountBeforeDiscount, s.DiscountAmount)
		}
		if s.TotalAmount.IsNegative() {
			t.Errorf("Sale %d: negative total %s", s.SaleID, s.TotalAmount)
		}
	}
}

func TestCleanSalesOrphanCustomer(t *testing.T) {
	row := validSale(1001)
	row.CustomerID = i64(999)

	clean, report := CleanSales([]model.RawSale{row}, testRefs(), testOpts())

	if len(clean) != 0 {
		t.Fatalf("Expected 0 clean rows, got %d", len(clean))
	}
	if report.Rejections[model.ReasonOrphanCustomerFK] != 1 {
		t.Errorf("Expected 1 orphan_customer_fk rejection, got %d",
			report.Rejections[model.ReasonOrphanCustomerFK])
	}
}

func TestCleanSalesOrphanProduct(t *testing.T) {
	row := validSale(1001)
	row.ProductID = i64(999)

	clean, report := CleanSales([]model.RawSale{row}, testRefs(), testOpts())

	if len(clean) != 0 {
		t.Fatalf("Expected 0 clean rows, got %d", len(clean))
	}
	if report.Rejections[model.ReasonOrphanProductFK] != 1 {
		t.Errorf("Expected 1 orphan_product_fk rejection, got %d",
			report.Rejections[model.ReasonOrphanProductFK])
	}
}

func TestCleanSalesInvalidQuantity(t *testing.T) {
	tests := []struct {
		name string
		qty  *int64
	}{
		{"negative", i64(-3)},
		{"zero", i64(0)},
		{"missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validSale(1001)
			row.Quantity = tt.qty

			clean, report := CleanSales([]model.RawSale{row}, testRefs(), testOpts())

			if len(clean) != 0 {
				t.Fatalf("Expected 0 clean rows, got %d", len(clean))
			}
			if report.Rejections[model.ReasonInvalidQuantity] != 1 {
				t.Errorf("Expected 1 invalid_quantity rejection, got %d",
					report.Rejections[model.ReasonInvalidQuantity])
			}
		})
	}
}

func TestCleanSalesFutureDate(t *testing.T) {
	row := validSale(1001)
	row.Date = testNow.AddDate(0, 0, 1)

	clean, report := CleanSales([]model.RawSale{row}, testRefs(), testOpts())

	if len(clean) != 0 {
		t.Fatalf("Expected 0 clean rows, got %d", len(clean))
	}
	if report.Rejections[model.ReasonInvalidDate] != 1 {
		t.Errorf("Expected 1 invalid_date rejection, got %d",
			report.Rejections[model.ReasonInvalidDate])
	}
}

func TestCleanSalesMissingDate(t *testing.T) {
	row := validSale(1001)
	row.Date = time.Time{}

	clean, report := CleanSales([]model.RawSale{row}, testRefs(), testOpts())

	if len(clean) != 0 {
		t.Fatalf("Expected 0 clean rows, got %d", len(clean))
	}
	if report.Rejections[model.ReasonInvalidDate] != 1 {
		t.Errorf("Expected 1 invalid_date rejection, got %d",
			report.Rejections[model.ReasonInvalidDate])
	}
}

func TestCleanSalesDuplicateKeyFirstWins(t *testing.T) {
	first := validSale(1001)
	second := validSale(1001)
	second.Quantity = i64(5)

	clean, report := CleanSales([]model.RawSale{first, second}, testRefs(), testOpts())

	if len(clean) != 1 {
		t.Fatalf("Expected 1 clean row, got %d", len(clean))
	}
	if clean[0].Quantity != 3 {
		t.Errorf("Expected first occurrence (quantity 3) to win, got %d", clean[0].Quantity)
	}
	if report.Rejections[model.ReasonDuplicateKey] != 1 {
		t.Errorf("Expected 1 duplicate_key rejection, got %d",
			report.Rejections[model.ReasonDuplicateKey])
	}
}

func TestCleanSalesDiscountClampPolicy(t *testing.T) {
	over := validSale(1001)
	over.DiscountPercent = f64(120)
	under := validSale(1002)
	under.DiscountPercent = f64(-5)
	null := validSale(1003)
	null.DiscountPercent = nil

	opts := testOpts()
	opts.DiscountPolicy = DiscountClamp
	clean, report := CleanSales([]model.RawSale{over, under, null}, testRefs(), opts)

	if len(clean) != 3 {
		t.Fatalf("Expected 3 clean rows under clamp policy, got %d", len(clean))
	}
	if !clean[0].DiscountPercent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected overshoot clamped to 100, got %s", clean[0].DiscountPercent)
	}
	if !clean[1].DiscountPercent.IsZero() {
		t.Errorf("Expected negative discount clamped to 0, got %s", clean[1].DiscountPercent)
	}
	if !clean[2].DiscountPercent.IsZero() {
		t.Errorf("Expected null discount treated as 0, got %s", clean[2].DiscountPercent)
	}
	if report.Rejected() != 0 {
		t.Errorf("Expected no rejections under clamp policy, got %d", report.Rejected())
	}
	// A fully discounted sale still satisfies the monetary identity.
	if !clean[0].TotalAmount.IsZero() {
		t.Errorf("Expected zero total at 100%% discount, got %s", clean[0].TotalAmount)
	}
}

func TestCleanSalesDiscountRejectPolicy(t *testing.T) {
	over := validSale(1001)
	over.DiscountPercent = f64(120)
	ok := validSale(1002)

	opts := testOpts()
	opts.DiscountPolicy = DiscountReject
	clean, report := CleanSales([]model.RawSale{over, ok}, testRefs(), opts)

	if len(clean) != 1 {
		t.Fatalf("Expected 1 clean row under reject policy, got %d", len(clean))
	}
	if report.Rejections[model.ReasonInvalidDiscount] != 1 {
		t.Errorf("Expected 1 invalid_discount rejection, got %d",
			report.Rejections[model.ReasonInvalidDiscount])
	}
}

func TestCleanSalesDeterministicAcrossWorkers(t *testing.T) {
	rows := make([]model.RawSale, 0, 500)
	for i := int64(0); i < 500; i++ {
		row := validSale(1001 + i%450) // some duplicate IDs
		switch i % 11 {
		case 3:
			row.CustomerID = i64(999)
		case 5:
			row.Quantity = i64(-1)
		case 7:
			row.Date = time.Time{}
		}
		rows = append(rows, row)
	}

	serial := testOpts()
	serial.Workers = 1
	parallel := testOpts()
	parallel.Workers = 8

	cleanSerial, reportSerial := CleanSales(rows, testRefs(), serial)
	cleanParallel, reportParallel := CleanSales(rows, testRefs(), parallel)

	if len(cleanSerial) != len(cleanParallel) {
		t.Fatalf("Worker counts disagree: %d vs %d rows", len(cleanSerial), len(cleanParallel))
	}
	for i := range cleanSerial {
		if cleanSerial[i].SaleID != cleanParallel[i].SaleID {
			t.Fatalf("Row %d: order differs across worker counts (%d vs %d)",
				i, cleanSerial[i].SaleID, cleanParallel[i].SaleID)
		}
	}
	for reason, n := range reportSerial.Rejections {
		if reportParallel.Rejections[reason] != n {
			t.Errorf("Rejection %s differs: %d vs %d", reason, n, reportParallel.Rejections[reason])
		}
	}
}
