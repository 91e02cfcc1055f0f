package datagen

import (
	"testing"
	"time"
)

func testSampleConfig() SampleConfig {
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return SampleConfig{
		Customers: 200,
		Products:  50,
		Sales:     2000,
		Seed:      42,
		Start:     end.AddDate(-2, 0, 0),
		End:       end,
	}
}

func TestSamplerRowCounts(t *testing.T) {
	cfg := testSampleConfig()
	s := NewSampler(cfg)

	customers := s.Customers()
	products := s.Products()
	sales := s.Sales(customers, products)

	// Duplicate-key injection can push counts slightly above the target.
	if len(customers) < cfg.Customers {
		t.Errorf("Expected at least %d customers, got %d", cfg.Customers, len(customers))
	}
	if len(products) < cfg.Products {
		t.Errorf("Expected at least %d products, got %d", cfg.Products, len(products))
	}
	if len(sales) != cfg.Sales {
		t.Errorf("Expected %d sales, got %d", cfg.Sales, len(sales))
	}
}

func TestSamplerReproducible(t *testing.T) {
	a := NewSampler(testSampleConfig())
	b := NewSampler(testSampleConfig())

	customersA := a.Customers()
	customersB := b.Customers()

	if len(customersA) != len(customersB) {
		t.Fatalf("Same seed produced different row counts: %d vs %d",
			len(customersA), len(customersB))
	}
	for i := range customersA {
		ca, cb := customersA[i], customersB[i]
		if *ca.CustomerID != *cb.CustomerID || ca.Name != cb.Name || ca.Country != cb.Country {
			t.Fatalf("Row %d differs between identically seeded samplers: %+v vs %+v", i, ca, cb)
		}
	}
}

func TestSamplerInjectsDefects(t *testing.T) {
	cfg := testSampleConfig()
	cfg.Sales = 10000
	s := NewSampler(cfg)

	customers := s.Customers()
	products := s.Products()
	sales := s.Sales(customers, products)

	missingEmail := 0
	for _, c := range customers {
		if c.Email == nil {
			missingEmail++
		}
	}
	if missingEmail == 0 {
		t.Error("Expected some customers with missing emails")
	}

	negativeStock := 0
	for _, p := range products {
		if p.StockQuantity != nil && *p.StockQuantity < 0 {
			negativeStock++
		}
	}
	if negativeStock == 0 {
		t.Error("Expected some products with negative stock")
	}

	missingDates, negativeQty := 0, 0
	for _, sl := range sales {
		if sl.Date.IsZero() {
			missingDates++
		}
		if sl.Quantity != nil && *sl.Quantity < 0 {
			negativeQty++
		}
	}
	if missingDates == 0 {
		t.Error("Expected some sales with missing dates")
	}
	if negativeQty == 0 {
		t.Error("Expected some sales with negative quantities")
	}
}
