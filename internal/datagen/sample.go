package datagen

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dataforge/sales-etl/internal/logging"
	"github.com/dataforge/sales-etl/internal/model"
)

// Reference vocabularies for the sample datasets.
var (
	countries = []string{"Mexico", "Spain", "Argentina", "Colombia", "Chile", "Peru", "USA", "Brazil"}

	segments       = []string{"Premium", "Standard", "Basic"}
	segmentWeights = []int{20, 50, 30}

	categories = map[string][]string{
		"Electronics": {"Laptop", "Smartphone", "Tablet", "Headphones", "Smartwatch", "Camera", "Speaker", "Monitor"},
		"Clothing":    {"Jacket", "Jeans", "T-Shirt", "Sneakers", "Dress", "Sweater", "Shorts", "Boots"},
		"Home":        {"Lamp", "Chair", "Desk", "Sofa", "Table", "Rug", "Curtains", "Bookshelf"},
		"Sports":      {"Running Shoes", "Yoga Mat", "Dumbbell", "Bicycle", "Tennis Racket", "Soccer Ball"},
		"Books":       {"Fiction Novel", "Programming Book", "Cookbook", "Biography", "Self-Help"},
		"Beauty":      {"Perfume", "Skincare Set", "Makeup Kit", "Hair Dryer", "Electric Razor"},
	}
	categoryNames = []string{"Electronics", "Clothing", "Home", "Sports", "Books", "Beauty"}

	priceRanges = map[string][2]float64{
		"Electronics": {200, 2000},
		"Clothing":    {30, 300},
		"Home":        {50, 800},
		"Sports":      {25, 500},
		"Books":       {10, 50},
		"Beauty":      {20, 200},
	}

	brands = []string{"Samsung", "Apple", "Sony", "Nike", "Adidas", "Dell", "HP", "Canon",
		"LG", "Microsoft", "Bose", "JBL", "Puma", "Reebok", "Logitech"}

	paymentMethods = []string{"Credit Card", "Debit Card", "PayPal", "Cash"}
	paymentWeights = []int{50, 25, 15, 10}

	statuses      = []string{"Completed", "Shipped", "Processing", "Cancelled"}
	statusWeights = []int{85, 10, 3, 2}
)

// SampleConfig controls sample dataset generation.
type SampleConfig struct {
	Customers int
	Products  int
	Sales     int
	Seed      uint64
	Start     time.Time
	End       time.Time
}

// DefaultSampleConfig returns the default dataset sizes and a two-year
// transaction window ending at the current date.
func DefaultSampleConfig() SampleConfig {
	now := time.Now().Truncate(24 * time.Hour)
	return SampleConfig{
		Customers: 1000,
		Products:  150,
		Sales:     50000,
		Seed:      42,
		Start:     now.AddDate(-2, 0, 0),
		End:       now,
	}
}

// Sampler generates the three raw datasets with deliberate defects:
// missing and malformed emails, duplicate keys, negative prices and stock,
// out-of-range ratings and discounts, orphaned foreign keys, negative
// quantities, and missing or future dates. Defect rates follow the
// sample-data profile the pipeline is tested against.
type Sampler struct {
	faker *Faker
	cfg   SampleConfig
}

// NewSampler creates a Sampler seeded from the config.
func NewSampler(cfg SampleConfig) *Sampler {
	return &Sampler{
		faker: NewFakerWithSeed(cfg.Seed),
		cfg:   cfg,
	}
}

// Customers generates the raw customer dataset.
func (s *Sampler) Customers() []model.RawCustomer {
	f := s.faker
	rows := make([]model.RawCustomer, 0, s.cfg.Customers)
	for i := 1; i <= s.cfg.Customers; i++ {
		id := int64(i)
		regDate := f.DateRange(s.cfg.Start, s.cfg.End)

		var email *string
		if !f.Chance(0.03) {
			addr := f.Email()
			if f.Chance(0.005) {
				addr = f.Username() + "@invalid" // missing TLD
			}
			email = &addr
		}
		// Duplicate emails are realistic and tolerated downstream.
		if len(rows) > 10 && f.Chance(0.01) {
			email = rows[f.Int(0, len(rows)-1)].Email
		}

		var city *string
		if !f.Chance(0.01) {
			c := f.City()
			city = &c
		}

		if f.Chance(0.005) {
			regDate = s.cfg.End.AddDate(0, f.Int(1, 12), 0)
		}

		rows = append(rows, model.RawCustomer{
			CustomerID:       &id,
			Name:             f.Name(),
			Email:            email,
			Country:          Choose(f, countries),
			RegistrationDate: regDate,
			Segment:          ChooseWeighted(f, segments, segmentWeights),
			City:             city,
		})

		// Occasional duplicate customer_id from re-imports.
		if len(rows) > 10 && f.Chance(0.005) {
			dup := rows[f.Int(0, len(rows)-1)]
			rows = append(rows, dup)
		}
	}
	logging.Info().Int("rows", len(rows)).Msg("Generated customers")
	return rows
}

// Products generates the raw product dataset. IDs start at 101.
func (s *Sampler) Products() []model.RawProduct {
	f := s.faker
	rows := make([]model.RawProduct, 0, s.cfg.Products)
	for i := 0; i < s.cfg.Products; i++ {
		id := int64(101 + i)
		category := Choose(f, categoryNames)
		bounds := priceRanges[category]
		price := decimal.NewFromFloat(f.Float64(bounds[0], bounds[1])).Round(2)
		if f.Chance(0.005) {
			price = price.Neg()
		}

		var supplier *string
		brand := Choose(f, brands)
		if !f.Chance(0.01) {
			supplier = &brand
		}

		var stock int64
		if f.Chance(0.02) {
			stock = f.Int64(-10, -1)
		} else {
			stock = f.Int64(10, 500)
		}

		rating := f.Float64(3.5, 5.0)
		if f.Chance(0.005) {
			rating = f.Float64(5.5, 10.0)
		}

		rows = append(rows, model.RawProduct{
			ProductID:     &id,
			ProductName:   brand + " " + Choose(f, categories[category]),
			Category:      category,
			UnitPrice:     &price,
			Supplier:      supplier,
			StockQuantity: &stock,
			Rating:        &rating,
		})

		if len(rows) > 5 && f.Chance(0.005) {
			dup := rows[f.Int(0, len(rows)-1)]
			rows = append(rows, dup)
		}
	}
	logging.Info().Int("rows", len(rows)).Msg("Generated products")
	return rows
}

// Sales generates the raw sales dataset against the generated customers
// and products. IDs start at 1001.
func (s *Sampler) Sales(customers []model.RawCustomer, products []model.RawProduct) []model.RawSale {
	f := s.faker

	segmentByID := make(map[int64]string, len(customers))
	customerIDs := make([]int64, 0, len(customers))
	for _, c := range customers {
		if c.CustomerID == nil {
			continue
		}
		customerIDs = append(customerIDs, *c.CustomerID)
		segmentByID[*c.CustomerID] = c.Segment
	}
	productIDs := make([]int64, 0, len(products))
	for _, p := range products {
		if p.ProductID != nil {
			productIDs = append(productIDs, *p.ProductID)
		}
	}

	rows := make([]model.RawSale, 0, s.cfg.Sales)
	for i := 0; i < s.cfg.Sales; i++ {
		saleID := int64(1001 + i)
		customerID := Choose(f, customerIDs)
		productID := Choose(f, productIDs)
		date := f.DateRange(s.cfg.Start, s.cfg.End)

		// Premium customers buy more items per transaction.
		var quantity int64
		switch segmentByID[customerID] {
		case "Premium":
			quantity = int64(ChooseWeighted(f, []int{1, 2, 3, 4, 5}, []int{30, 30, 20, 10, 10}))
		case "Standard":
			quantity = int64(ChooseWeighted(f, []int{1, 2, 3}, []int{50, 30, 20}))
		default:
			quantity = int64(ChooseWeighted(f, []int{1, 2}, []int{70, 30}))
		}

		// Deeper discounts in the holiday season.
		var discount float64
		if m := date.Month(); m == time.November || m == time.December {
			discount = float64(ChooseWeighted(f, []int{0, 5, 10, 15, 20}, []int{30, 20, 20, 20, 10}))
		} else {
			discount = float64(ChooseWeighted(f, []int{0, 5, 10}, []int{60, 30, 10}))
		}

		if f.Chance(0.005) {
			customerID = 9999 // orphaned FK
		}
		if f.Chance(0.005) {
			productID = 9999
		}
		if f.Chance(0.01) {
			quantity = -quantity
		}
		if f.Chance(0.005) {
			discount = float64(f.Int(101, 150))
		}
		hasDate := !f.Chance(0.02)
		if hasDate && f.Chance(0.01) {
			date = s.cfg.End.AddDate(0, f.Int(1, 24), 0)
		}
		if !hasDate {
			date = time.Time{}
		}
		if i > 1000 && f.Chance(0.005) {
			saleID = *rows[f.Int(0, len(rows)-1)].SaleID
		}

		rows = append(rows, model.RawSale{
			SaleID:          &saleID,
			CustomerID:      &customerID,
			ProductID:       &productID,
			Date:            date,
			Quantity:        &quantity,
			DiscountPercent: &discount,
			PaymentMethod:   ChooseWeighted(f, paymentMethods, paymentWeights),
			Status:          ChooseWeighted(f, statuses, statusWeights),
		})
	}
	logging.Info().Int("rows", len(rows)).Msg("Generated sales")
	return rows
}
