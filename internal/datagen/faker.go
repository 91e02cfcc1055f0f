// Package datagen generates sample raw datasets with deliberate
// data-quality defects for exercising the cleaning pipeline.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker provides fake data generation using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// Name generates a random full name.
func (f *Faker) Name() string {
	return f.faker.Name()
}

// Email generates a random email address.
func (f *Faker) Email() string {
	return f.faker.Email()
}

// Username generates a random user name.
func (f *Faker) Username() string {
	return f.faker.Username()
}

// City generates a random city name.
func (f *Faker) City() string {
	return f.faker.City()
}

// DateRange generates a random date within a range.
func (f *Faker) DateRange(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Int64 generates a random int64 between min and max (inclusive).
func (f *Faker) Int64(min, max int64) int64 {
	return int64(f.faker.IntRange(int(min), int(max)))
}

// Float64 generates a random float64 between min and max.
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Chance returns true with the given probability.
func (f *Faker) Chance(p float64) bool {
	return f.Float64(0, 1) < p
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}

// ChooseWeighted returns a random element based on weights.
func ChooseWeighted[T any](f *Faker, items []T, weights []int) T {
	if len(items) == 0 || len(weights) == 0 {
		var zero T
		return zero
	}

	totalWeight := 0
	for _, w := range weights {
		totalWeight += w
	}

	r := f.Int(1, totalWeight)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return items[i]
		}
	}

	return items[len(items)-1]
}
