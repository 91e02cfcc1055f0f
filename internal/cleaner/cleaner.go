// Package cleaner implements the validation and repair rules that turn the
// three raw datasets into star-schema-ready rows.
//
// Each cleaner is a pure function over typed rows: it returns the surviving
// rows plus a rejection report, and never mutates its input. Deduplication
// ("first occurrence wins") is resolved in a sequential pass over the source
// row order before rule evaluation fans out across workers, so results are
// identical for any worker count.
package cleaner

import (
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dataforge/sales-etl/internal/logging"
	"github.com/dataforge/sales-etl/internal/model"
)

// DiscountPolicy controls how out-of-range discount_percent values are
// handled by the sale cleaner.
type DiscountPolicy string

const (
	// DiscountClamp caps overshoots into [0,100] and treats nulls as 0.
	DiscountClamp DiscountPolicy = "clamp"

	// DiscountReject drops rows whose discount lies outside [0,100].
	// Nulls still become 0.
	DiscountReject DiscountPolicy = "reject"
)

// Options configures a cleaning stage.
type Options struct {
	// Now is the processing date; rows dated after it are rejected.
	// The zero value means the wall clock.
	Now time.Time

	// Workers is the fan-out width for per-row rule evaluation.
	// Zero or negative means GOMAXPROCS.
	Workers int

	// DiscountPolicy selects clamp or reject handling for discounts.
	// Empty means clamp.
	DiscountPolicy DiscountPolicy
}

// DefaultOptions returns Options with the wall clock and clamp policy.
func DefaultOptions() Options {
	return Options{Now: time.Now(), DiscountPolicy: DiscountClamp}
}

func (o Options) processingDate() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) discountPolicy() DiscountPolicy {
	if o.DiscountPolicy == "" {
		return DiscountClamp
	}
	return o.DiscountPolicy
}

// classify evaluates rows in contiguous chunks across workers and stitches
// the per-chunk results back in input order. Per-chunk rejection counts are
// merged commutatively, so the aggregate is order-independent.
func classify[R, C any](rows []R, workers int, eval func(R) (C, model.Reason, bool)) ([]C, map[model.Reason]int) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers <= 1 {
		return classifyChunk(rows, eval)
	}

	type chunkResult struct {
		rows    []C
		reasons map[model.Reason]int
	}
	results := make([]chunkResult, workers)
	chunkSize := (len(rows) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, len(rows))
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			clean, reasons := classifyChunk(rows[start:end], eval)
			results[w] = chunkResult{rows: clean, reasons: reasons}
		}(w, start, end)
	}
	wg.Wait()

	clean := make([]C, 0, len(rows))
	reasons := make(map[model.Reason]int)
	for _, res := range results {
		clean = append(clean, res.rows...)
		for reason, n := range res.reasons {
			reasons[reason] += n
		}
	}
	return clean, reasons
}

func classifyChunk[R, C any](rows []R, eval func(R) (C, model.Reason, bool)) ([]C, map[model.Reason]int) {
	clean := make([]C, 0, len(rows))
	reasons := make(map[model.Reason]int)
	for _, row := range rows {
		out, reason, ok := eval(row)
		if !ok {
			reasons[reason]++
			continue
		}
		clean = append(clean, out)
	}
	return clean, reasons
}

// titleCase normalizes a free-text name: collapse surrounding whitespace
// and title-case the words. This is a repair, not a rejection.
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

// fillUnknown substitutes missing free-text values with "Unknown".
func fillUnknown(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "Unknown"
	}
	return strings.TrimSpace(*s)
}

func logReport(r *model.Report) {
	evt := logging.Info().
		Str("dataset", r.Dataset).
		Int("raw", r.RawCount).
		Int("clean", r.CleanCount).
		Int("rejected", r.Rejected())
	for reason, n := range r.Rejections {
		evt = evt.Int("reject_"+string(reason), n)
	}
	evt.Msg("Dataset cleaned")
}
