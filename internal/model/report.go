package model

import "time"

// Reason identifies why a row was rejected.
type Reason string

// Rejection reasons recorded by the cleaners and surfaced in the
// quality report.
const (
	ReasonMissingKey       Reason = "missing_key"
	ReasonDuplicateKey     Reason = "duplicate_key"
	ReasonInvalidEmail     Reason = "invalid_email"
	ReasonFutureDate       Reason = "future_date"
	ReasonInvalidPrice     Reason = "invalid_price"
	ReasonInvalidRating    Reason = "invalid_rating"
	ReasonInvalidStock     Reason = "invalid_stock"
	ReasonOrphanCustomerFK Reason = "orphan_customer_fk"
	ReasonOrphanProductFK  Reason = "orphan_product_fk"
	ReasonInvalidQuantity  Reason = "invalid_quantity"
	ReasonInvalidDiscount  Reason = "invalid_discount"
	ReasonInvalidDate      Reason = "invalid_date"
)

// Report accumulates per-dataset cleaning statistics. Rejection counts are
// a multiset keyed by reason, so partial reports from parallel workers can
// be merged in any order.
type Report struct {
	Dataset    string         `json:"dataset"`
	RawCount   int            `json:"raw_count"`
	CleanCount int            `json:"clean_count"`
	Rejections map[Reason]int `json:"rejections"`
}

// NewReport creates an empty report for the named dataset.
func NewReport(dataset string) *Report {
	return &Report{
		Dataset:    dataset,
		Rejections: make(map[Reason]int),
	}
}

// Reject records one rejected row.
func (r *Report) Reject(reason Reason) {
	r.Rejections[reason]++
}

// Rejected returns the total number of rejected rows.
func (r *Report) Rejected() int {
	total := 0
	for _, n := range r.Rejections {
		total += n
	}
	return total
}

// Merge folds another report's rejection counts into this one.
// Merging is commutative and associative.
func (r *Report) Merge(other *Report) {
	for reason, n := range other.Rejections {
		r.Rejections[reason] += n
	}
}

// QualityReport is the machine-readable per-run summary, the only
// externally visible artifact besides the star schema itself.
type QualityReport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Datasets    map[string]*Report `json:"datasets"`
}

// NewQualityReport assembles a quality report from the stage reports.
func NewQualityReport(now time.Time, reports ...*Report) *QualityReport {
	qr := &QualityReport{
		GeneratedAt: now,
		Datasets:    make(map[string]*Report, len(reports)),
	}
	for _, r := range reports {
		qr.Datasets[r.Dataset] = r
	}
	return qr
}
