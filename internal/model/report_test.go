package model

import (
	"testing"
	"time"
)

func TestReportRejected(t *testing.T) {
	r := NewReport("customers")
	r.Reject(ReasonInvalidEmail)
	r.Reject(ReasonInvalidEmail)
	r.Reject(ReasonDuplicateKey)

	if got := r.Rejected(); got != 3 {
		t.Errorf("Expected 3 rejected, got %d", got)
	}
	if r.Rejections[ReasonInvalidEmail] != 2 {
		t.Errorf("Expected 2 invalid_email, got %d", r.Rejections[ReasonInvalidEmail])
	}
}

func TestReportMergeCommutative(t *testing.T) {
	build := func(reasons ...Reason) *Report {
		r := NewReport("sales")
		for _, reason := range reasons {
			r.Reject(reason)
		}
		return r
	}

	a := build(ReasonInvalidDate, ReasonInvalidDate, ReasonOrphanCustomerFK)
	b := build(ReasonInvalidDate, ReasonInvalidQuantity)

	ab := build(ReasonInvalidDate, ReasonInvalidDate, ReasonOrphanCustomerFK)
	ab.Merge(b)
	ba := build(ReasonInvalidDate, ReasonInvalidQuantity)
	ba.Merge(a)

	for _, reason := range []Reason{ReasonInvalidDate, ReasonOrphanCustomerFK, ReasonInvalidQuantity} {
		if ab.Rejections[reason] != ba.Rejections[reason] {
			t.Errorf("Merge not commutative for %s: %d vs %d",
				reason, ab.Rejections[reason], ba.Rejections[reason])
		}
	}
	if ab.Rejections[ReasonInvalidDate] != 3 {
		t.Errorf("Expected 3 invalid_date after merge, got %d", ab.Rejections[ReasonInvalidDate])
	}
}

func TestNewQualityReport(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	customers := NewReport("customers")
	sales := NewReport("sales")

	qr := NewQualityReport(now, customers, sales)

	if !qr.GeneratedAt.Equal(now) {
		t.Errorf("Expected GeneratedAt %v, got %v", now, qr.GeneratedAt)
	}
	if len(qr.Datasets) != 2 {
		t.Fatalf("Expected 2 datasets, got %d", len(qr.Datasets))
	}
	if qr.Datasets["customers"] != customers {
		t.Error("Expected customers report to be indexed by dataset name")
	}
}
