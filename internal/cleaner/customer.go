package cleaner

import (
	"regexp"
	"strings"

	"github.com/dataforge/sales-etl/internal/model"
)

// emailPattern is the structural local@domain.tld check. It is deliberately
// permissive; the goal is catching data-entry garbage, not RFC compliance.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// CleanCustomers validates the raw customer dataset and returns the
// surviving dimension rows plus the rejection report.
//
// Rules, in order: missing customer_id, duplicate customer_id (first
// occurrence wins), malformed email (null is permitted), registration date
// after the processing date. Free-text fields are normalized, never
// rejected. Duplicate emails are tolerated; customer_id is the key.
func CleanCustomers(rows []model.RawCustomer, opts Options) ([]model.CleanCustomer, *model.Report) {
	report := model.NewReport("customers")
	report.RawCount = len(rows)

	unique := dedupCustomers(rows, report)

	now := opts.processingDate()
	clean, reasons := classify(unique, opts.Workers, func(row model.RawCustomer) (model.CleanCustomer, model.Reason, bool) {
		email, ok := normalizeEmail(row.Email)
		if !ok {
			return model.CleanCustomer{}, model.ReasonInvalidEmail, false
		}
		if row.RegistrationDate.After(now) {
			return model.CleanCustomer{}, model.ReasonFutureDate, false
		}
		return model.CleanCustomer{
			CustomerID:       *row.CustomerID,
			Name:             titleCase(row.Name),
			Email:            email,
			Country:          strings.TrimSpace(row.Country),
			RegistrationDate: row.RegistrationDate,
			Segment:          strings.TrimSpace(row.Segment),
			City:             fillUnknown(row.City),
		}, "", true
	})
	for reason, n := range reasons {
		report.Rejections[reason] += n
	}
	report.CleanCount = len(clean)
	logReport(report)
	return clean, report
}

// dedupCustomers drops rows without a key and resolves "first occurrence
// wins" over the source row order.
func dedupCustomers(rows []model.RawCustomer, report *model.Report) []model.RawCustomer {
	unique := make([]model.RawCustomer, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		if row.CustomerID == nil {
			report.Reject(model.ReasonMissingKey)
			continue
		}
		if _, dup := seen[*row.CustomerID]; dup {
			report.Reject(model.ReasonDuplicateKey)
			continue
		}
		seen[*row.CustomerID] = struct{}{}
		unique = append(unique, row)
	}
	return unique
}

// normalizeEmail trims the address and checks its structure. A nil or empty
// email is allowed and stays null; a malformed non-empty one fails.
func normalizeEmail(email *string) (*string, bool) {
	if email == nil {
		return nil, true
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil, true
	}
	if !emailPattern.MatchString(trimmed) {
		return nil, false
	}
	return &trimmed, true
}
