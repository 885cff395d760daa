// Package filter narrows a record batch before aggregation.
package filter

import (
	"fjacquet/miamala/internal/models"
	"fjacquet/miamala/internal/parsererror"
)

// Criteria selects records. Empty sets select everything and a zero
// MinAmount keeps every amount.
type Criteria struct {
	// Counterparties are compared exactly against the title-cased
	// counterparty, e.g. "John Doe".
	Counterparties []string
	Types          []models.TransactionType
	MinAmount      int64
}

// IsEmpty reports whether the criteria keep every record.
func (c Criteria) IsEmpty() bool {
	return len(c.Counterparties) == 0 && len(c.Types) == 0 && c.MinAmount <= 0
}

// Validate rejects a negative minimum amount.
func (c Criteria) Validate() error {
	if c.MinAmount < 0 {
		return &parsererror.ValidationError{Reason: "minimum amount must not be negative"}
	}
	return nil
}

// Apply returns the records matching every criterion, in their original
// order. The input slice is not modified.
func Apply(records []models.TransactionRecord, c Criteria) []models.TransactionRecord {
	counterparties := toSet(c.Counterparties)
	types := toSet(c.Types)

	out := make([]models.TransactionRecord, 0, len(records))
	for _, r := range records {
		if len(counterparties) > 0 && !counterparties[r.Counterparty] {
			continue
		}
		if len(types) > 0 && !types[r.TransactionType] {
			continue
		}
		if r.Amount < c.MinAmount {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Counterparties lists the distinct non-empty counterparties in first-seen
// order.
func Counterparties(records []models.TransactionRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if r.Counterparty == "" || seen[r.Counterparty] {
			continue
		}
		seen[r.Counterparty] = true
		out = append(out, r.Counterparty)
	}
	return out
}

func toSet[T comparable](values []T) map[T]bool {
	set := make(map[T]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
