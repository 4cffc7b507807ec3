package audit

import "fmt"

// FlagState selects records by their combined flag.
type FlagState string

const (
	// FlagStateAll keeps every record regardless of flags.
	FlagStateAll FlagState = "all"
	// FlagStateFlagged keeps only records with at least one rule violation.
	FlagStateFlagged FlagState = "flagged"
	// FlagStateUnflagged keeps only records with no rule violations.
	FlagStateUnflagged FlagState = "unflagged"
)

// ParseFlagState converts a query-string value into a FlagState. The empty
// string means no flag filtering.
func ParseFlagState(value string) (FlagState, error) {
	switch FlagState(value) {
	case "", FlagStateAll:
		return FlagStateAll, nil
	case FlagStateFlagged:
		return FlagStateFlagged, nil
	case FlagStateUnflagged:
		return FlagStateUnflagged, nil
	default:
		return "", fmt.Errorf("invalid flag state %q (want all, flagged or unflagged)", value)
	}
}

// Filter narrows an annotated dataset by vendor, category, and flag state.
// The three predicates are independent equality checks combined with logical
// AND; an empty field matches everything. Filtering never mutates records.
type Filter struct {
	Vendor    string
	Category  string
	FlagState FlagState
}

// Match reports whether a single record passes the filter.
func (f Filter) Match(record ExpenseRecord) bool {
	if f.Vendor != "" && record.Vendor != f.Vendor {
		return false
	}
	if f.Category != "" && record.Category != f.Category {
		return false
	}
	switch f.FlagState {
	case FlagStateFlagged:
		return record.Flagged
	case FlagStateUnflagged:
		return !record.Flagged
	default:
		return true
	}
}

// Apply returns the records that pass the filter, preserving relative order.
func (f Filter) Apply(records []ExpenseRecord) []ExpenseRecord {
	filtered := make([]ExpenseRecord, 0, len(records))
	for _, record := range records {
		if f.Match(record) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
