package audit

import (
	"strings"
	"time"
)

// ExpenseRecord is one row of expense data. The input fields come from the
// uploaded spreadsheet; the derived fields are populated by the Audit Engine
// and are zero-valued until a record has been through an audit pass.
type ExpenseRecord struct {
	// Input fields
	Date     time.Time `json:"date"`
	Vendor   string    `json:"vendor"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`

	// Derived fields
	Weekday          string `json:"weekday"`
	VendorNormalized string `json:"-"`
	HighAmount       bool   `json:"high_amount"`
	UnknownVendor    bool   `json:"unknown_vendor"`
	Weekend          bool   `json:"weekend"`
	Flagged          bool   `json:"flagged"`
}

// NormalizeVendor trims whitespace and lowercases a vendor name for
// case-insensitive comparison. Idempotent: applying it twice yields the same
// result. Membership tests against the reference set silently fail unless
// both sides are normalized with this exact function.
func NormalizeVendor(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// VendorReferenceSet holds the known/approved vendor names, normalized.
// It is read-only once built and safe for concurrent lookups.
type VendorReferenceSet struct {
	names map[string]struct{}
}

// NewVendorReferenceSet builds a reference set from raw vendor names,
// normalizing each entry. Blank entries are skipped.
func NewVendorReferenceSet(names []string) *VendorReferenceSet {
	set := &VendorReferenceSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		normalized := NormalizeVendor(name)
		if normalized == "" {
			continue
		}
		set.names[normalized] = struct{}{}
	}
	return set
}

// Contains reports whether the given vendor name is in the reference set.
// The name is normalized before the lookup.
func (s *VendorReferenceSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[NormalizeVendor(name)]
	return ok
}

// Len returns the number of distinct vendors in the reference set.
func (s *VendorReferenceSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}
