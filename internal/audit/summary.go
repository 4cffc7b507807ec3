package audit

import "sort"

// CategoryTotal is the summed amount for one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// VendorTotal is the summed amount for one vendor.
type VendorTotal struct {
	Vendor string  `json:"vendor"`
	Total  float64 `json:"total"`
}

// FlaggedSubset returns the records with at least one rule violation,
// preserving their relative order. The result is always a subsequence of the
// input.
func FlaggedSubset(records []ExpenseRecord) []ExpenseRecord {
	flagged := make([]ExpenseRecord, 0, len(records))
	for _, record := range records {
		if record.Flagged {
			flagged = append(flagged, record)
		}
	}
	return flagged
}

// CategoryTotals sums amounts per category across all records, flagged or
// not. Categories appear in order of first occurrence in the input so
// repeated runs over the same data chart identically. Summing the totals of
// every category yields the total amount of the dataset.
func CategoryTotals(records []ExpenseRecord) []CategoryTotal {
	index := make(map[string]int, len(records))
	totals := make([]CategoryTotal, 0)
	for _, record := range records {
		i, seen := index[record.Category]
		if !seen {
			i = len(totals)
			index[record.Category] = i
			totals = append(totals, CategoryTotal{Category: record.Category})
		}
		totals[i].Total += record.Amount
	}
	return totals
}

// TopVendorsByAmount returns at most n vendors ranked by descending summed
// amount. Ties keep the order in which the vendors first appeared in the
// input; the sort is stable, so repeated invocations on identical input
// yield the same ranking.
func TopVendorsByAmount(records []ExpenseRecord, n int) []VendorTotal {
	if n <= 0 {
		return nil
	}

	index := make(map[string]int, len(records))
	totals := make([]VendorTotal, 0)
	for _, record := range records {
		i, seen := index[record.Vendor]
		if !seen {
			i = len(totals)
			index[record.Vendor] = i
			totals = append(totals, VendorTotal{Vendor: record.Vendor})
		}
		totals[i].Total += record.Amount
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})

	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// TotalAmount sums the amount across all records.
func TotalAmount(records []ExpenseRecord) float64 {
	var total float64
	for _, record := range records {
		total += record.Amount
	}
	return total
}
