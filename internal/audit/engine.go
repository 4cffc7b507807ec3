package audit

import (
	"go.uber.org/zap"
)

// Engine evaluates the audit rules over a dataset of expense records. It is
// stateless: every call to Audit is an independent pass with no shared
// mutable state, so one Engine can serve concurrent runs.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a new audit engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Audit annotates every record with the rule flags and returns a new slice.
// Input order and count are preserved; the input slice, the vendor set, and
// the configuration are never mutated. Filtering is a downstream concern.
//
// Rules are independent of each other:
//   - HighAmount: amount strictly greater than the configured threshold.
//   - UnknownVendor: normalized vendor name absent from the reference set.
//     Exact match only, no fuzzy matching. An empty reference set means
//     every vendor is unknown — the safe default for an audit tool is
//     over-flagging, not skipping the check.
//   - Weekend: the record's weekday is one of the configured weekend days.
//
// Flagged is always the disjunction of the three rule flags, never set
// independently.
func (e *Engine) Audit(records []ExpenseRecord, vendors *VendorReferenceSet, cfg RuleConfig) []ExpenseRecord {
	weekend := cfg.weekendSet()

	annotated := make([]ExpenseRecord, len(records))
	flaggedCount := 0
	for i, record := range records {
		record.Weekday = record.Date.Weekday().String()
		record.VendorNormalized = NormalizeVendor(record.Vendor)

		record.HighAmount = record.Amount > cfg.HighAmountThreshold
		record.UnknownVendor = !vendors.Contains(record.VendorNormalized)
		_, record.Weekend = weekend[record.Weekday]

		record.Flagged = record.HighAmount || record.UnknownVendor || record.Weekend
		if record.Flagged {
			flaggedCount++
		}
		annotated[i] = record
	}

	e.logger.Info("audit pass complete",
		zap.Int("records", len(annotated)),
		zap.Int("flagged", flaggedCount),
		zap.Int("known_vendors", vendors.Len()),
		zap.Float64("high_amount_threshold", cfg.HighAmountThreshold))

	return annotated
}
