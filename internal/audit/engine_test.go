package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testEngine() *Engine {
	return NewEngine(zap.NewNop())
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestAuditFlagsAllThreeRules(t *testing.T) {
	engine := testEngine()
	vendors := NewVendorReferenceSet([]string{"Acme"})

	records := []ExpenseRecord{
		{Date: mustDate(t, "2024-01-06"), Vendor: "Acme", Category: "Office", Amount: 150000},
	}

	annotated := engine.Audit(records, vendors, DefaultRuleConfig())
	require.Len(t, annotated, 1)

	record := annotated[0]
	assert.Equal(t, "Saturday", record.Weekday)
	assert.True(t, record.HighAmount, "150000 exceeds the 100000 threshold")
	assert.False(t, record.UnknownVendor, "Acme is in the reference set")
	assert.True(t, record.Weekend, "2024-01-06 is a Saturday")
	assert.True(t, record.Flagged)
}

func TestAuditHighAmountBoundary(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		threshold float64
		wantFlag  bool
	}{
		{name: "exactly at threshold", amount: 100000, threshold: 100000, wantFlag: false},
		{name: "just above threshold", amount: 100000.01, threshold: 100000, wantFlag: true},
		{name: "just below threshold", amount: 99999.99, threshold: 100000, wantFlag: false},
		{name: "zero amount", amount: 0, threshold: 100000, wantFlag: false},
	}

	engine := testEngine()
	vendors := NewVendorReferenceSet([]string{"acme"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRuleConfig()
			cfg.HighAmountThreshold = tt.threshold

			// A weekday date so only the amount rule can fire.
			records := []ExpenseRecord{
				{Date: mustDate(t, "2024-01-03"), Vendor: "Acme", Category: "Office", Amount: tt.amount},
			}

			annotated := engine.Audit(records, vendors, cfg)
			assert.Equal(t, tt.wantFlag, annotated[0].HighAmount)
			assert.Equal(t, tt.wantFlag, annotated[0].Flagged)
		})
	}
}

func TestAuditUnknownVendorNormalization(t *testing.T) {
	engine := testEngine()
	vendors := NewVendorReferenceSet([]string{"acme corp"})

	records := []ExpenseRecord{
		{Date: mustDate(t, "2024-01-03"), Vendor: " Acme Corp ", Category: "Office", Amount: 100},
		{Date: mustDate(t, "2024-01-03"), Vendor: "Globex", Category: "Office", Amount: 100},
	}

	annotated := engine.Audit(records, vendors, DefaultRuleConfig())

	assert.False(t, annotated[0].UnknownVendor, "whitespace and casing must not defeat the lookup")
	assert.Equal(t, "acme corp", annotated[0].VendorNormalized)
	assert.True(t, annotated[1].UnknownVendor)
}

func TestAuditEmptyVendorSetFlagsEveryVendor(t *testing.T) {
	engine := testEngine()
	records := []ExpenseRecord{
		{Date: mustDate(t, "2024-01-03"), Vendor: "Acme", Category: "Office", Amount: 100},
	}

	annotated := engine.Audit(records, NewVendorReferenceSet(nil), DefaultRuleConfig())

	assert.True(t, annotated[0].UnknownVendor, "missing reference data fails open to flagging")
	assert.True(t, annotated[0].Flagged)
}

func TestAuditWeekendRule(t *testing.T) {
	tests := []struct {
		name        string
		date        string
		wantWeekday string
		wantWeekend bool
	}{
		{name: "saturday", date: "2024-01-06", wantWeekday: "Saturday", wantWeekend: true},
		{name: "sunday", date: "2024-01-07", wantWeekday: "Sunday", wantWeekend: true},
		{name: "monday", date: "2024-01-08", wantWeekday: "Monday", wantWeekend: false},
		{name: "friday", date: "2024-01-05", wantWeekday: "Friday", wantWeekend: false},
	}

	engine := testEngine()
	vendors := NewVendorReferenceSet([]string{"acme"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []ExpenseRecord{
				{Date: mustDate(t, tt.date), Vendor: "Acme", Category: "Office", Amount: 100},
			}

			annotated := engine.Audit(records, vendors, DefaultRuleConfig())
			assert.Equal(t, tt.wantWeekday, annotated[0].Weekday)
			assert.Equal(t, tt.wantWeekend, annotated[0].Weekend)
		})
	}
}

func TestAuditCustomWeekendDays(t *testing.T) {
	engine := testEngine()
	vendors := NewVendorReferenceSet([]string{"acme"})

	cfg := DefaultRuleConfig()
	cfg.WeekendDays = []string{"Friday", "Saturday"}

	records := []ExpenseRecord{
		{Date: mustDate(t, "2024-01-05"), Vendor: "Acme", Category: "Office", Amount: 100}, // Friday
		{Date: mustDate(t, "2024-01-07"), Vendor: "Acme", Category: "Office", Amount: 100}, // Sunday
	}

	annotated := engine.Audit(records, vendors, cfg)
	assert.True(t, annotated[0].Weekend)
	assert.False(t, annotated[1].Weekend)
}

func TestAuditFlaggedIsDisjunctionOnly(t *testing.T) {
	engine := testEngine()
	vendors := NewVendorReferenceSet([]string{"acme"})

	records := []ExpenseRecord{
		// No rule fires: known vendor, weekday, under threshold.
		{Date: mustDate(t, "2024-01-03"), Vendor: "Acme", Category: "Office", Amount: 500},
	}

	annotated := engine.Audit(records, vendors, DefaultRuleConfig())

	record := annotated[0]
	assert.False(t, record.HighAmount)
	assert.False(t, record.UnknownVendor)
	assert.False(t, record.Weekend)
	assert.False(t, record.Flagged, "flagged must be false when no rule fires")
}

func TestAuditPreservesOrderCountAndInput(t *testing.T) {
	engine := testEngine()
	vendors := NewVendorReferenceSet([]string{"acme"})

	records := []ExpenseRecord{
		{Date: mustDate(t, "2024-01-06"), Vendor: "Globex", Category: "Travel", Amount: 200000},
		{Date: mustDate(t, "2024-01-03"), Vendor: "Acme", Category: "Office", Amount: 100},
		{Date: mustDate(t, "2024-01-07"), Vendor: "Initech", Category: "Food", Amount: 50},
	}

	annotated := engine.Audit(records, vendors, DefaultRuleConfig())

	require.Len(t, annotated, len(records))
	for i := range records {
		assert.Equal(t, records[i].Vendor, annotated[i].Vendor, "row order must be preserved")
	}

	// The input slice must not be mutated.
	for _, record := range records {
		assert.Empty(t, record.Weekday)
		assert.False(t, record.Flagged)
	}
}

func TestAuditEmptyInput(t *testing.T) {
	engine := testEngine()

	annotated := engine.Audit(nil, NewVendorReferenceSet([]string{"acme"}), DefaultRuleConfig())

	assert.Empty(t, annotated)
	assert.Empty(t, FlaggedSubset(annotated))
	assert.Empty(t, CategoryTotals(annotated))
}

func TestNormalizeVendorIdempotent(t *testing.T) {
	inputs := []string{" Acme Corp ", "ACME", "acme", "  Mixed Case Vendor\t"}
	for _, input := range inputs {
		once := NormalizeVendor(input)
		assert.Equal(t, once, NormalizeVendor(once))
	}
}

func TestRuleConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*RuleConfig)
		expectError bool
	}{
		{name: "default config is valid", mutate: func(c *RuleConfig) {}, expectError: false},
		{name: "negative threshold", mutate: func(c *RuleConfig) { c.HighAmountThreshold = -1 }, expectError: true},
		{name: "bogus weekday name", mutate: func(c *RuleConfig) { c.WeekendDays = []string{"Funday"} }, expectError: true},
		{name: "empty weekend set is allowed", mutate: func(c *RuleConfig) { c.WeekendDays = nil }, expectError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRuleConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
