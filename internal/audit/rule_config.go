package audit

import "fmt"

// RuleConfig holds the thresholds and reference tables the audit rules
// evaluate against. Read-only for the duration of one audit pass.
type RuleConfig struct {
	// HighAmountThreshold is the amount above which an expense is flagged.
	// Strictly greater-than: an amount exactly at the threshold is not
	// flagged.
	HighAmountThreshold float64

	// WeekendDays is the set of English weekday names treated as
	// non-business days.
	WeekendDays []string

	// GSTRateByCategory maps a category to its expected GST rate. This is a
	// documented placeholder: no rule consults it yet because the expected
	// comparison target (an actual-rate column) is not part of the input
	// data. Kept in configuration so the table has one home when the rule
	// lands.
	GSTRateByCategory map[string]string
}

// DefaultRuleConfig returns the standard rule configuration: a 100,000
// high-amount threshold, Saturday/Sunday weekends, and the stock GST rate
// table.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		HighAmountThreshold: 100000,
		WeekendDays:         []string{"Saturday", "Sunday"},
		GSTRateByCategory: map[string]string{
			"Office":       "18%",
			"Food":         "5%",
			"Professional": "18%",
		},
	}
}

// Validate checks the rule configuration for values that would make every
// rule evaluation meaningless.
func (c RuleConfig) Validate() error {
	if c.HighAmountThreshold < 0 {
		return fmt.Errorf("high amount threshold must be non-negative, got %.2f", c.HighAmountThreshold)
	}
	for _, day := range c.WeekendDays {
		if !validWeekdays[day] {
			return fmt.Errorf("unknown weekday name in weekend_days: %q", day)
		}
	}
	return nil
}

// weekendSet builds a lookup set from the configured weekend day names.
func (c RuleConfig) weekendSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.WeekendDays))
	for _, day := range c.WeekendDays {
		set[day] = struct{}{}
	}
	return set
}

var validWeekdays = map[string]bool{
	"Monday":    true,
	"Tuesday":   true,
	"Wednesday": true,
	"Thursday":  true,
	"Friday":    true,
	"Saturday":  true,
	"Sunday":    true,
}
