// Package engine implements the monthly cycle and compliance calculation
// engine. Every function in this package is pure: inputs (including the
// current time) are passed in by the caller, nothing is read from storage or
// the system clock, and repeated calls with the same arguments always return
// the same result.
package engine

import "fmt"

// Config holds every threshold the engine consumes. It is loaded once per
// process, validated eagerly, and passed explicitly into each calculation; the
// engine never clamps an out-of-range value.
type Config struct {
	// MinDaysForInclusion is the strict lower bound of active days a partial
	// first/last month must exceed to count toward obligations.
	MinDaysForInclusion int `json:"min_days_for_inclusion"`
	// ReportDueDay is the day-of-month, in the month following a counted
	// month, on which that month's report is due.
	ReportDueDay int `json:"report_due_day"`
	// VisitDueOnMonthEnd makes visits due on the last calendar day of the
	// counted month. When false, VisitDueDay is used instead.
	VisitDueOnMonthEnd bool `json:"visit_due_on_month_end"`
	VisitDueDay        int  `json:"visit_due_day"`

	// Internship span validation bounds, enforced by callers before a span
	// reaches the engine.
	MinInternshipWeeks  int `json:"min_internship_weeks"`
	MaxInternshipMonths int `json:"max_internship_months"`

	// MissingReportGraceDays widens the window after a report due date during
	// which an overdue report is still framed as within grace. Visits have no
	// grace period.
	MissingReportGraceDays int `json:"missing_report_grace_days"`

	// Severity tier boundaries for the institution compliance score,
	// evaluated top down with first match winning.
	ExcellentMin int `json:"excellent_min"`
	GoodMin      int `json:"good_min"`
	WarningMin   int `json:"warning_min"`
	CriticalMin  int `json:"critical_min"`
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		MinDaysForInclusion:    10,
		ReportDueDay:           5,
		VisitDueOnMonthEnd:     true,
		VisitDueDay:            25,
		MinInternshipWeeks:     4,
		MaxInternshipMonths:    12,
		MissingReportGraceDays: 5,
		ExcellentMin:           90,
		GoodMin:                70,
		WarningMin:             50,
		CriticalMin:            30,
	}
}

// Validate rejects out-of-range thresholds with descriptive errors. A Config
// that fails validation must never reach the calculation functions.
func (c Config) Validate() error {
	if c.MinDaysForInclusion < 1 || c.MinDaysForInclusion > 28 {
		return fmt.Errorf("min_days_for_inclusion must be between 1 and 28, got %d", c.MinDaysForInclusion)
	}
	if c.ReportDueDay < 1 || c.ReportDueDay > 28 {
		return fmt.Errorf("report_due_day must be between 1 and 28, got %d", c.ReportDueDay)
	}
	if c.VisitDueDay < 1 || c.VisitDueDay > 28 {
		return fmt.Errorf("visit_due_day must be between 1 and 28, got %d", c.VisitDueDay)
	}
	if c.MinInternshipWeeks < 1 {
		return fmt.Errorf("min_internship_weeks must be at least 1, got %d", c.MinInternshipWeeks)
	}
	if c.MaxInternshipMonths < 1 {
		return fmt.Errorf("max_internship_months must be at least 1, got %d", c.MaxInternshipMonths)
	}
	if weeks := c.MaxInternshipMonths * 5; c.MinInternshipWeeks > weeks {
		return fmt.Errorf("min_internship_weeks %d exceeds max_internship_months %d", c.MinInternshipWeeks, c.MaxInternshipMonths)
	}
	if c.MissingReportGraceDays < 0 {
		return fmt.Errorf("missing_report_grace_days must not be negative, got %d", c.MissingReportGraceDays)
	}
	for _, b := range []struct {
		name  string
		value int
	}{
		{"excellent_min", c.ExcellentMin},
		{"good_min", c.GoodMin},
		{"warning_min", c.WarningMin},
		{"critical_min", c.CriticalMin},
	} {
		if b.value < 0 || b.value > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %d", b.name, b.value)
		}
	}
	if !(c.ExcellentMin > c.GoodMin && c.GoodMin > c.WarningMin && c.WarningMin > c.CriticalMin) {
		return fmt.Errorf("tier boundaries must be strictly decreasing: excellent %d > good %d > warning %d > critical %d",
			c.ExcellentMin, c.GoodMin, c.WarningMin, c.CriticalMin)
	}
	return nil
}
