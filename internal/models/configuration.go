package models

import "time"

// ConfigurationType describes how a configuration value is parsed.
type ConfigurationType string

const (
	ConfigurationTypeInt  ConfigurationType = "INT"
	ConfigurationTypeBool ConfigurationType = "BOOL"
)

// Configuration is a single tunable compliance parameter stored in the
// database. Values override the environment defaults once present.
type Configuration struct {
	Key         string            `db:"key" json:"key"`
	Value       string            `db:"value" json:"value"`
	Type        ConfigurationType `db:"type" json:"type"`
	Description string            `db:"description" json:"description"`
	UpdatedBy   string            `db:"updated_by" json:"updated_by"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// Configuration keys understood by the compliance engine.
const (
	ConfigKeyMinDaysForInclusion = "compliance.min_days_for_inclusion"
	ConfigKeyReportDueDay        = "compliance.report_due_day"
	ConfigKeyVisitDueOnMonthEnd  = "compliance.visit_due_on_month_end"
	ConfigKeyVisitDueDay         = "compliance.visit_due_day"
	ConfigKeyMinInternshipWeeks  = "compliance.min_internship_weeks"
	ConfigKeyMaxInternshipMonths = "compliance.max_internship_months"
	ConfigKeyMissingReportGrace  = "compliance.missing_report_grace_days"
	ConfigKeyTierExcellentMin    = "compliance.tier_excellent_min"
	ConfigKeyTierGoodMin         = "compliance.tier_good_min"
	ConfigKeyTierWarningMin      = "compliance.tier_warning_min"
	ConfigKeyTierCriticalMin     = "compliance.tier_critical_min"
)
