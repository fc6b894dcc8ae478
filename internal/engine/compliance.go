package engine

import "math"

// Tier classifies an institution compliance score into a severity bucket.
type Tier string

const (
	TierExcellent    Tier = "EXCELLENT"
	TierGood         Tier = "GOOD"
	TierWarning      Tier = "WARNING"
	TierCritical     Tier = "CRITICAL"
	TierIntervention Tier = "INTERVENTION_REQUIRED"
	// TierUnknown is the tier when the score is undefined (no active
	// students), serialized as an omitted field.
	TierUnknown Tier = ""
)

// ComplianceInput is an institution-scoped snapshot supplied by the caller.
type ComplianceInput struct {
	ActiveStudents    int `json:"active_student_count"`
	WithActiveMentor  int `json:"students_with_active_mentor"`
	WithJoiningLetter int `json:"students_with_joining_letter"`
}

// ComplianceResult is the two-factor institution health metric. Rates and
// score are nil when the denominator is zero: "N/A" is never fabricated as
// 0% or 100%. Report and visit completion rates are intentionally not part
// of this score; they are computed and displayed separately.
type ComplianceResult struct {
	MentorRate        *int `json:"mentor_rate"`
	JoiningLetterRate *int `json:"joining_letter_rate"`
	Score             *int `json:"score"`
	Tier              Tier `json:"tier,omitempty"`
}

// ComputeCompliance is the single shared implementation of the compliance
// formula. Every dashboard that displays a compliance score must call this
// function; the arithmetic is never reimplemented inline.
func ComputeCompliance(in ComplianceInput, cfg Config) ComplianceResult {
	result := ComplianceResult{Tier: TierUnknown}
	if in.ActiveStudents <= 0 {
		return result
	}

	mentor := percentage(in.WithActiveMentor, in.ActiveStudents)
	letter := percentage(in.WithJoiningLetter, in.ActiveStudents)
	result.MentorRate = &mentor
	result.JoiningLetterRate = &letter

	// Both components are required; there is no partial-average fallback.
	score := int(math.Round(float64(mentor+letter) / 2))
	result.Score = &score
	result.Tier = classifyTier(score, cfg)
	return result
}

func percentage(numerator, denominator int) int {
	rate := math.Round(float64(numerator) / float64(denominator) * 100)
	if rate > 100 {
		rate = 100
	}
	if rate < 0 {
		rate = 0
	}
	return int(rate)
}

func classifyTier(score int, cfg Config) Tier {
	switch {
	case score >= cfg.ExcellentMin:
		return TierExcellent
	case score >= cfg.GoodMin:
		return TierGood
	case score >= cfg.WarningMin:
		return TierWarning
	case score >= cfg.CriticalMin:
		return TierCritical
	default:
		return TierIntervention
	}
}
