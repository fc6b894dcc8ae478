package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidateRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inclusion day zero", func(c *Config) { c.MinDaysForInclusion = 0 }},
		{"inclusion day above 28", func(c *Config) { c.MinDaysForInclusion = 29 }},
		{"report due day zero", func(c *Config) { c.ReportDueDay = 0 }},
		{"report due day above 28", func(c *Config) { c.ReportDueDay = 31 }},
		{"visit due day zero", func(c *Config) { c.VisitDueDay = 0 }},
		{"visit due day above 28", func(c *Config) { c.VisitDueDay = 30 }},
		{"min weeks zero", func(c *Config) { c.MinInternshipWeeks = 0 }},
		{"max months zero", func(c *Config) { c.MaxInternshipMonths = 0 }},
		{"min weeks beyond max months", func(c *Config) { c.MinInternshipWeeks = 80; c.MaxInternshipMonths = 6 }},
		{"negative grace", func(c *Config) { c.MissingReportGraceDays = -1 }},
		{"tier above 100", func(c *Config) { c.ExcellentMin = 120 }},
		{"tier below 0", func(c *Config) { c.CriticalMin = -5 }},
		{"tiers not decreasing", func(c *Config) { c.GoodMin = 95 }},
		{"equal tiers", func(c *Config) { c.WarningMin = c.GoodMin }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigValidateNeverClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReportDueDay = 31
	err := cfg.Validate()
	require.Error(t, err)
	// The value survives untouched; rejection is the only outcome.
	assert.Equal(t, 31, cfg.ReportDueDay)
}
