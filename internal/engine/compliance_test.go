package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeComplianceTwoFactorScore(t *testing.T) {
	cfg := DefaultConfig()
	result := ComputeCompliance(ComplianceInput{
		ActiveStudents:    50,
		WithActiveMentor:  45,
		WithJoiningLetter: 30,
	}, cfg)

	require.NotNil(t, result.MentorRate)
	require.NotNil(t, result.JoiningLetterRate)
	require.NotNil(t, result.Score)
	assert.Equal(t, 90, *result.MentorRate)
	assert.Equal(t, 60, *result.JoiningLetterRate)
	assert.Equal(t, 75, *result.Score)
	assert.Equal(t, TierGood, result.Tier)
}

func TestComputeComplianceZeroStudents(t *testing.T) {
	result := ComputeCompliance(ComplianceInput{}, DefaultConfig())
	assert.Nil(t, result.MentorRate)
	assert.Nil(t, result.JoiningLetterRate)
	assert.Nil(t, result.Score)
	assert.Equal(t, TierUnknown, result.Tier)
}

func TestComputeComplianceCapsAtHundred(t *testing.T) {
	// Data races can leave more mentor links than active students; the rate
	// is capped, never above 100.
	result := ComputeCompliance(ComplianceInput{
		ActiveStudents:    10,
		WithActiveMentor:  12,
		WithJoiningLetter: 10,
	}, DefaultConfig())

	require.NotNil(t, result.MentorRate)
	assert.Equal(t, 100, *result.MentorRate)
	assert.Equal(t, 100, *result.Score)
	assert.Equal(t, TierExcellent, result.Tier)
}

func TestComputeComplianceRounding(t *testing.T) {
	result := ComputeCompliance(ComplianceInput{
		ActiveStudents:    3,
		WithActiveMentor:  2, // 66.67 -> 67
		WithJoiningLetter: 1, // 33.33 -> 33
	}, DefaultConfig())

	require.NotNil(t, result.Score)
	assert.Equal(t, 67, *result.MentorRate)
	assert.Equal(t, 33, *result.JoiningLetterRate)
	assert.Equal(t, 50, *result.Score)
	assert.Equal(t, TierWarning, result.Tier)
}

func TestComputeComplianceTierBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	tiers := []struct {
		score int
		tier  Tier
	}{
		{100, TierExcellent},
		{90, TierExcellent},
		{89, TierGood},
		{70, TierGood},
		{69, TierWarning},
		{50, TierWarning},
		{49, TierCritical},
		{30, TierCritical},
		{29, TierIntervention},
		{0, TierIntervention},
	}
	for _, tc := range tiers {
		assert.Equal(t, tc.tier, classifyTier(tc.score, cfg), "score %d", tc.score)
	}
}

func TestComputeComplianceScoreBounds(t *testing.T) {
	cfg := DefaultConfig()
	for mentor := 0; mentor <= 20; mentor += 5 {
		for letter := 0; letter <= 20; letter += 5 {
			result := ComputeCompliance(ComplianceInput{
				ActiveStudents:    20,
				WithActiveMentor:  mentor,
				WithJoiningLetter: letter,
			}, cfg)
			require.NotNil(t, result.Score)
			assert.GreaterOrEqual(t, *result.Score, 0)
			assert.LessOrEqual(t, *result.Score, 100)
			assert.NotEqual(t, TierUnknown, result.Tier)
		}
	}
}
