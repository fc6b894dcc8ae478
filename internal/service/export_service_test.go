package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
)

func intPtr(n int) *int { return &n }

func TestRankingDatasetRendersWholeNumberRates(t *testing.T) {
	dataset := rankingDataset([]dto.InstitutionCompliance{
		{
			InstitutionID: "inst1",
			Code:          "GP-001",
			Name:          "Govt Polytechnic One",
			District:      "North",
			Compliance: dto.ComplianceSummary{
				ActiveStudents:    10,
				WithActiveMentor:  9,
				WithJoiningLetter: 7,
				MentorRate:        intPtr(90),
				JoiningLetterRate: intPtr(70),
				Score:             intPtr(80),
				Tier:              "GOOD",
			},
		},
	})

	require.Len(t, dataset.Rows, 1)
	row := dataset.Rows[0]
	assert.Equal(t, "90", row["Mentor Rate"])
	assert.Equal(t, "70", row["Letter Rate"])
	assert.Equal(t, "80", row["Score"])
	assert.Equal(t, "GOOD", row["Tier"])
}

func TestRankingDatasetMissingRatesAsNA(t *testing.T) {
	dataset := rankingDataset([]dto.InstitutionCompliance{
		{
			InstitutionID: "empty",
			Code:          "GP-002",
			Name:          "Govt Polytechnic Two",
			District:      "South",
			Compliance:    dto.ComplianceSummary{ActiveStudents: 0},
		},
	})

	require.Len(t, dataset.Rows, 1)
	row := dataset.Rows[0]
	// No denominator surfaces as N/A, never as 0%.
	assert.Equal(t, "N/A", row["Mentor Rate"])
	assert.Equal(t, "N/A", row["Letter Rate"])
	assert.Equal(t, "N/A", row["Score"])
	assert.Empty(t, row["Tier"])
}

func TestRankingDatasetSortedByCode(t *testing.T) {
	dataset := rankingDataset([]dto.InstitutionCompliance{
		{Code: "GP-002", Name: "Two"},
		{Code: "GP-001", Name: "One"},
	})

	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, "GP-001", dataset.Rows[0]["Code"])
	assert.Equal(t, "GP-002", dataset.Rows[1]["Code"])
}
