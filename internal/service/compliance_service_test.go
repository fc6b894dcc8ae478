package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-compliance-api/internal/models"
)

type mockComplianceRepo struct {
	snapshots map[string]models.ComplianceSnapshot
}

func (m *mockComplianceRepo) SnapshotByInstitution(ctx context.Context, institutionID string) (*models.ComplianceSnapshot, error) {
	snap := m.snapshots[institutionID]
	snap.InstitutionID = institutionID
	return &snap, nil
}

func (m *mockComplianceRepo) SnapshotAll(ctx context.Context) ([]models.ComplianceSnapshot, error) {
	var snaps []models.ComplianceSnapshot
	for id, snap := range m.snapshots {
		snap.InstitutionID = id
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

type mockInstitutionReader struct {
	institutions map[string]*models.Institution
}

func (m *mockInstitutionReader) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	if inst, ok := m.institutions[id]; ok {
		return inst, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInstitutionReader) List(ctx context.Context, filter models.InstitutionFilter) ([]models.Institution, int, error) {
	var list []models.Institution
	for _, inst := range m.institutions {
		list = append(list, *inst)
	}
	return list, len(list), nil
}

func TestComplianceForInstitution(t *testing.T) {
	repo := &mockComplianceRepo{snapshots: map[string]models.ComplianceSnapshot{
		"inst1": {ActiveStudents: 10, WithActiveMentor: 9, WithJoiningLetter: 7},
	}}
	institutions := &mockInstitutionReader{institutions: map[string]*models.Institution{
		"inst1": {ID: "inst1", Code: "GP-001", Name: "Govt Polytechnic One"},
	}}
	svc := NewComplianceService(repo, institutions, nil, nil)

	summary, err := svc.ForInstitution(context.Background(), "inst1")
	require.NoError(t, err)
	require.NotNil(t, summary.MentorRate)
	require.NotNil(t, summary.JoiningLetterRate)
	assert.Equal(t, 90, *summary.MentorRate)
	assert.Equal(t, 70, *summary.JoiningLetterRate)
	require.NotNil(t, summary.Score)
	assert.Equal(t, 80, *summary.Score)
	assert.Equal(t, "GOOD", summary.Tier)
}

func TestComplianceNoActiveStudents(t *testing.T) {
	repo := &mockComplianceRepo{snapshots: map[string]models.ComplianceSnapshot{}}
	institutions := &mockInstitutionReader{institutions: map[string]*models.Institution{
		"inst1": {ID: "inst1", Code: "GP-001", Name: "Govt Polytechnic One"},
	}}
	svc := NewComplianceService(repo, institutions, nil, nil)

	summary, err := svc.ForInstitution(context.Background(), "inst1")
	require.NoError(t, err)
	// No denominator means no rates and no score, never a fabricated zero.
	assert.Nil(t, summary.Score)
	assert.Empty(t, summary.Tier)
	assert.Nil(t, summary.MentorRate)
	assert.Nil(t, summary.JoiningLetterRate)

	payload, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "mentorRate")
	assert.NotContains(t, string(payload), "joiningLetterRate")
	assert.NotContains(t, string(payload), "score")
}

func TestComplianceRankingWorstFirst(t *testing.T) {
	repo := &mockComplianceRepo{snapshots: map[string]models.ComplianceSnapshot{
		"good":  {ActiveStudents: 10, WithActiveMentor: 9, WithJoiningLetter: 9},
		"bad":   {ActiveStudents: 10, WithActiveMentor: 2, WithJoiningLetter: 1},
		"empty": {},
	}}
	institutions := &mockInstitutionReader{institutions: map[string]*models.Institution{
		"good":  {ID: "good", Code: "GP-001", Name: "One"},
		"bad":   {ID: "bad", Code: "GP-002", Name: "Two"},
		"empty": {ID: "empty", Code: "GP-003", Name: "Three"},
	}}
	svc := NewComplianceService(repo, institutions, nil, nil)

	ranking, err := svc.Ranking(context.Background())
	require.NoError(t, err)
	require.Len(t, ranking, 3)
	assert.Equal(t, "bad", ranking[0].InstitutionID)
	assert.Equal(t, "good", ranking[1].InstitutionID)
	// Unscored institutions sort last rather than masquerading as worst.
	assert.Equal(t, "empty", ranking[2].InstitutionID)
	assert.Nil(t, ranking[2].Compliance.Score)
}

func TestComplianceOverall(t *testing.T) {
	repo := &mockComplianceRepo{snapshots: map[string]models.ComplianceSnapshot{
		"a": {ActiveStudents: 10, WithActiveMentor: 10, WithJoiningLetter: 10},
		"b": {ActiveStudents: 10, WithActiveMentor: 0, WithJoiningLetter: 0},
	}}
	svc := NewComplianceService(repo, &mockInstitutionReader{}, nil, nil)

	summary, err := svc.Overall(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, summary.ActiveStudents)
	require.NotNil(t, summary.MentorRate)
	assert.Equal(t, 50, *summary.MentorRate)
	require.NotNil(t, summary.Score)
	assert.Equal(t, 50, *summary.Score)
	assert.Equal(t, "WARNING", summary.Tier)
}
