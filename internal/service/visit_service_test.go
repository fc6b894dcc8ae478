package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
)

type mockVisitRepo struct {
	visits []models.MentorVisit
}

func (m *mockVisitRepo) Create(ctx context.Context, visit *models.MentorVisit) error {
	visit.ID = "new-visit"
	m.visits = append(m.visits, *visit)
	return nil
}

func (m *mockVisitRepo) ListByInternship(ctx context.Context, internshipID string) ([]models.MentorVisit, error) {
	var list []models.MentorVisit
	for _, v := range m.visits {
		if v.InternshipID == internshipID {
			list = append(list, v)
		}
	}
	return list, nil
}

func TestVisitRecord(t *testing.T) {
	repo := &mockVisitRepo{}
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := NewVisitService(VisitServiceParams{Repo: repo, Internships: internships})

	visit, err := svc.Record(context.Background(), "i1", "fac1", dto.RecordVisitRequest{
		Year:      2026,
		Month:     1,
		VisitedAt: "2026-01-28T10:00:00Z",
		Notes:     "workplace check",
	})
	require.NoError(t, err)
	assert.Equal(t, "fac1", visit.FacultyID)
	assert.Len(t, repo.visits, 1)
}

func TestVisitRecordDuplicateMonth(t *testing.T) {
	repo := &mockVisitRepo{visits: []models.MentorVisit{{
		InternshipID: "i1", FacultyID: "fac1", Year: 2026, Month: 1,
		VisitedAt: time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC),
	}}}
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := NewVisitService(VisitServiceParams{Repo: repo, Internships: internships})

	_, err := svc.Record(context.Background(), "i1", "fac1", dto.RecordVisitRequest{
		Year:      2026,
		Month:     1,
		VisitedAt: "2026-01-28T10:00:00Z",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.visits, 1)
}

func TestVisitRecordRejectsUncountedMonth(t *testing.T) {
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := NewVisitService(VisitServiceParams{Repo: &mockVisitRepo{}, Internships: internships})

	// June 2026 holds only ten active days and is not a counted month.
	_, err := svc.Record(context.Background(), "i1", "fac1", dto.RecordVisitRequest{
		Year:      2026,
		Month:     6,
		VisitedAt: "2026-06-05T10:00:00Z",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestVisitTimelineStates(t *testing.T) {
	repo := &mockVisitRepo{visits: []models.MentorVisit{{
		InternshipID: "i1", FacultyID: "fac1", Year: 2026, Month: 2,
		VisitedAt: time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC),
	}}}
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	now := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)
	svc := NewVisitService(VisitServiceParams{
		Repo:        repo,
		Internships: internships,
		Now:         func() time.Time { return now },
	})

	entries, err := svc.Timeline(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// January's window lapsed without a visit; the obligation stays visible.
	assert.Equal(t, "OVERDUE", entries[0].State)
	assert.Equal(t, "COMPLETED", entries[1].State)
	assert.Equal(t, "PENDING", entries[2].State)
	assert.Equal(t, "UPCOMING", entries[3].State)
	assert.Equal(t, "UPCOMING", entries[4].State)
}

func TestVisitLateLoggingStillCompletes(t *testing.T) {
	repo := &mockVisitRepo{}
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	now := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	svc := NewVisitService(VisitServiceParams{
		Repo:        repo,
		Internships: internships,
		Now:         func() time.Time { return now },
	})

	// Logged well after January's month-end deadline.
	_, err := svc.Record(context.Background(), "i1", "fac1", dto.RecordVisitRequest{
		Year:      2026,
		Month:     1,
		VisitedAt: "2026-02-09T15:00:00Z",
	})
	require.NoError(t, err)

	entries, err := svc.Timeline(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", entries[0].State)
}
