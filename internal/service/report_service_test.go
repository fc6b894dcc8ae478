package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
)

type mockReportRepo struct {
	reports map[string]*models.MonthlyReport
}

func reportKey(internshipID string, year, month int) string {
	return fmt.Sprintf("%s/%d-%d", internshipID, year, month)
}

func (m *mockReportRepo) FindByMonth(ctx context.Context, internshipID string, year, month int) (*models.MonthlyReport, error) {
	if r, ok := m.reports[reportKey(internshipID, year, month)]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockReportRepo) ListByInternship(ctx context.Context, internshipID string) ([]models.MonthlyReport, error) {
	var list []models.MonthlyReport
	for _, r := range m.reports {
		if r.InternshipID == internshipID {
			list = append(list, *r)
		}
	}
	return list, nil
}

func (m *mockReportRepo) SaveDraft(ctx context.Context, report *models.MonthlyReport) error {
	if m.reports == nil {
		m.reports = make(map[string]*models.MonthlyReport)
	}
	m.reports[reportKey(report.InternshipID, report.Year, report.Month)] = report
	return nil
}

func (m *mockReportRepo) Submit(ctx context.Context, report *models.MonthlyReport) error {
	return m.SaveDraft(ctx, report)
}

func testInternship() *models.Internship {
	return &models.Internship{
		ID:        "i1",
		StudentID: testStudentID,
		StartDate: time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC),
		Status:    models.InternshipActive,
	}
}

func TestReportSubmitOnTime(t *testing.T) {
	repo := &mockReportRepo{}
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := NewReportService(ReportServiceParams{
		Repo:        repo,
		Internships: internships,
		Now:         func() time.Time { return time.Date(2026, time.February, 3, 12, 0, 0, 0, time.UTC) },
	})

	report, err := svc.Submit(context.Background(), "i1", dto.SubmitReportRequest{Year: 2026, Month: 1, Summary: "January activities"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusApproved, report.Status)
	assert.False(t, report.IsLateSubmission)
	assert.Zero(t, report.DaysLate)
}

func TestReportSubmitLatePersistsDaysLate(t *testing.T) {
	repo := &mockReportRepo{}
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := NewReportService(ReportServiceParams{
		Repo:        repo,
		Internships: internships,
		// January's report falls due February 5; submitting on the 8th is
		// three days late but still accepted.
		Now: func() time.Time { return time.Date(2026, time.February, 8, 9, 0, 0, 0, time.UTC) },
	})

	report, err := svc.Submit(context.Background(), "i1", dto.SubmitReportRequest{Year: 2026, Month: 1, Summary: "January activities"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusApproved, report.Status)
	assert.True(t, report.IsLateSubmission)
	assert.Equal(t, 3, report.DaysLate)

	stored := repo.reports[reportKey("i1", 2026, 1)]
	require.NotNil(t, stored)
	assert.True(t, stored.IsLateSubmission)
	assert.Equal(t, 3, stored.DaysLate)
}

func TestReportSubmitRejectsUncountedMonth(t *testing.T) {
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := NewReportService(ReportServiceParams{Repo: &mockReportRepo{}, Internships: internships})

	// December 2025 predates the internship entirely.
	_, err := svc.Submit(context.Background(), "i1", dto.SubmitReportRequest{Year: 2025, Month: 12, Summary: "out of range"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportApprovedIsImmutable(t *testing.T) {
	repo := &mockReportRepo{}
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := NewReportService(ReportServiceParams{
		Repo:        repo,
		Internships: internships,
		Now:         func() time.Time { return time.Date(2026, time.February, 3, 12, 0, 0, 0, time.UTC) },
	})

	_, err := svc.Submit(context.Background(), "i1", dto.SubmitReportRequest{Year: 2026, Month: 1, Summary: "final"})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "i1", dto.SubmitReportRequest{Year: 2026, Month: 1, Summary: "second attempt"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.SaveDraft(context.Background(), "i1", dto.SaveReportDraftRequest{Year: 2026, Month: 1, Summary: "draft over approved"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestReportDraftThenSubmit(t *testing.T) {
	repo := &mockReportRepo{}
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := NewReportService(ReportServiceParams{
		Repo:        repo,
		Internships: internships,
		Now:         func() time.Time { return time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC) },
	})

	draft, err := svc.SaveDraft(context.Background(), "i1", dto.SaveReportDraftRequest{Year: 2026, Month: 2, Summary: "wip"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusDraft, draft.Status)
	assert.False(t, draft.IsLateSubmission)

	report, err := svc.Submit(context.Background(), "i1", dto.SubmitReportRequest{Year: 2026, Month: 2, Summary: "February activities"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusApproved, report.Status)
	assert.False(t, report.IsLateSubmission)
}

func TestReportTimelineStates(t *testing.T) {
	repo := &mockReportRepo{}
	internships := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": testInternship()}}
	now := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)
	svc := NewReportService(ReportServiceParams{
		Repo:        repo,
		Internships: internships,
		Now:         func() time.Time { return now },
	})

	submitted := time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Submit(context.Background(), &models.MonthlyReport{
		InternshipID: "i1", Year: 2026, Month: 1,
		Status: models.ReportStatusApproved, SubmittedAt: &submitted,
	}))

	entries, err := svc.Timeline(context.Background(), "i1")
	require.NoError(t, err)
	// January through May count; June's ten days miss the inclusion bound.
	require.Len(t, entries, 5)

	assert.Equal(t, "APPROVED", entries[0].State)
	assert.False(t, entries[0].IsLate)
	// February's report was due March 5 and is now a week overdue, past the
	// five day grace window.
	assert.Equal(t, "OVERDUE", entries[1].State)
	assert.False(t, entries[1].InGrace)
	assert.Equal(t, "NOT_STARTED", entries[2].State)
}
