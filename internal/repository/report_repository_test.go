package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-compliance-api/internal/models"
)

func newReportMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestReportRepositorySubmit(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec("INSERT INTO monthly_reports").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	submitted := time.Date(2025, time.February, 8, 10, 0, 0, 0, time.UTC)
	err := repo.Submit(context.Background(), &models.MonthlyReport{
		InternshipID:     "intern-1",
		Year:             2025,
		Month:            1,
		Summary:          "work summary",
		Status:           models.ReportStatusApproved,
		SubmittedAt:      &submitted,
		IsLateSubmission: true,
		DaysLate:         3,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListByInternship(t *testing.T) {
	db, mock, cleanup := newReportMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"id", "internship_id", "year", "month", "summary", "status", "submitted_at", "is_late_submission", "days_late", "created_at", "updated_at"}).
		AddRow("r1", "intern-1", 2025, 1, "jan", models.ReportStatusApproved, time.Now(), false, 0, time.Now(), time.Now()).
		AddRow("r2", "intern-1", 2025, 2, "feb", models.ReportStatusDraft, nil, false, 0, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM monthly_reports WHERE internship_id").
		WithArgs("intern-1").
		WillReturnRows(rows)

	reports, err := repo.ListByInternship(context.Background(), "intern-1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, models.ReportStatusApproved, reports[0].Status)
	assert.Equal(t, models.ReportStatusDraft, reports[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
