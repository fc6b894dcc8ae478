package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-compliance-api/internal/models"
)

// ReportRepository manages persistence for monthly reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, internship_id, year, month, summary, status, submitted_at, is_late_submission, days_late, created_at, updated_at`

// FindByMonth returns the report for one internship month, if present.
func (r *ReportRepository) FindByMonth(ctx context.Context, internshipID string, year, month int) (*models.MonthlyReport, error) {
	query := fmt.Sprintf("SELECT %s FROM monthly_reports WHERE internship_id = $1 AND year = $2 AND month = $3 LIMIT 1", reportColumns)
	var report models.MonthlyReport
	if err := r.db.GetContext(ctx, &report, query, internshipID, year, month); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListByInternship returns all reports for an internship ordered by month.
func (r *ReportRepository) ListByInternship(ctx context.Context, internshipID string) ([]models.MonthlyReport, error) {
	query := fmt.Sprintf("SELECT %s FROM monthly_reports WHERE internship_id = $1 ORDER BY year ASC, month ASC", reportColumns)
	var reports []models.MonthlyReport
	if err := r.db.SelectContext(ctx, &reports, query, internshipID); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// ListByInternships returns reports for a set of internships.
func (r *ReportRepository) ListByInternships(ctx context.Context, internshipIDs []string) ([]models.MonthlyReport, error) {
	if len(internshipIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM monthly_reports WHERE internship_id IN (?)", reportColumns), internshipIDs)
	if err != nil {
		return nil, fmt.Errorf("build reports query: %w", err)
	}
	query = r.db.Rebind(query)
	var reports []models.MonthlyReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("list reports by internships: %w", err)
	}
	return reports, nil
}

// SaveDraft inserts or updates a draft report. Approved reports are never
// overwritten.
func (r *ReportRepository) SaveDraft(ctx context.Context, report *models.MonthlyReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now
	const query = `INSERT INTO monthly_reports (id, internship_id, year, month, summary, status, submitted_at, is_late_submission, days_late, created_at, updated_at)
        VALUES (:id, :internship_id, :year, :month, :summary, :status, :submitted_at, :is_late_submission, :days_late, :created_at, :updated_at)
        ON CONFLICT (internship_id, year, month)
        DO UPDATE SET summary = EXCLUDED.summary, updated_at = EXCLUDED.updated_at
        WHERE monthly_reports.status <> 'APPROVED'`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("save draft report: %w", err)
	}
	return nil
}

// Submit upserts the report as approved with its computed lateness.
func (r *ReportRepository) Submit(ctx context.Context, report *models.MonthlyReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now
	const query = `INSERT INTO monthly_reports (id, internship_id, year, month, summary, status, submitted_at, is_late_submission, days_late, created_at, updated_at)
        VALUES (:id, :internship_id, :year, :month, :summary, :status, :submitted_at, :is_late_submission, :days_late, :created_at, :updated_at)
        ON CONFLICT (internship_id, year, month)
        DO UPDATE SET summary = EXCLUDED.summary, status = EXCLUDED.status, submitted_at = EXCLUDED.submitted_at,
                      is_late_submission = EXCLUDED.is_late_submission, days_late = EXCLUDED.days_late, updated_at = EXCLUDED.updated_at
        WHERE monthly_reports.status <> 'APPROVED'`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("submit report: %w", err)
	}
	return nil
}
