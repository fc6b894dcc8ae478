package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-compliance-api/internal/models"
)

// VisitRepository manages persistence for mentor visits.
type VisitRepository struct {
	db *sqlx.DB
}

// NewVisitRepository constructs a VisitRepository.
func NewVisitRepository(db *sqlx.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

const visitColumns = `id, internship_id, faculty_id, year, month, visited_at, notes, created_at`

// Create records a mentor visit for one internship month.
func (r *VisitRepository) Create(ctx context.Context, visit *models.MentorVisit) error {
	if visit.ID == "" {
		visit.ID = uuid.NewString()
	}
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO mentor_visits (id, internship_id, faculty_id, year, month, visited_at, notes, created_at)
        VALUES (:id, :internship_id, :faculty_id, :year, :month, :visited_at, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, visit); err != nil {
		return fmt.Errorf("create visit: %w", err)
	}
	return nil
}

// ListByInternship returns all visits for an internship ordered by month.
func (r *VisitRepository) ListByInternship(ctx context.Context, internshipID string) ([]models.MentorVisit, error) {
	query := fmt.Sprintf("SELECT %s FROM mentor_visits WHERE internship_id = $1 ORDER BY year ASC, month ASC", visitColumns)
	var visits []models.MentorVisit
	if err := r.db.SelectContext(ctx, &visits, query, internshipID); err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	return visits, nil
}

// ListByInternships returns visits for a set of internships.
func (r *VisitRepository) ListByInternships(ctx context.Context, internshipIDs []string) ([]models.MentorVisit, error) {
	if len(internshipIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM mentor_visits WHERE internship_id IN (?)", visitColumns), internshipIDs)
	if err != nil {
		return nil, fmt.Errorf("build visits query: %w", err)
	}
	query = r.db.Rebind(query)
	var visits []models.MentorVisit
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, fmt.Errorf("list visits by internships: %w", err)
	}
	return visits, nil
}

// ListRecentByFaculty returns the most recent visits logged by a faculty
// member.
func (r *VisitRepository) ListRecentByFaculty(ctx context.Context, facultyID string, limit int) ([]models.MentorVisit, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	query := fmt.Sprintf("SELECT %s FROM mentor_visits WHERE faculty_id = $1 ORDER BY visited_at DESC LIMIT %d", visitColumns, limit)
	var visits []models.MentorVisit
	if err := r.db.SelectContext(ctx, &visits, query, facultyID); err != nil {
		return nil, fmt.Errorf("list recent visits: %w", err)
	}
	return visits, nil
}
