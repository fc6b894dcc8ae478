package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-compliance-api/internal/models"
)

// ComplianceRepository aggregates the raw counts the compliance calculation
// consumes. Rates and tiers are never computed in SQL.
type ComplianceRepository struct {
	db *sqlx.DB
}

// NewComplianceRepository constructs a ComplianceRepository.
func NewComplianceRepository(db *sqlx.DB) *ComplianceRepository {
	return &ComplianceRepository{db: db}
}

const snapshotQuery = `SELECT s.institution_id,
        COUNT(DISTINCT s.id) AS active_students,
        COUNT(DISTINCT CASE WHEN i.mentor_active THEN s.id END) AS with_active_mentor,
        COUNT(DISTINCT CASE WHEN i.letter_path IS NOT NULL AND i.letter_path <> '' THEN s.id END) AS with_joining_letter
        FROM students s
        JOIN internships i ON i.student_id = s.id AND i.status = $1
        WHERE s.active = TRUE`

// SnapshotByInstitution returns the compliance counts for one institution.
// An institution with no active interning students yields a zero snapshot.
func (r *ComplianceRepository) SnapshotByInstitution(ctx context.Context, institutionID string) (*models.ComplianceSnapshot, error) {
	query := snapshotQuery + ` AND s.institution_id = $2 GROUP BY s.institution_id`
	var snap models.ComplianceSnapshot
	if err := r.db.GetContext(ctx, &snap, query, models.InternshipActive, institutionID); err != nil {
		if err == sql.ErrNoRows {
			return &models.ComplianceSnapshot{InstitutionID: institutionID}, nil
		}
		return nil, fmt.Errorf("compliance snapshot: %w", err)
	}
	return &snap, nil
}

// SnapshotAll returns compliance counts for every institution with active
// interning students.
func (r *ComplianceRepository) SnapshotAll(ctx context.Context) ([]models.ComplianceSnapshot, error) {
	query := snapshotQuery + ` GROUP BY s.institution_id`
	var snaps []models.ComplianceSnapshot
	if err := r.db.SelectContext(ctx, &snaps, query, models.InternshipActive); err != nil {
		return nil, fmt.Errorf("compliance snapshots: %w", err)
	}
	return snaps, nil
}
