package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-compliance-api/internal/models"
)

// InternshipRepository manages persistence for internships.
type InternshipRepository struct {
	db *sqlx.DB
}

// NewInternshipRepository constructs an InternshipRepository.
func NewInternshipRepository(db *sqlx.DB) *InternshipRepository {
	return &InternshipRepository{db: db}
}

const internshipColumns = `id, student_id, institution_id, organization_name, mentor_name, mentor_email, mentor_phone, mentor_active, start_date, end_date, status, letter_path, letter_uploaded_at, created_at, updated_at`

// FindByID returns an internship by identifier.
func (r *InternshipRepository) FindByID(ctx context.Context, id string) (*models.Internship, error) {
	query := fmt.Sprintf("SELECT %s FROM internships WHERE id = $1 LIMIT 1", internshipColumns)
	var internship models.Internship
	if err := r.db.GetContext(ctx, &internship, query, id); err != nil {
		return nil, err
	}
	return &internship, nil
}

// FindActiveByStudent returns the student's active internship, if any.
func (r *InternshipRepository) FindActiveByStudent(ctx context.Context, studentID string) (*models.Internship, error) {
	query := fmt.Sprintf("SELECT %s FROM internships WHERE student_id = $1 AND status = $2 LIMIT 1", internshipColumns)
	var internship models.Internship
	if err := r.db.GetContext(ctx, &internship, query, studentID, models.InternshipActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find active internship: %w", err)
	}
	return &internship, nil
}

// List returns internships matching the provided filters.
func (r *InternshipRepository) List(ctx context.Context, filter models.InternshipFilter) ([]models.Internship, int, error) {
	baseQuery := `FROM internships WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.InstitutionID != "" {
		conditions = append(conditions, fmt.Sprintf("institution_id = $%d", len(args)+1))
		args = append(args, filter.InstitutionID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", internshipColumns, baseQuery, pageSize, offset)

	var internships []models.Internship
	if err := r.db.SelectContext(ctx, &internships, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list internships: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count internships: %w", err)
	}
	return internships, total, nil
}

// Create inserts a new internship record.
func (r *InternshipRepository) Create(ctx context.Context, internship *models.Internship) error {
	if internship.ID == "" {
		internship.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if internship.CreatedAt.IsZero() {
		internship.CreatedAt = now
	}
	internship.UpdatedAt = now
	const query = `INSERT INTO internships (id, student_id, institution_id, organization_name, mentor_name, mentor_email, mentor_phone, mentor_active, start_date, end_date, status, letter_path, letter_uploaded_at, created_at, updated_at)
        VALUES (:id, :student_id, :institution_id, :organization_name, :mentor_name, :mentor_email, :mentor_phone, :mentor_active, :start_date, :end_date, :status, :letter_path, :letter_uploaded_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, internship); err != nil {
		return fmt.Errorf("create internship: %w", err)
	}
	return nil
}

// UpdateMentor replaces the mentor assignment on an internship.
func (r *InternshipRepository) UpdateMentor(ctx context.Context, internship *models.Internship) error {
	internship.UpdatedAt = time.Now().UTC()
	const query = `UPDATE internships SET mentor_name = :mentor_name, mentor_email = :mentor_email, mentor_phone = :mentor_phone, mentor_active = :mentor_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, internship); err != nil {
		return fmt.Errorf("update mentor: %w", err)
	}
	return nil
}

// SetStatus transitions an internship to a terminal status.
func (r *InternshipRepository) SetStatus(ctx context.Context, id string, status models.InternshipStatus) error {
	const query = `UPDATE internships SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("set internship status: %w", err)
	}
	return nil
}

// SetJoiningLetter records the stored letter path and upload time.
func (r *InternshipRepository) SetJoiningLetter(ctx context.Context, id, path string, uploadedAt time.Time) error {
	const query = `UPDATE internships SET letter_path = $2, letter_uploaded_at = $3, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path, uploadedAt); err != nil {
		return fmt.Errorf("set joining letter: %w", err)
	}
	return nil
}

// ActiveInternshipRow joins an active internship with its student for
// faculty visit planning.
type ActiveInternshipRow struct {
	models.Internship
	StudentName string `db:"student_name"`
}

// ListActiveWithStudents returns active internships for an institution with
// student names attached.
func (r *InternshipRepository) ListActiveWithStudents(ctx context.Context, institutionID string) ([]ActiveInternshipRow, error) {
	query := `SELECT i.id, i.student_id, i.institution_id, i.organization_name, i.mentor_name, i.mentor_email, i.mentor_phone, i.mentor_active,
        i.start_date, i.end_date, i.status, i.letter_path, i.letter_uploaded_at, i.created_at, i.updated_at, s.full_name AS student_name
        FROM internships i
        JOIN students s ON s.id = i.student_id
        WHERE i.institution_id = $1 AND i.status = $2
        ORDER BY s.full_name ASC`
	var rows []ActiveInternshipRow
	if err := r.db.SelectContext(ctx, &rows, query, institutionID, models.InternshipActive); err != nil {
		return nil, fmt.Errorf("list active internships: %w", err)
	}
	return rows, nil
}
