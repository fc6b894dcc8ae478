package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-compliance-api/internal/models"
)

// InstitutionRepository manages persistence for institutions.
type InstitutionRepository struct {
	db *sqlx.DB
}

// NewInstitutionRepository constructs an InstitutionRepository.
func NewInstitutionRepository(db *sqlx.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// List returns institutions matching the provided filters.
func (r *InstitutionRepository) List(ctx context.Context, filter models.InstitutionFilter) ([]models.Institution, int, error) {
	baseQuery := `FROM institutions WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.District != "" {
		conditions = append(conditions, fmt.Sprintf("district = $%d", len(args)+1))
		args = append(args, filter.District)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(code) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"code":       true,
		"district":   true,
		"created_at": true,
	}
	if sortBy == "" || !allowedSorts[sortBy] {
		sortBy = "name"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "ASC"
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

	listQuery := fmt.Sprintf("SELECT id, code, name, district, active, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, sortOrder, pageSize, offset)

	var institutions []models.Institution
	if err := r.db.SelectContext(ctx, &institutions, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list institutions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count institutions: %w", err)
	}
	return institutions, total, nil
}

// FindByID returns an institution by identifier.
func (r *InstitutionRepository) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	const query = `SELECT id, code, name, district, active, created_at, updated_at FROM institutions WHERE id = $1 LIMIT 1`
	var inst models.Institution
	if err := r.db.GetContext(ctx, &inst, query, id); err != nil {
		return nil, err
	}
	return &inst, nil
}

// Create inserts a new institution.
func (r *InstitutionRepository) Create(ctx context.Context, inst *models.Institution) error {
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = now
	}
	inst.UpdatedAt = now
	const query = `INSERT INTO institutions (id, code, name, district, active, created_at, updated_at)
        VALUES (:id, :code, :name, :district, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, inst); err != nil {
		return fmt.Errorf("create institution: %w", err)
	}
	return nil
}

// Update modifies an existing institution.
func (r *InstitutionRepository) Update(ctx context.Context, inst *models.Institution) error {
	inst.UpdatedAt = time.Now().UTC()
	const query = `UPDATE institutions SET code = :code, name = :name, district = :district, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, inst); err != nil {
		return fmt.Errorf("update institution: %w", err)
	}
	return nil
}
