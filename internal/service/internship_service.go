package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/engine"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
)

type internshipRepository interface {
	FindByID(ctx context.Context, id string) (*models.Internship, error)
	FindActiveByStudent(ctx context.Context, studentID string) (*models.Internship, error)
	List(ctx context.Context, filter models.InternshipFilter) ([]models.Internship, int, error)
	Create(ctx context.Context, internship *models.Internship) error
	UpdateMentor(ctx context.Context, internship *models.Internship) error
	SetStatus(ctx context.Context, id string, status models.InternshipStatus) error
}

type internshipStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

type internshipCacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// InternshipServiceParams bundles constructor dependencies.
type InternshipServiceParams struct {
	Repo      internshipRepository
	Students  internshipStudentReader
	Cache     internshipCacheInvalidator
	Validator *validator.Validate
	Logger    *zap.Logger
	Settings  *ComplianceSettings
}

// InternshipService manages internship registration and lifecycle.
type InternshipService struct {
	repo      internshipRepository
	students  internshipStudentReader
	cache     internshipCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	settings  *ComplianceSettings
}

// NewInternshipService constructs an InternshipService.
func NewInternshipService(params InternshipServiceParams) *InternshipService {
	if params.Validator == nil {
		params.Validator = validator.New()
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Settings == nil {
		params.Settings = NewComplianceSettings(engine.DefaultConfig())
	}
	return &InternshipService{
		repo:      params.Repo,
		students:  params.Students,
		cache:     params.Cache,
		validator: params.Validator,
		logger:    params.Logger,
		settings:  params.Settings,
	}
}

// Create registers a new internship for a student. The span must fall within
// the configured duration bounds and the student must not already hold an
// active internship.
func (s *InternshipService) Create(ctx context.Context, req dto.CreateInternshipRequest) (*models.Internship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid internship payload")
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be YYYY-MM-DD")
	}
	if err := s.validateSpan(start, end); err != nil {
		return nil, err
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is inactive")
	}

	existing, err := s.repo.FindActiveByStudent(ctx, req.StudentID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check active internship")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrActiveInternship, "")
	}

	internship := &models.Internship{
		StudentID:        req.StudentID,
		InstitutionID:    student.InstitutionID,
		OrganizationName: req.OrganizationName,
		MentorName:       req.MentorName,
		MentorEmail:      req.MentorEmail,
		MentorPhone:      req.MentorPhone,
		MentorActive:     true,
		StartDate:        start,
		EndDate:          end,
		Status:           models.InternshipActive,
	}
	if err := s.repo.Create(ctx, internship); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create internship")
	}

	s.invalidateDashboards(ctx, student.InstitutionID)
	s.logger.Info("internship registered",
		zap.String("internship_id", internship.ID),
		zap.String("student_id", internship.StudentID),
	)
	return internship, nil
}

// Get returns one internship by identifier.
func (s *InternshipService) Get(ctx context.Context, id string) (*models.Internship, error) {
	internship, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "internship not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load internship")
	}
	return internship, nil
}

// List returns internships matching the filter.
func (s *InternshipService) List(ctx context.Context, filter models.InternshipFilter) ([]models.Internship, int, error) {
	internships, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list internships")
	}
	return internships, total, nil
}

// UpdateMentor replaces or deactivates the assigned industry mentor.
// Deactivating the mentor immediately lowers the institution's mentor rate.
func (s *InternshipService) UpdateMentor(ctx context.Context, id string, req dto.UpdateMentorRequest) (*models.Internship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor payload")
	}

	internship, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if internship.Status != models.InternshipActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "internship is not active")
	}

	internship.MentorName = req.MentorName
	internship.MentorEmail = req.MentorEmail
	internship.MentorPhone = req.MentorPhone
	internship.MentorActive = req.MentorActive
	if err := s.repo.UpdateMentor(ctx, internship); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update mentor")
	}

	s.invalidateDashboards(ctx, internship.InstitutionID)
	return internship, nil
}

// Complete transitions an internship into a terminal status.
func (s *InternshipService) Complete(ctx context.Context, id string, req dto.CompleteInternshipRequest) (*models.Internship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid completion payload")
	}

	internship, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if internship.Status != models.InternshipActive {
		return nil, appErrors.Clone(appErrors.ErrConflict, "internship already closed")
	}

	status := models.InternshipStatus(req.Status)
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close internship")
	}
	internship.Status = status

	s.invalidateDashboards(ctx, internship.InstitutionID)
	return internship, nil
}

// validateSpan rejects spans shorter than the minimum or longer than the
// maximum allowed internship duration.
func (s *InternshipService) validateSpan(start, end time.Time) error {
	cfg := s.settings.Current()
	if end.Before(start) {
		return appErrors.Clone(appErrors.ErrValidation, "endDate is before startDate")
	}
	days := int(end.Sub(start).Hours()/24) + 1
	minDays := cfg.MinInternshipWeeks * 7
	if days < minDays {
		return appErrors.Clone(appErrors.ErrSpanOutOfBounds, fmt.Sprintf("internship must last at least %d weeks", cfg.MinInternshipWeeks))
	}
	if end.After(start.AddDate(0, cfg.MaxInternshipMonths, 0)) {
		return appErrors.Clone(appErrors.ErrSpanOutOfBounds, fmt.Sprintf("internship must not exceed %d months", cfg.MaxInternshipMonths))
	}
	return nil
}

func (s *InternshipService) invalidateDashboards(ctx context.Context, institutionID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.String("institution_id", institutionID), zap.Error(err))
	}
}
