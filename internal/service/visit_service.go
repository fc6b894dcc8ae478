package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/engine"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
)

type visitRepository interface {
	Create(ctx context.Context, visit *models.MentorVisit) error
	ListByInternship(ctx context.Context, internshipID string) ([]models.MentorVisit, error)
}

// VisitServiceParams bundles constructor dependencies.
type VisitServiceParams struct {
	Repo        visitRepository
	Internships reportInternshipReader
	Validator   *validator.Validate
	Logger      *zap.Logger
	Settings    *ComplianceSettings
	Now         func() time.Time
}

// VisitService manages mentor visit logging and timelines.
type VisitService struct {
	repo        visitRepository
	internships reportInternshipReader
	validator   *validator.Validate
	logger      *zap.Logger
	settings    *ComplianceSettings
	now         func() time.Time
}

// NewVisitService constructs a VisitService.
func NewVisitService(params VisitServiceParams) *VisitService {
	if params.Validator == nil {
		params.Validator = validator.New()
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	if params.Settings == nil {
		params.Settings = NewComplianceSettings(engine.DefaultConfig())
	}
	return &VisitService{
		repo:        params.Repo,
		internships: params.Internships,
		validator:   params.Validator,
		logger:      params.Logger,
		settings:    params.Settings,
		now:         params.Now,
	}
}

// Record logs a completed visit for a counted month. A visit logged after
// the month-end deadline still completes the obligation; the lapsed window
// remains visible on the timeline history.
func (s *VisitService) Record(ctx context.Context, internshipID, facultyID string, req dto.RecordVisitRequest) (*models.MentorVisit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid visit payload")
	}

	internship, err := s.loadInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if !s.isCountedMonth(internship, req.Year, req.Month) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month is not part of the internship visit cycle")
	}

	visits, err := s.repo.ListByInternship(ctx, internshipID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load visits")
	}
	for _, v := range visits {
		if v.Year == req.Year && v.Month == req.Month {
			return nil, appErrors.Clone(appErrors.ErrConflict, "visit already logged for this month")
		}
	}

	visitedAt, err := time.Parse(time.RFC3339, req.VisitedAt)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "visitedAt must be RFC3339")
	}

	visit := &models.MentorVisit{
		InternshipID: internshipID,
		FacultyID:    facultyID,
		Year:         req.Year,
		Month:        req.Month,
		VisitedAt:    visitedAt.UTC(),
		Notes:        req.Notes,
	}
	if err := s.repo.Create(ctx, visit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record visit")
	}
	return visit, nil
}

// Timeline classifies every counted month of the internship against the
// logged visits as of now.
func (s *VisitService) Timeline(ctx context.Context, internshipID string) ([]dto.VisitTimelineEntry, error) {
	internship, err := s.loadInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	visits, err := s.repo.ListByInternship(ctx, internshipID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load visits")
	}

	statuses := engine.VisitTimeline(internshipSpan(internship), s.settings.Current(), visitFacts(visits), s.now())
	entries := make([]dto.VisitTimelineEntry, 0, len(statuses))
	for _, st := range statuses {
		entries = append(entries, dto.VisitTimelineEntry{
			Year:    st.Obligation.Year,
			Month:   int(st.Obligation.Month),
			DueDate: st.Obligation.VisitDue.Format(time.RFC3339),
			State:   string(st.State),
		})
	}
	return entries, nil
}

func (s *VisitService) loadInternship(ctx context.Context, id string) (*models.Internship, error) {
	internship, err := s.internships.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "internship not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load internship")
	}
	return internship, nil
}

func (s *VisitService) isCountedMonth(internship *models.Internship, year, month int) bool {
	for _, m := range engine.PartitionMonths(internshipSpan(internship), s.settings.Current()) {
		if m.Year == year && m.Month == time.Month(month) {
			return true
		}
	}
	return false
}

func visitFacts(visits []models.MentorVisit) map[engine.MonthKey]engine.VisitFact {
	facts := make(map[engine.MonthKey]engine.VisitFact, len(visits))
	for _, v := range visits {
		facts[engine.MonthKey{Year: v.Year, Month: time.Month(v.Month)}] = engine.VisitFact{
			Year:        v.Year,
			Month:       time.Month(v.Month),
			CompletedAt: v.VisitedAt,
		}
	}
	return facts
}
