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

type reportRepository interface {
	FindByMonth(ctx context.Context, internshipID string, year, month int) (*models.MonthlyReport, error)
	ListByInternship(ctx context.Context, internshipID string) ([]models.MonthlyReport, error)
	SaveDraft(ctx context.Context, report *models.MonthlyReport) error
	Submit(ctx context.Context, report *models.MonthlyReport) error
}

type reportInternshipReader interface {
	FindByID(ctx context.Context, id string) (*models.Internship, error)
}

// ReportServiceParams bundles constructor dependencies.
type ReportServiceParams struct {
	Repo        reportRepository
	Internships reportInternshipReader
	Validator   *validator.Validate
	Logger      *zap.Logger
	Settings    *ComplianceSettings
	Now         func() time.Time
}

// ReportService manages monthly report drafts, submissions and timelines.
type ReportService struct {
	repo        reportRepository
	internships reportInternshipReader
	validator   *validator.Validate
	logger      *zap.Logger
	settings    *ComplianceSettings
	now         func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(params ReportServiceParams) *ReportService {
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
	return &ReportService{
		repo:        params.Repo,
		internships: params.Internships,
		validator:   params.Validator,
		logger:      params.Logger,
		settings:    params.Settings,
		now:         params.Now,
	}
}

// SaveDraft stores or updates a draft for a counted month. Drafts never
// change the month's lateness and an approved report is never downgraded.
func (s *ReportService) SaveDraft(ctx context.Context, internshipID string, req dto.SaveReportDraftRequest) (*models.MonthlyReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
	}

	internship, err := s.loadInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if _, ok := s.countedMonth(internship, req.Year, req.Month); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month is not part of the internship reporting cycle")
	}

	existing, err := s.repo.FindByMonth(ctx, internshipID, req.Year, req.Month)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	if existing != nil && existing.Status == models.ReportStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrConflict, "report already submitted")
	}

	report := &models.MonthlyReport{
		InternshipID: internshipID,
		Year:         req.Year,
		Month:        req.Month,
		Summary:      req.Summary,
		Status:       models.ReportStatusDraft,
	}
	if existing != nil {
		report.ID = existing.ID
		report.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.SaveDraft(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save draft")
	}
	return report, nil
}

// Submit approves the report for a counted month. The submission instant is
// compared against the month's due date and the resulting lateness is
// persisted on the record; late reports are accepted without penalty to the
// report state itself.
func (s *ReportService) Submit(ctx context.Context, internshipID string, req dto.SubmitReportRequest) (*models.MonthlyReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	internship, err := s.loadInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	month, ok := s.countedMonth(internship, req.Year, req.Month)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month is not part of the internship reporting cycle")
	}

	existing, err := s.repo.FindByMonth(ctx, internshipID, req.Year, req.Month)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	if existing != nil && existing.Status == models.ReportStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrConflict, "report already submitted")
	}

	cfg := s.settings.Current()
	submittedAt := s.now()
	ob := engine.DueDates(month, cfg)
	verdict := engine.ClassifyReport(ob, &engine.ReportFact{
		Year:        req.Year,
		Month:       time.Month(req.Month),
		SubmittedAt: &submittedAt,
	}, cfg, submittedAt)

	report := &models.MonthlyReport{
		InternshipID:     internshipID,
		Year:             req.Year,
		Month:            req.Month,
		Summary:          req.Summary,
		Status:           models.ReportStatusApproved,
		SubmittedAt:      &submittedAt,
		IsLateSubmission: verdict.IsLate,
		DaysLate:         verdict.DaysLate,
	}
	if existing != nil {
		report.ID = existing.ID
		report.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.Submit(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit report")
	}

	if verdict.IsLate {
		s.logger.Info("late report accepted",
			zap.String("internship_id", internshipID),
			zap.Int("year", req.Year),
			zap.Int("month", req.Month),
			zap.Int("days_late", verdict.DaysLate),
		)
	}
	return report, nil
}

// Timeline classifies every counted month of the internship against the
// stored reports as of now.
func (s *ReportService) Timeline(ctx context.Context, internshipID string) ([]dto.ReportTimelineEntry, error) {
	internship, err := s.loadInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	reports, err := s.repo.ListByInternship(ctx, internshipID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reports")
	}

	statuses := engine.ReportTimeline(internshipSpan(internship), s.settings.Current(), reportFacts(reports), s.now())
	entries := make([]dto.ReportTimelineEntry, 0, len(statuses))
	for _, st := range statuses {
		entries = append(entries, dto.ReportTimelineEntry{
			Year:     st.Obligation.Year,
			Month:    int(st.Obligation.Month),
			DueDate:  st.Obligation.ReportDue.Format(time.RFC3339),
			State:    string(st.State),
			IsLate:   st.IsLate,
			DaysLate: st.DaysLate,
			InGrace:  st.InGrace,
		})
	}
	return entries, nil
}

func (s *ReportService) loadInternship(ctx context.Context, id string) (*models.Internship, error) {
	internship, err := s.internships.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "internship not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load internship")
	}
	return internship, nil
}

func (s *ReportService) countedMonth(internship *models.Internship, year, month int) (engine.CountedMonth, bool) {
	for _, m := range engine.PartitionMonths(internshipSpan(internship), s.settings.Current()) {
		if m.Year == year && m.Month == time.Month(month) {
			return m, true
		}
	}
	return engine.CountedMonth{}, false
}

func internshipSpan(internship *models.Internship) engine.Span {
	return engine.Span{Start: internship.StartDate, End: internship.EndDate}
}

func reportFacts(reports []models.MonthlyReport) map[engine.MonthKey]engine.ReportFact {
	facts := make(map[engine.MonthKey]engine.ReportFact, len(reports))
	for _, r := range reports {
		facts[engine.MonthKey{Year: r.Year, Month: time.Month(r.Month)}] = engine.ReportFact{
			Year:        r.Year,
			Month:       time.Month(r.Month),
			SubmittedAt: r.SubmittedAt,
			Draft:       r.Status == models.ReportStatusDraft,
		}
	}
	return facts
}
