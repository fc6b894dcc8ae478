package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/engine"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	"github.com/noah-isme/internship-compliance-api/internal/repository"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
)

type dashboardComplianceProvider interface {
	ForInstitution(ctx context.Context, institutionID string) (*dto.ComplianceSummary, error)
	Ranking(ctx context.Context) ([]dto.InstitutionCompliance, error)
	Overall(ctx context.Context) (*dto.ComplianceSummary, error)
}

type dashboardInternshipReader interface {
	ListActiveWithStudents(ctx context.Context, institutionID string) ([]repository.ActiveInternshipRow, error)
	FindActiveByStudent(ctx context.Context, studentID string) (*models.Internship, error)
}

type dashboardReportReader interface {
	ListByInternships(ctx context.Context, internshipIDs []string) ([]models.MonthlyReport, error)
	ListByInternship(ctx context.Context, internshipID string) ([]models.MonthlyReport, error)
}

type dashboardVisitReader interface {
	ListByInternships(ctx context.Context, internshipIDs []string) ([]models.MentorVisit, error)
	ListByInternship(ctx context.Context, internshipID string) ([]models.MentorVisit, error)
	ListRecentByFaculty(ctx context.Context, facultyID string, limit int) ([]models.MentorVisit, error)
}

type dashboardUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// DashboardServiceParams bundles constructor dependencies.
type DashboardServiceParams struct {
	Compliance  dashboardComplianceProvider
	Internships dashboardInternshipReader
	Reports     dashboardReportReader
	Visits      dashboardVisitReader
	Users       dashboardUserReader
	Cache       *CacheService
	Logger      *zap.Logger
	Settings    *ComplianceSettings
	CacheTTL    time.Duration
	Now         func() time.Time
}

// DashboardService assembles the role-scoped dashboard payloads. Every
// status and score it shows is derived through the calculation engine at
// read time; nothing is precomputed in the database.
type DashboardService struct {
	compliance  dashboardComplianceProvider
	internships dashboardInternshipReader
	reports     dashboardReportReader
	visits      dashboardVisitReader
	users       dashboardUserReader
	cache       *CacheService
	logger      *zap.Logger
	settings    *ComplianceSettings
	cacheTTL    time.Duration
	now         func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	if params.Settings == nil {
		params.Settings = NewComplianceSettings(engine.DefaultConfig())
	}
	return &DashboardService{
		compliance:  params.Compliance,
		internships: params.Internships,
		reports:     params.Reports,
		visits:      params.Visits,
		users:       params.Users,
		cache:       params.Cache,
		logger:      params.Logger,
		settings:    params.Settings,
		cacheTTL:    params.CacheTTL,
		now:         params.Now,
	}
}

// State builds the statewide dashboard with the worst-first institution
// ranking.
func (s *DashboardService) State(ctx context.Context) (*dto.StateDashboardResponse, error) {
	const cacheKey = "dashboard:state"
	var cached dto.StateDashboardResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	overall, err := s.compliance.Overall(ctx)
	if err != nil {
		return nil, err
	}
	ranking, err := s.compliance.Ranking(ctx)
	if err != nil {
		return nil, err
	}

	tierCounts := make(map[string]int)
	for _, entry := range ranking {
		if entry.Compliance.Tier != "" {
			tierCounts[entry.Compliance.Tier]++
		}
	}

	resp := &dto.StateDashboardResponse{
		Institutions:      len(ranking),
		ActiveStudents:    overall.ActiveStudents,
		ActiveInternships: overall.ActiveStudents,
		Overall:           *overall,
		TierCounts:        tierCounts,
		Ranking:           ranking,
	}
	if err := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache state dashboard", zap.Error(err))
	}
	return resp, nil
}

// Principal builds one institution's dashboard with overdue counts and the
// attention list.
func (s *DashboardService) Principal(ctx context.Context, institutionID string) (*dto.PrincipalDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:principal:%s", institutionID)
	var cached dto.PrincipalDashboardResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	summary, err := s.compliance.ForInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	rows, err := s.internships.ListActiveWithStudents(ctx, institutionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load internships")
	}

	reportsByID, visitsByID, err := s.factsFor(ctx, rows)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cfg := s.settings.Current()
	resp := &dto.PrincipalDashboardResponse{
		InstitutionID: institutionID,
		Compliance:    *summary,
		Attention:     []dto.StudentFlag{},
	}
	for _, row := range rows {
		span := engine.Span{Start: row.StartDate, End: row.EndDate}
		var reasons []string

		reportStatuses := engine.ReportTimeline(span, cfg, reportsByID[row.ID], now)
		for _, st := range reportStatuses {
			if st.State == engine.ReportOverdue {
				resp.OverdueReports++
				reasons = append(reasons, "overdue report")
				break
			}
		}

		visitStatuses := engine.VisitTimeline(span, cfg, visitsByID[row.ID], now)
		for _, st := range visitStatuses {
			if st.State == engine.VisitOverdue {
				resp.OverdueVisits++
				reasons = append(reasons, "overdue visit")
				break
			}
		}

		if !row.HasJoiningLetter() {
			resp.MissingLetters++
			reasons = append(reasons, "missing joining letter")
		}

		for _, reason := range reasons {
			resp.Attention = append(resp.Attention, dto.StudentFlag{
				StudentID: row.StudentID,
				FullName:  row.StudentName,
				Reason:    reason,
			})
		}
	}

	if err := s.cache.Set(ctx, cacheKey, resp, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache principal dashboard", zap.Error(err))
	}
	return resp, nil
}

// Faculty builds the visit workload view for one faculty member.
func (s *DashboardService) Faculty(ctx context.Context, facultyID string) (*dto.FacultyDashboardResponse, error) {
	faculty, err := s.users.FindByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	if faculty.InstitutionID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "faculty has no institution")
	}

	rows, err := s.internships.ListActiveWithStudents(ctx, *faculty.InstitutionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load internships")
	}
	_, visitsByID, err := s.factsFor(ctx, rows)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cfg := s.settings.Current()
	resp := &dto.FacultyDashboardResponse{
		FacultyID:        facultyID,
		AssignedStudents: len(rows),
		PendingVisits:    []dto.PendingVisit{},
		OverdueVisits:    []dto.PendingVisit{},
		RecentVisits:     []dto.CompletedVisit{},
	}
	studentNames := make(map[string]string, len(rows))
	for _, row := range rows {
		studentNames[row.ID] = row.StudentName
		span := engine.Span{Start: row.StartDate, End: row.EndDate}
		for _, st := range engine.VisitTimeline(span, cfg, visitsByID[row.ID], now) {
			entry := dto.PendingVisit{
				InternshipID:     row.ID,
				StudentName:      row.StudentName,
				OrganizationName: row.OrganizationName,
				Year:             st.Obligation.Year,
				Month:            int(st.Obligation.Month),
				DueDate:          st.Obligation.VisitDue.Format(time.RFC3339),
			}
			switch st.State {
			case engine.VisitPending:
				resp.PendingVisits = append(resp.PendingVisits, entry)
			case engine.VisitOverdue:
				resp.OverdueVisits = append(resp.OverdueVisits, entry)
			}
		}
	}

	recent, err := s.visits.ListRecentByFaculty(ctx, facultyID, 10)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent visits")
	}
	for _, v := range recent {
		resp.RecentVisits = append(resp.RecentVisits, dto.CompletedVisit{
			InternshipID: v.InternshipID,
			StudentName:  studentNames[v.InternshipID],
			Year:         v.Year,
			Month:        v.Month,
			VisitedAt:    v.VisitedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// Student builds one student's progress view. A student without an active
// internship gets an empty shell rather than an error.
func (s *DashboardService) Student(ctx context.Context, studentID string) (*dto.StudentDashboardResponse, error) {
	resp := &dto.StudentDashboardResponse{
		StudentID:      studentID,
		ReportTimeline: []dto.ReportTimelineEntry{},
		VisitTimeline:  []dto.VisitTimelineEntry{},
	}

	internship, err := s.internships.FindActiveByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load internship")
	}

	resp.InternshipID = &internship.ID
	resp.OrganizationName = &internship.OrganizationName
	resp.HasJoiningLetter = internship.HasJoiningLetter()

	reports, err := s.reports.ListByInternship(ctx, internship.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reports")
	}
	visits, err := s.visits.ListByInternship(ctx, internship.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load visits")
	}

	now := s.now()
	cfg := s.settings.Current()
	span := engine.Span{Start: internship.StartDate, End: internship.EndDate}
	months := engine.PartitionMonths(span, cfg)

	reportExpected := engine.Expected(months, cfg, engine.KindReport, now)
	visitExpected := engine.Expected(months, cfg, engine.KindVisit, now)

	for _, st := range engine.ReportTimeline(span, cfg, reportFacts(reports), now) {
		entry := dto.ReportTimelineEntry{
			Year:     st.Obligation.Year,
			Month:    int(st.Obligation.Month),
			DueDate:  st.Obligation.ReportDue.Format(time.RFC3339),
			State:    string(st.State),
			IsLate:   st.IsLate,
			DaysLate: st.DaysLate,
			InGrace:  st.InGrace,
		}
		resp.ReportTimeline = append(resp.ReportTimeline, entry)
		if st.State == engine.ReportApproved {
			resp.Reports.Completed++
		}
		if resp.NextReportDue == nil && st.State == engine.ReportNotStarted {
			due := entry.DueDate
			resp.NextReportDue = &due
		}
	}
	resp.Reports.Total = reportExpected.Total
	resp.Reports.SoFar = reportExpected.SoFar

	for _, st := range engine.VisitTimeline(span, cfg, visitFacts(visits), now) {
		entry := dto.VisitTimelineEntry{
			Year:    st.Obligation.Year,
			Month:   int(st.Obligation.Month),
			DueDate: st.Obligation.VisitDue.Format(time.RFC3339),
			State:   string(st.State),
		}
		resp.VisitTimeline = append(resp.VisitTimeline, entry)
		if st.State == engine.VisitCompleted {
			resp.Visits.Completed++
		}
		if resp.NextVisitDue == nil && (st.State == engine.VisitPending || st.State == engine.VisitUpcoming) {
			due := entry.DueDate
			resp.NextVisitDue = &due
		}
	}
	resp.Visits.Total = visitExpected.Total
	resp.Visits.SoFar = visitExpected.SoFar

	return resp, nil
}

func (s *DashboardService) factsFor(ctx context.Context, rows []repository.ActiveInternshipRow) (map[string]map[engine.MonthKey]engine.ReportFact, map[string]map[engine.MonthKey]engine.VisitFact, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	reports, err := s.reports.ListByInternships(ctx, ids)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reports")
	}
	visits, err := s.visits.ListByInternships(ctx, ids)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load visits")
	}

	reportsByID := make(map[string]map[engine.MonthKey]engine.ReportFact)
	for _, r := range reports {
		if reportsByID[r.InternshipID] == nil {
			reportsByID[r.InternshipID] = make(map[engine.MonthKey]engine.ReportFact)
		}
		reportsByID[r.InternshipID][engine.MonthKey{Year: r.Year, Month: time.Month(r.Month)}] = engine.ReportFact{
			Year:        r.Year,
			Month:       time.Month(r.Month),
			SubmittedAt: r.SubmittedAt,
			Draft:       r.Status == models.ReportStatusDraft,
		}
	}
	visitsByID := make(map[string]map[engine.MonthKey]engine.VisitFact)
	for _, v := range visits {
		if visitsByID[v.InternshipID] == nil {
			visitsByID[v.InternshipID] = make(map[engine.MonthKey]engine.VisitFact)
		}
		visitsByID[v.InternshipID][engine.MonthKey{Year: v.Year, Month: time.Month(v.Month)}] = engine.VisitFact{
			Year:        v.Year,
			Month:       time.Month(v.Month),
			CompletedAt: v.VisitedAt,
		}
	}
	return reportsByID, visitsByID, nil
}
