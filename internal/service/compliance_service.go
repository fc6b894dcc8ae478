package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/engine"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
)

type complianceRepository interface {
	SnapshotByInstitution(ctx context.Context, institutionID string) (*models.ComplianceSnapshot, error)
	SnapshotAll(ctx context.Context) ([]models.ComplianceSnapshot, error)
}

type complianceInstitutionReader interface {
	FindByID(ctx context.Context, id string) (*models.Institution, error)
	List(ctx context.Context, filter models.InstitutionFilter) ([]models.Institution, int, error)
}

// ComplianceService is the only path from snapshot counts to scores. All
// dashboards and exports flow through it so the formula lives in one place.
type ComplianceService struct {
	repo         complianceRepository
	institutions complianceInstitutionReader
	logger       *zap.Logger
	settings     *ComplianceSettings
}

// NewComplianceService constructs a ComplianceService.
func NewComplianceService(repo complianceRepository, institutions complianceInstitutionReader, logger *zap.Logger, settings *ComplianceSettings) *ComplianceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings == nil {
		settings = NewComplianceSettings(engine.DefaultConfig())
	}
	return &ComplianceService{repo: repo, institutions: institutions, logger: logger, settings: settings}
}

// ForInstitution returns one institution's compliance summary.
func (s *ComplianceService) ForInstitution(ctx context.Context, institutionID string) (*dto.ComplianceSummary, error) {
	if _, err := s.institutions.FindByID(ctx, institutionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}

	snap, err := s.repo.SnapshotByInstitution(ctx, institutionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load compliance snapshot")
	}
	summary := s.summarize(*snap)
	return &summary, nil
}

// Ranking returns every institution paired with its compliance summary,
// sorted worst-first so intervention cases surface at the top. Institutions
// without a score sort last.
func (s *ComplianceService) Ranking(ctx context.Context) ([]dto.InstitutionCompliance, error) {
	snaps, err := s.repo.SnapshotAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load compliance snapshots")
	}
	byInstitution := make(map[string]models.ComplianceSnapshot, len(snaps))
	for _, snap := range snaps {
		byInstitution[snap.InstitutionID] = snap
	}

	institutions, _, err := s.institutions.List(ctx, models.InstitutionFilter{PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list institutions")
	}

	ranking := make([]dto.InstitutionCompliance, 0, len(institutions))
	for _, inst := range institutions {
		snap := byInstitution[inst.ID]
		snap.InstitutionID = inst.ID
		ranking = append(ranking, dto.InstitutionCompliance{
			InstitutionID: inst.ID,
			Code:          inst.Code,
			Name:          inst.Name,
			District:      inst.District,
			Compliance:    s.summarize(snap),
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		a, b := ranking[i].Compliance.Score, ranking[j].Compliance.Score
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
	return ranking, nil
}

// Overall aggregates every snapshot into a single statewide summary.
func (s *ComplianceService) Overall(ctx context.Context) (*dto.ComplianceSummary, error) {
	snaps, err := s.repo.SnapshotAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load compliance snapshots")
	}
	var total models.ComplianceSnapshot
	for _, snap := range snaps {
		total.ActiveStudents += snap.ActiveStudents
		total.WithActiveMentor += snap.WithActiveMentor
		total.WithJoiningLetter += snap.WithJoiningLetter
	}
	summary := s.summarize(total)
	return &summary, nil
}

func (s *ComplianceService) summarize(snap models.ComplianceSnapshot) dto.ComplianceSummary {
	result := engine.ComputeCompliance(engine.ComplianceInput{
		ActiveStudents:    snap.ActiveStudents,
		WithActiveMentor:  snap.WithActiveMentor,
		WithJoiningLetter: snap.WithJoiningLetter,
	}, s.settings.Current())

	return dto.ComplianceSummary{
		ActiveStudents:    snap.ActiveStudents,
		WithActiveMentor:  snap.WithActiveMentor,
		WithJoiningLetter: snap.WithJoiningLetter,
		MentorRate:        result.MentorRate,
		JoiningLetterRate: result.JoiningLetterRate,
		Score:             result.Score,
		Tier:              string(result.Tier),
	}
}
