package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/export"
	"github.com/noah-isme/internship-compliance-api/pkg/jobs"
	"github.com/noah-isme/internship-compliance-api/pkg/storage"
)

// ExportFormat enumerates supported output formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportState tracks an export request through its lifecycle.
type ExportState string

const (
	ExportStatePending   ExportState = "PENDING"
	ExportStateRunning   ExportState = "RUNNING"
	ExportStateCompleted ExportState = "COMPLETED"
	ExportStateFailed    ExportState = "FAILED"
)

// ExportJob is the tracked record for one requested export.
type ExportJob struct {
	ID          string       `json:"id"`
	Format      ExportFormat `json:"format"`
	State       ExportState  `json:"state"`
	RequestedBy string       `json:"requested_by"`
	RequestedAt time.Time    `json:"requested_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Error       string       `json:"error,omitempty"`
	Token       string       `json:"token,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`

	filePath string
}

type exportRanker interface {
	Ranking(ctx context.Context) ([]dto.InstitutionCompliance, error)
}

// ExportServiceParams bundles constructor dependencies.
type ExportServiceParams struct {
	Compliance exportRanker
	Storage    *storage.LocalStorage
	Signer     *storage.SignedURLSigner
	Logger     *zap.Logger
	Workers    int
	Retries    int
	FileTTL    time.Duration
}

// ExportService generates statewide compliance exports in the background
// and serves the results through signed URLs.
type ExportService struct {
	compliance exportRanker
	storage    *storage.LocalStorage
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	queue      *jobs.Queue
	fileTTL    time.Duration

	mu      sync.RWMutex
	tracked map[string]*ExportJob
}

// NewExportService constructs an ExportService. Start must be called before
// exports can be requested.
func NewExportService(params ExportServiceParams) *ExportService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.FileTTL <= 0 {
		params.FileTTL = 24 * time.Hour
	}
	s := &ExportService{
		compliance: params.Compliance,
		storage:    params.Storage,
		signer:     params.Signer,
		logger:     params.Logger,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		fileTTL:    params.FileTTL,
		tracked:    make(map[string]*ExportJob),
	}
	s.queue = jobs.NewQueue("compliance-exports", s.process, jobs.QueueConfig{
		Workers:    params.Workers,
		MaxRetries: params.Retries,
		Logger:     params.Logger,
	})
	return s
}

// Start launches the worker pool and the file cleanup loop.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	go s.cleanupLoop(ctx)
}

// Stop drains the worker pool.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Request enqueues a new export and returns its tracking record.
func (s *ExportService) Request(ctx context.Context, format ExportFormat, requestedBy string) (*ExportJob, error) {
	switch format {
	case ExportFormatCSV, ExportFormatPDF:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	job := &ExportJob{
		ID:          uuid.NewString(),
		Format:      format,
		State:       ExportStatePending,
		RequestedBy: requestedBy,
		RequestedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.tracked[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(format)}); err != nil {
		s.mu.Lock()
		delete(s.tracked, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	return s.snapshot(job.ID), nil
}

// Status returns the current state of an export, including a signed
// download token once completed.
func (s *ExportService) Status(id string) (*ExportJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	return job, nil
}

// Resolve validates a signed token and opens the export file for streaming.
func (s *ExportService) Resolve(token string) ([]byte, string, error) {
	id, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file missing")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export file")
	}
	ext := strings.TrimPrefix(path.Ext(relPath), ".")
	return data, fmt.Sprintf("compliance-%s.%s", id, ext), nil
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	s.setState(job.ID, ExportStateRunning, "")

	ranking, err := s.compliance.Ranking(ctx)
	if err != nil {
		s.setState(job.ID, ExportStateFailed, err.Error())
		return err
	}
	dataset := rankingDataset(ranking)

	var payload []byte
	switch ExportFormat(job.Type) {
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.setState(job.ID, ExportStateFailed, err.Error())
		return err
	}

	relPath := fmt.Sprintf("exports/%s.%s", job.ID, job.Type)
	if _, err := s.storage.Save(relPath, payload); err != nil {
		s.setState(job.ID, ExportStateFailed, err.Error())
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.setState(job.ID, ExportStateFailed, err.Error())
		return err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if tracked, ok := s.tracked[job.ID]; ok {
		tracked.State = ExportStateCompleted
		tracked.CompletedAt = &now
		tracked.Token = token
		tracked.ExpiresAt = &expiresAt
		tracked.filePath = relPath
		tracked.Error = ""
	}
	s.mu.Unlock()

	s.logger.Info("export completed",
		zap.String("export_id", job.ID),
		zap.String("format", job.Type),
		zap.Int("institutions", len(ranking)))
	return nil
}

func (s *ExportService) setState(id string, state ExportState, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.tracked[id]; ok {
		job.State = state
		job.Error = errMsg
	}
}

func (s *ExportService) snapshot(id string) *ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.tracked[id]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

func (s *ExportService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.fileTTL / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.storage.CleanupOlderThan(s.fileTTL)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
			}
			s.pruneTracked()
		}
	}
}

func (s *ExportService) pruneTracked() {
	cutoff := time.Now().UTC().Add(-s.fileTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.tracked {
		if job.RequestedAt.Before(cutoff) {
			delete(s.tracked, id)
		}
	}
}

func rankingDataset(ranking []dto.InstitutionCompliance) export.Dataset {
	sorted := make([]dto.InstitutionCompliance, len(ranking))
	copy(sorted, ranking)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	rows := make([]map[string]string, 0, len(sorted))
	for _, inst := range sorted {
		rows = append(rows, map[string]string{
			"Code":                inst.Code,
			"Institution":         inst.Name,
			"District":            inst.District,
			"Active Students":     strconv.Itoa(inst.Compliance.ActiveStudents),
			"With Active Mentor":  strconv.Itoa(inst.Compliance.WithActiveMentor),
			"With Joining Letter": strconv.Itoa(inst.Compliance.WithJoiningLetter),
			"Mentor Rate":         formatOptional(inst.Compliance.MentorRate),
			"Letter Rate":         formatOptional(inst.Compliance.JoiningLetterRate),
			"Score":               formatOptional(inst.Compliance.Score),
			"Tier":                inst.Compliance.Tier,
		})
	}
	return export.Dataset{
		Title:       "Statewide Internship Compliance",
		GeneratedAt: time.Now().UTC(),
		Headers: []string{
			"Code", "Institution", "District",
			"Active Students", "With Active Mentor", "With Joining Letter",
			"Mentor Rate", "Letter Rate", "Score", "Tier",
		},
		Rows: rows,
	}
}

// formatOptional renders a missing rate or score as N/A, never as zero.
func formatOptional(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}
