package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-compliance-api/internal/models"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/storage"
)

type letterInternshipRepository interface {
	FindByID(ctx context.Context, id string) (*models.Internship, error)
	SetJoiningLetter(ctx context.Context, id, path string, uploadedAt time.Time) error
}

type letterAuditLogger interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// LetterSignedURL pairs a download token with its expiry.
type LetterSignedURL struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LetterServiceParams bundles constructor dependencies.
type LetterServiceParams struct {
	Internships  letterInternshipRepository
	Audit        letterAuditLogger
	Storage      *storage.LocalStorage
	Signer       *storage.SignedURLSigner
	Cache        *CacheService
	Logger       *zap.Logger
	MaxFileSize  int64
	AllowedMIMEs []string
}

// LetterService stores joining letters and hands out signed download URLs.
// The upload itself is what flips the institution's joining-letter rate.
type LetterService struct {
	internships  letterInternshipRepository
	audit        letterAuditLogger
	storage      *storage.LocalStorage
	signer       *storage.SignedURLSigner
	cache        *CacheService
	logger       *zap.Logger
	maxFileSize  int64
	allowedMIMEs map[string]bool
}

// NewLetterService constructs a LetterService.
func NewLetterService(params LetterServiceParams) *LetterService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.MaxFileSize <= 0 {
		params.MaxFileSize = 5 * 1024 * 1024
	}
	allowed := make(map[string]bool, len(params.AllowedMIMEs))
	for _, mime := range params.AllowedMIMEs {
		allowed[strings.ToLower(strings.TrimSpace(mime))] = true
	}
	return &LetterService{
		internships:  params.Internships,
		audit:        params.Audit,
		storage:      params.Storage,
		signer:       params.Signer,
		cache:        params.Cache,
		logger:       params.Logger,
		maxFileSize:  params.MaxFileSize,
		allowedMIMEs: allowed,
	}
}

// Upload validates and stores a joining letter for an internship,
// overwriting any previous letter reference.
func (s *LetterService) Upload(ctx context.Context, internshipID, filename, contentType string, size int64, r io.Reader, actor *models.JWTClaims) (*models.Internship, error) {
	if size > s.maxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds maximum size of %d bytes", s.maxFileSize))
	}
	if len(s.allowedMIMEs) > 0 && !s.allowedMIMEs[strings.ToLower(contentType)] {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported file type")
	}

	internship, err := s.internships.FindByID(ctx, internshipID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "internship not found")
	}
	if internship.Status != models.InternshipActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "internship is not active")
	}

	ext := path.Ext(filename)
	relPath := fmt.Sprintf("letters/%s/%s%s", internshipID, uuid.NewString(), ext)
	if _, err := s.storage.SaveStream(relPath, io.LimitReader(r, s.maxFileSize)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store letter")
	}

	uploadedAt := time.Now().UTC()
	if err := s.internships.SetJoiningLetter(ctx, internshipID, relPath, uploadedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record letter")
	}
	internship.LetterPath = &relPath
	internship.LetterUploadedAt = &uploadedAt

	if s.audit != nil && actor != nil {
		newValue := relPath
		if err := s.audit.Create(ctx, &models.AuditLog{
			ActorID:  actor.UserID,
			Action:   models.AuditActionLetterUpload,
			Entity:   "internship",
			EntityID: internshipID,
			NewValue: &newValue,
		}); err != nil {
			s.logger.Warn("failed to record letter audit", zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
			s.logger.Warn("failed to invalidate dashboards after letter upload", zap.Error(err))
		}
	}
	return internship, nil
}

// DownloadURL issues a signed token for the internship's stored letter.
func (s *LetterService) DownloadURL(ctx context.Context, internshipID string) (*LetterSignedURL, error) {
	internship, err := s.internships.FindByID(ctx, internshipID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "internship not found")
	}
	if !internship.HasJoiningLetter() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no joining letter uploaded")
	}
	token, expiresAt, err := s.signer.Generate(internshipID, *internship.LetterPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}
	return &LetterSignedURL{Token: token, ExpiresAt: expiresAt}, nil
}

// Resolve validates a signed token and opens the referenced letter file.
func (s *LetterService) Resolve(token string) (io.ReadCloser, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "letter file missing")
	}
	return file, path.Base(relPath), nil
}
