package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-compliance-api/internal/models"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
	"github.com/noah-isme/internship-compliance-api/pkg/storage"
)

type mockLetterInternships struct {
	internships map[string]*models.Internship
	letterPath  string
}

func (m *mockLetterInternships) FindByID(ctx context.Context, id string) (*models.Internship, error) {
	if i, ok := m.internships[id]; ok {
		return i, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLetterInternships) SetJoiningLetter(ctx context.Context, id, path string, uploadedAt time.Time) error {
	m.letterPath = path
	return nil
}

func newLetterService(t *testing.T, internships *mockLetterInternships) *LetterService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewLetterService(LetterServiceParams{
		Internships:  internships,
		Storage:      store,
		Signer:       storage.NewSignedURLSigner("test-secret", time.Minute),
		MaxFileSize:  1024,
		AllowedMIMEs: []string{"application/pdf"},
	})
}

func TestLetterUpload(t *testing.T) {
	internships := &mockLetterInternships{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := newLetterService(t, internships)

	updated, err := svc.Upload(context.Background(), "i1", "letter.pdf", "application/pdf", 100,
		strings.NewReader("joining letter body"), &models.JWTClaims{UserID: "stu1"})
	require.NoError(t, err)
	require.NotNil(t, updated.LetterPath)
	assert.True(t, updated.HasJoiningLetter())
	assert.Equal(t, *updated.LetterPath, internships.letterPath)
	assert.True(t, strings.HasPrefix(internships.letterPath, "letters/i1/"))
}

func TestLetterUploadRejectsMIME(t *testing.T) {
	internships := &mockLetterInternships{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := newLetterService(t, internships)

	_, err := svc.Upload(context.Background(), "i1", "letter.exe", "application/octet-stream", 100,
		strings.NewReader("nope"), &models.JWTClaims{UserID: "stu1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, internships.letterPath)
}

func TestLetterUploadRejectsOversize(t *testing.T) {
	internships := &mockLetterInternships{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := newLetterService(t, internships)

	_, err := svc.Upload(context.Background(), "i1", "letter.pdf", "application/pdf", 10*1024,
		strings.NewReader("too big"), &models.JWTClaims{UserID: "stu1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLetterDownloadRoundTrip(t *testing.T) {
	internships := &mockLetterInternships{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := newLetterService(t, internships)

	updated, err := svc.Upload(context.Background(), "i1", "letter.pdf", "application/pdf", 100,
		strings.NewReader("joining letter body"), &models.JWTClaims{UserID: "stu1"})
	require.NoError(t, err)
	internships.internships["i1"] = updated

	signed, err := svc.DownloadURL(context.Background(), "i1")
	require.NoError(t, err)
	require.NotEmpty(t, signed.Token)

	reader, name, err := svc.Resolve(signed.Token)
	require.NoError(t, err)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "joining letter body", string(body))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
}

func TestLetterDownloadWithoutUpload(t *testing.T) {
	internships := &mockLetterInternships{internships: map[string]*models.Internship{"i1": testInternship()}}
	svc := newLetterService(t, internships)

	_, err := svc.DownloadURL(context.Background(), "i1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
