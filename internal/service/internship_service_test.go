package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-compliance-api/internal/dto"
	"github.com/noah-isme/internship-compliance-api/internal/models"
	appErrors "github.com/noah-isme/internship-compliance-api/pkg/errors"
)

type mockInternshipRepo struct {
	internships map[string]*models.Internship
	activeByStu map[string]*models.Internship
	created     []*models.Internship
}

func (m *mockInternshipRepo) FindByID(ctx context.Context, id string) (*models.Internship, error) {
	if i, ok := m.internships[id]; ok {
		return i, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInternshipRepo) FindActiveByStudent(ctx context.Context, studentID string) (*models.Internship, error) {
	if i, ok := m.activeByStu[studentID]; ok {
		return i, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInternshipRepo) List(ctx context.Context, filter models.InternshipFilter) ([]models.Internship, int, error) {
	var list []models.Internship
	for _, i := range m.internships {
		list = append(list, *i)
	}
	return list, len(list), nil
}

func (m *mockInternshipRepo) Create(ctx context.Context, internship *models.Internship) error {
	internship.ID = "new-internship"
	m.created = append(m.created, internship)
	return nil
}

func (m *mockInternshipRepo) UpdateMentor(ctx context.Context, internship *models.Internship) error {
	m.internships[internship.ID] = internship
	return nil
}

func (m *mockInternshipRepo) SetStatus(ctx context.Context, id string, status models.InternshipStatus) error {
	if i, ok := m.internships[id]; ok {
		i.Status = status
	}
	return nil
}

type mockStudentReader struct {
	students map[string]*models.StudentDetail
}

func (m *mockStudentReader) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockCacheInvalidator struct {
	patterns []string
}

func (m *mockCacheInvalidator) Invalidate(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

const testStudentID = "a2f1d8c0-0000-4000-8000-000000000001"

func activeStudent() *models.StudentDetail {
	return &models.StudentDetail{Student: models.Student{
		ID:            testStudentID,
		FullName:      "Arun Kumar",
		InstitutionID: "inst1",
		Active:        true,
	}}
}

func TestInternshipCreate(t *testing.T) {
	repo := &mockInternshipRepo{internships: map[string]*models.Internship{}, activeByStu: map[string]*models.Internship{}}
	cache := &mockCacheInvalidator{}
	svc := NewInternshipService(InternshipServiceParams{
		Repo:     repo,
		Students: &mockStudentReader{students: map[string]*models.StudentDetail{testStudentID: activeStudent()}},
		Cache:    cache,
	})

	internship, err := svc.Create(context.Background(), dto.CreateInternshipRequest{
		StudentID:        testStudentID,
		OrganizationName: "Acme Industries",
		MentorName:       "Priya Singh",
		MentorEmail:      "priya@acme.example",
		StartDate:        "2026-01-10",
		EndDate:          "2026-06-10",
	})
	require.NoError(t, err)
	assert.Equal(t, models.InternshipActive, internship.Status)
	assert.True(t, internship.MentorActive)
	assert.Equal(t, "inst1", internship.InstitutionID)
	assert.Contains(t, cache.patterns, "dashboard:*")
}

func TestInternshipCreateRejectsShortSpan(t *testing.T) {
	svc := NewInternshipService(InternshipServiceParams{
		Repo:     &mockInternshipRepo{},
		Students: &mockStudentReader{students: map[string]*models.StudentDetail{testStudentID: activeStudent()}},
	})

	_, err := svc.Create(context.Background(), dto.CreateInternshipRequest{
		StudentID:        testStudentID,
		OrganizationName: "Acme Industries",
		MentorName:       "Priya Singh",
		MentorEmail:      "priya@acme.example",
		StartDate:        "2026-01-10",
		EndDate:          "2026-01-20",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSpanOutOfBounds.Code, appErr.Code)
}

func TestInternshipCreateRejectsLongSpan(t *testing.T) {
	svc := NewInternshipService(InternshipServiceParams{
		Repo:     &mockInternshipRepo{},
		Students: &mockStudentReader{students: map[string]*models.StudentDetail{testStudentID: activeStudent()}},
	})

	_, err := svc.Create(context.Background(), dto.CreateInternshipRequest{
		StudentID:        testStudentID,
		OrganizationName: "Acme Industries",
		MentorName:       "Priya Singh",
		MentorEmail:      "priya@acme.example",
		StartDate:        "2026-01-10",
		EndDate:          "2027-06-10",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSpanOutOfBounds.Code, appErr.Code)
}

func TestInternshipCreateRejectsSecondActive(t *testing.T) {
	repo := &mockInternshipRepo{
		internships: map[string]*models.Internship{},
		activeByStu: map[string]*models.Internship{testStudentID: {ID: "existing", Status: models.InternshipActive}},
	}
	svc := NewInternshipService(InternshipServiceParams{
		Repo:     repo,
		Students: &mockStudentReader{students: map[string]*models.StudentDetail{testStudentID: activeStudent()}},
	})

	_, err := svc.Create(context.Background(), dto.CreateInternshipRequest{
		StudentID:        testStudentID,
		OrganizationName: "Acme Industries",
		MentorName:       "Priya Singh",
		MentorEmail:      "priya@acme.example",
		StartDate:        "2026-01-10",
		EndDate:          "2026-06-10",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "ACTIVE_INTERNSHIP_EXISTS", appErr.Code)
	assert.Empty(t, repo.created)
}

func TestInternshipUpdateMentorDeactivates(t *testing.T) {
	internship := &models.Internship{ID: "i1", InstitutionID: "inst1", Status: models.InternshipActive, MentorActive: true}
	repo := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": internship}}
	cache := &mockCacheInvalidator{}
	svc := NewInternshipService(InternshipServiceParams{Repo: repo, Cache: cache})

	updated, err := svc.UpdateMentor(context.Background(), "i1", dto.UpdateMentorRequest{
		MentorName:   "Priya Singh",
		MentorEmail:  "priya@acme.example",
		MentorActive: false,
	})
	require.NoError(t, err)
	assert.False(t, updated.MentorActive)
	assert.Contains(t, cache.patterns, "dashboard:*")
}

func TestInternshipCompleteIsTerminal(t *testing.T) {
	internship := &models.Internship{ID: "i1", Status: models.InternshipActive}
	repo := &mockInternshipRepo{internships: map[string]*models.Internship{"i1": internship}}
	svc := NewInternshipService(InternshipServiceParams{Repo: repo})

	_, err := svc.Complete(context.Background(), "i1", dto.CompleteInternshipRequest{Status: "COMPLETED"})
	require.NoError(t, err)
	assert.Equal(t, models.InternshipCompleted, internship.Status)

	_, err = svc.Complete(context.Background(), "i1", dto.CompleteInternshipRequest{Status: "CANCELLED"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}
