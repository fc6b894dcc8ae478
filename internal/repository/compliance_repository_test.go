package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-compliance-api/internal/models"
)

func newComplianceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestComplianceRepositorySnapshotByInstitution(t *testing.T) {
	db, mock, cleanup := newComplianceMock(t)
	defer cleanup()
	repo := NewComplianceRepository(db)

	rows := sqlmock.NewRows([]string{"institution_id", "active_students", "with_active_mentor", "with_joining_letter"}).
		AddRow("inst-1", 40, 35, 28)
	mock.ExpectQuery("SELECT s.institution_id").
		WithArgs(models.InternshipActive, "inst-1").
		WillReturnRows(rows)

	snap, err := repo.SnapshotByInstitution(context.Background(), "inst-1")
	require.NoError(t, err)
	assert.Equal(t, 40, snap.ActiveStudents)
	assert.Equal(t, 35, snap.WithActiveMentor)
	assert.Equal(t, 28, snap.WithJoiningLetter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplianceRepositorySnapshotByInstitutionEmpty(t *testing.T) {
	db, mock, cleanup := newComplianceMock(t)
	defer cleanup()
	repo := NewComplianceRepository(db)

	mock.ExpectQuery("SELECT s.institution_id").
		WithArgs(models.InternshipActive, "inst-2").
		WillReturnRows(sqlmock.NewRows([]string{"institution_id", "active_students", "with_active_mentor", "with_joining_letter"}))

	snap, err := repo.SnapshotByInstitution(context.Background(), "inst-2")
	require.NoError(t, err)
	assert.Equal(t, "inst-2", snap.InstitutionID)
	assert.Zero(t, snap.ActiveStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplianceRepositorySnapshotAll(t *testing.T) {
	db, mock, cleanup := newComplianceMock(t)
	defer cleanup()
	repo := NewComplianceRepository(db)

	rows := sqlmock.NewRows([]string{"institution_id", "active_students", "with_active_mentor", "with_joining_letter"}).
		AddRow("inst-1", 40, 35, 28).
		AddRow("inst-2", 10, 2, 1)
	mock.ExpectQuery("SELECT s.institution_id").
		WithArgs(models.InternshipActive).
		WillReturnRows(rows)

	snaps, err := repo.SnapshotAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
