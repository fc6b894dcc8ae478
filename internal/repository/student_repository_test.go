package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-compliance-api/internal/models"
)

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "registration_no", "full_name", "email", "phone", "institution_id", "active", "created_at", "updated_at", "internship_id", "organization_name", "internship_start", "internship_end"}).
		AddRow("1", "REG001", "Student", "s@example.com", "123", "inst", true, time.Now(), time.Now(), "intern", "Acme", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.registration_no, s.full_name, s.email, s.phone, s.institution_id, s.active, s.created_at, s.updated_at,\n        i.id AS internship_id, i.organization_name, i.start_date AS internship_start, i.end_date AS internship_end\n        FROM students s LEFT JOIN internships i ON i.student_id = s.id AND i.status = $1 WHERE 1=1 ORDER BY s.created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs(models.InternshipActive).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT s.id) FROM students s LEFT JOIN internships i ON i.student_id = s.id AND i.status = $1 WHERE 1=1")).
		WithArgs(models.InternshipActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.Student{RegistrationNo: "REG001", FullName: "Student", Email: "s@example.com", Phone: "123", InstitutionID: "inst", Active: true})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
