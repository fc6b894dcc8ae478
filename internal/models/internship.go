package models

import "time"

// InternshipStatus tracks the lifecycle of an internship record.
type InternshipStatus string

const (
	InternshipActive    InternshipStatus = "ACTIVE"
	InternshipCompleted InternshipStatus = "COMPLETED"
	InternshipCancelled InternshipStatus = "CANCELLED"
)

// Internship represents one student's placement at an organization. A
// student can hold at most one active internship; the span is immutable once
// set except through an explicit administrative correction.
type Internship struct {
	ID               string           `db:"id" json:"id"`
	StudentID        string           `db:"student_id" json:"student_id"`
	InstitutionID    string           `db:"institution_id" json:"institution_id"`
	OrganizationName string           `db:"organization_name" json:"organization_name"`
	MentorName       string           `db:"mentor_name" json:"mentor_name"`
	MentorEmail      string           `db:"mentor_email" json:"mentor_email"`
	MentorPhone      string           `db:"mentor_phone" json:"mentor_phone"`
	MentorActive     bool             `db:"mentor_active" json:"mentor_active"`
	StartDate        time.Time        `db:"start_date" json:"start_date"`
	EndDate          time.Time        `db:"end_date" json:"end_date"`
	Status           InternshipStatus `db:"status" json:"status"`
	LetterPath       *string          `db:"letter_path" json:"-"`
	LetterUploadedAt *time.Time       `db:"letter_uploaded_at" json:"letter_uploaded_at,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// HasJoiningLetter reports whether the joining letter has been uploaded.
func (i Internship) HasJoiningLetter() bool {
	return i.LetterPath != nil && *i.LetterPath != ""
}

// InternshipFilter captures list filters for internships.
type InternshipFilter struct {
	InstitutionID string
	StudentID     string
	Status        *InternshipStatus
	Page          int
	PageSize      int
}
