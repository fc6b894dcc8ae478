package models

import "time"

// Student represents a learner registered with an institution.
type Student struct {
	ID             string    `db:"id" json:"id"`
	RegistrationNo string    `db:"registration_no" json:"registration_no"`
	FullName       string    `db:"full_name" json:"full_name"`
	Email          string    `db:"email" json:"email"`
	Phone          string    `db:"phone" json:"phone"`
	InstitutionID  string    `db:"institution_id" json:"institution_id"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search        string
	InstitutionID string
	Active        *bool
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}

// StudentDetail contains student information with internship context.
type StudentDetail struct {
	Student
	InternshipID     *string    `db:"internship_id" json:"internship_id,omitempty"`
	OrganizationName *string    `db:"organization_name" json:"organization_name,omitempty"`
	InternshipStart  *time.Time `db:"internship_start" json:"internship_start,omitempty"`
	InternshipEnd    *time.Time `db:"internship_end" json:"internship_end,omitempty"`
}
