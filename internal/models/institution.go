package models

import "time"

// Institution represents an educational institution whose students are
// tracked by the portal.
type Institution struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	District  string    `db:"district" json:"district"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InstitutionFilter encapsulates search parameters for listing institutions.
type InstitutionFilter struct {
	Search    string
	District  string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ComplianceSnapshot is an institution-scoped aggregate queried from the
// database and fed into the compliance calculation.
type ComplianceSnapshot struct {
	InstitutionID     string `db:"institution_id" json:"institution_id"`
	ActiveStudents    int    `db:"active_students" json:"active_students"`
	WithActiveMentor  int    `db:"with_active_mentor" json:"with_active_mentor"`
	WithJoiningLetter int    `db:"with_joining_letter" json:"with_joining_letter"`
}
