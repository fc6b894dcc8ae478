package models

import "time"

// MentorVisit records a faculty visit to a student's placement for one
// counted month. Existence of the row means the month's visit obligation is
// complete.
type MentorVisit struct {
	ID           string    `db:"id" json:"id"`
	InternshipID string    `db:"internship_id" json:"internship_id"`
	FacultyID    string    `db:"faculty_id" json:"faculty_id"`
	Year         int       `db:"year" json:"year"`
	Month        int       `db:"month" json:"month"`
	VisitedAt    time.Time `db:"visited_at" json:"visited_at"`
	Notes        string    `db:"notes" json:"notes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
