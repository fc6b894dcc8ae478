package dto

// CreateInternshipRequest describes payload for registering an internship.
type CreateInternshipRequest struct {
	StudentID        string `json:"studentId" validate:"required,uuid"`
	OrganizationName string `json:"organizationName" validate:"required,max=200"`
	MentorName       string `json:"mentorName" validate:"required,max=120"`
	MentorEmail      string `json:"mentorEmail" validate:"required,email"`
	MentorPhone      string `json:"mentorPhone" validate:"omitempty,max=20"`
	StartDate        string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate          string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// UpdateMentorRequest describes payload for replacing or deactivating the
// assigned industry mentor.
type UpdateMentorRequest struct {
	MentorName   string `json:"mentorName" validate:"required,max=120"`
	MentorEmail  string `json:"mentorEmail" validate:"required,email"`
	MentorPhone  string `json:"mentorPhone" validate:"omitempty,max=20"`
	MentorActive bool   `json:"mentorActive"`
}

// CompleteInternshipRequest closes out an internship.
type CompleteInternshipRequest struct {
	Status string `json:"status" validate:"required,oneof=COMPLETED CANCELLED"`
}
