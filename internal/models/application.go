// internal/models/application.go
package models

import "time"

// ApplicationStatus represents the lifecycle state of an admission application.
type ApplicationStatus string

const (
	StatusDraft            ApplicationStatus = "draft"
	StatusSubmitted        ApplicationStatus = "submitted"
	StatusUnderReview      ApplicationStatus = "under_review"
	StatusPendingDocuments ApplicationStatus = "pending_documents"
	StatusAccepted         ApplicationStatus = "accepted"
	StatusRejected         ApplicationStatus = "rejected"
	StatusWithdrawn        ApplicationStatus = "withdrawn"
)

// StatusTransitions defines the allowed status graph. Terminal states map to
// an empty slice.
var StatusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:            {StatusSubmitted, StatusWithdrawn},
	StatusSubmitted:        {StatusUnderReview, StatusWithdrawn},
	StatusUnderReview:      {StatusPendingDocuments, StatusAccepted, StatusRejected},
	StatusPendingDocuments: {StatusUnderReview, StatusWithdrawn},
	StatusAccepted:         {},
	StatusRejected:         {},
	StatusWithdrawn:        {},
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range StatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Course is a single course entry submitted with an application.
type Course struct {
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
	Grade string `json:"grade,omitempty"`
}

// PersonalInfo holds the applicant identity fields checked for completeness.
type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// AcademicInfo holds the academic record attached to an application.
// GPAScale records the scale the applicant reported the GPA on (4 or 100);
// zero means the canonical 4.0 scale.
type AcademicInfo struct {
	GPA            float64  `json:"gpa"`
	GPAScale       float64  `json:"gpaScale,omitempty"`
	HighSchool     string   `json:"highSchool,omitempty"`
	GraduationYear int      `json:"graduationYear,omitempty"`
	Courses        []Course `json:"courses"`
}

// Application is an admission application as stored in the applications table.
type Application struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userId"`
	ProgramID    string            `json:"programId"`
	Status       ApplicationStatus `json:"status"`
	PersonalInfo PersonalInfo      `json:"personalInfo"`
	AcademicInfo AcademicInfo      `json:"academicInfo"`
	SubmittedAt  *time.Time        `json:"submittedAt,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}
