// internal/models/eligibility.go
package models

import "time"

// EligibilityStatus is the outcome of an evaluation.
type EligibilityStatus string

const (
	EligibilityEligible      EligibilityStatus = "eligible"
	EligibilityNotEligible   EligibilityStatus = "not_eligible"
	EligibilityPendingReview EligibilityStatus = "pending_review"
)

// GPACheck is the GPA criterion breakdown.
type GPACheck struct {
	Passed      bool    `json:"passed"`
	StudentGPA  float64 `json:"studentGPA"`
	RequiredGPA float64 `json:"requiredGPA"`
}

// CoursesCheck is the course-coverage criterion breakdown.
type CoursesCheck struct {
	Passed                  bool     `json:"passed"`
	TotalCourses            int      `json:"totalCourses"`
	RequiredTotal           int      `json:"requiredTotal"`
	MissingMandatoryCourses []string `json:"missingMandatoryCourses"`
}

// DocumentsCheck is the approved-documents criterion breakdown.
type DocumentsCheck struct {
	Passed           bool           `json:"passed"`
	MissingDocuments []DocumentType `json:"missingDocuments"`
}

// CompletenessCheck reports how complete the application record itself is.
type CompletenessCheck struct {
	Passed        bool     `json:"passed"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// CriteriaChecked bundles the per-criterion breakdowns stored with a result.
type CriteriaChecked struct {
	GPACheck          GPACheck           `json:"gpaCheck"`
	CoursesCheck      CoursesCheck       `json:"coursesCheck"`
	DocumentsCheck    DocumentsCheck     `json:"documentsCheck"`
	CompletenessCheck *CompletenessCheck `json:"completenessCheck,omitempty"`
}

// Verdict is the policy decision before persistence: the status, the optional
// weighted score, the criteria breakdown, human-readable reasons, and the
// application status the decision recommends.
type Verdict struct {
	Status            EligibilityStatus `json:"status"`
	Score             *float64          `json:"score,omitempty"`
	CriteriaChecked   CriteriaChecked   `json:"criteriaChecked"`
	Reasons           []string          `json:"reasons"`
	RecommendedStatus ApplicationStatus `json:"recommendedStatus"`
}

// EligibilityResult is the persisted evaluation outcome, unique per
// application.
type EligibilityResult struct {
	ID              string            `json:"id"`
	ApplicationID   string            `json:"applicationId"`
	UserID          string            `json:"userId"`
	ProgramID       string            `json:"programId"`
	Status          EligibilityStatus `json:"status"`
	Score           *float64          `json:"score,omitempty"`
	CriteriaChecked CriteriaChecked   `json:"criteriaChecked"`
	Reasons         []string          `json:"reasons"`
	EvaluatedBy     string            `json:"evaluatedBy"`
	EvaluatedAt     time.Time         `json:"evaluatedAt"`
}

// ResultFilter narrows result listings.
type ResultFilter struct {
	Status    EligibilityStatus `json:"status,omitempty"`
	ProgramID string            `json:"programId,omitempty"`
}

// Pagination is the envelope returned alongside paged listings.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ResultPage is one page of eligibility results.
type ResultPage struct {
	Results    []EligibilityResult `json:"results"`
	Pagination Pagination          `json:"pagination"`
}
