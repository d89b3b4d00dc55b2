// internal/eligibility/rules/config.go
package rules

import (
	"admissions-workers/internal/common/config"
	"admissions-workers/internal/models"
)

// CourseMatchMode selects how mandatory courses are matched against the
// courses an applicant submitted.
type CourseMatchMode string

const (
	// MatchBySubstring matches case-insensitively against course names, so
	// "AP Biology" covers a "Biology" requirement.
	MatchBySubstring CourseMatchMode = "substring"
	// MatchByCode matches case-insensitively against course codes.
	MatchByCode CourseMatchMode = "code"
)

// EvaluationConfig carries every constant the checkers and policies use.
// Nothing in this package reads ambient defaults.
type EvaluationConfig struct {
	DefaultMinGPA        float64
	MandatoryCourses     []string
	RequiredTotalCourses int
	RequiredDocuments    []models.DocumentType
	CourseMatchMode      CourseMatchMode

	EligibleThreshold float64
	ReviewThreshold   float64
	WeighDocuments    bool
}

// FromAppConfig builds an EvaluationConfig from the application config
// section.
func FromAppConfig(ev config.EvaluationConfig) EvaluationConfig {
	docs := make([]models.DocumentType, 0, len(ev.RequiredDocuments))
	for _, d := range ev.RequiredDocuments {
		docs = append(docs, models.DocumentType(d))
	}
	return EvaluationConfig{
		DefaultMinGPA:        ev.DefaultMinGPA,
		MandatoryCourses:     ev.MandatoryCourses,
		RequiredTotalCourses: ev.RequiredTotalCourses,
		RequiredDocuments:    docs,
		CourseMatchMode:      CourseMatchMode(ev.CourseMatchMode),
		EligibleThreshold:    ev.EligibleThreshold,
		ReviewThreshold:      ev.ReviewThreshold,
		WeighDocuments:       ev.WeighDocuments,
	}
}

// DefaultConfig returns the canonical rule constants used when a program
// declares no requirements of its own.
func DefaultConfig() EvaluationConfig {
	return EvaluationConfig{
		DefaultMinGPA:        3.0,
		MandatoryCourses:     []string{"Biology", "Chemistry", "Physics", "Mathematics", "English"},
		RequiredTotalCourses: 8,
		RequiredDocuments: []models.DocumentType{
			models.DocTypeTranscript,
			models.DocTypeNationalID,
			models.DocTypePhoto,
		},
		CourseMatchMode:   MatchBySubstring,
		EligibleThreshold: 80,
		ReviewThreshold:   60,
	}
}
