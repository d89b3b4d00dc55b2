// internal/models/program.go
package models

import "time"

// Requirements are the per-program admission thresholds. A program with no
// requirements row falls back to the configured defaults.
type Requirements struct {
	MinGPA            float64        `json:"minGPA"`
	GPAScale          float64        `json:"gpaScale,omitempty"`
	RequiredCourses   []string       `json:"requiredCourses,omitempty"`
	RequiredTotal     int            `json:"requiredTotal,omitempty"`
	RequiredDocuments []DocumentType `json:"requiredDocuments,omitempty"`
}

// Program is an academic program applicants apply to.
type Program struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Faculty      string        `json:"faculty,omitempty"`
	Capacity     int           `json:"capacity,omitempty"`
	Requirements *Requirements `json:"requirements,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
