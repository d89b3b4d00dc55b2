// internal/models/document.go
package models

import "time"

// DocumentType enumerates the kinds of documents an applicant can upload.
type DocumentType string

const (
	DocTypeNationalID  DocumentType = "national_id"
	DocTypePassport    DocumentType = "passport"
	DocTypeTranscript  DocumentType = "transcript"
	DocTypeCertificate DocumentType = "certificate"
	DocTypePhoto       DocumentType = "photo"
	DocTypeOther       DocumentType = "other"
)

// DocumentStatus is the review state of an uploaded document.
type DocumentStatus string

const (
	DocStatusPendingReview DocumentStatus = "pending_review"
	DocStatusApproved      DocumentStatus = "approved"
	DocStatusRejected      DocumentStatus = "rejected"
)

// Document is an uploaded file attached to an application.
type Document struct {
	ID            string         `json:"id"`
	ApplicationID string         `json:"applicationId"`
	UserID        string         `json:"userId"`
	Type          DocumentType   `json:"type"`
	FileName      string         `json:"fileName"`
	Status        DocumentStatus `json:"status"`
	VerifiedBy    string         `json:"verifiedBy,omitempty"`
	VerifyNote    string         `json:"verifyNote,omitempty"`
	UploadedAt    time.Time      `json:"uploadedAt"`
}
