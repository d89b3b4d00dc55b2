// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeApplicationNotFound     ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeResultNotFound          ErrorCode = "RESULT_NOT_FOUND"
	ErrCodeProgramNotFound         ErrorCode = "PROGRAM_NOT_FOUND"
	ErrCodeRequirementsUnavailable ErrorCode = "PROGRAM_REQUIREMENTS_MISSING"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeResultUpsertFailed       ErrorCode = "RESULT_UPSERT_FAILED"
	ErrCodeStatusUpdateFailed       ErrorCode = "STATUS_UPDATE_FAILED"

	ErrCodeSearchIndexFailed ErrorCode = "SEARCH_INDEX_FAILED"

	ErrCodeEvaluationInputInvalid ErrorCode = "EVALUATION_INPUT_INVALID"
	ErrCodeEvaluationLogicError   ErrorCode = "EVALUATION_LOGIC_ERROR"
	ErrCodeInvalidStatusChange    ErrorCode = "INVALID_STATUS_CHANGE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewApplicationNotFoundError creates a non-retryable lookup error.
func NewApplicationNotFoundError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResultNotFoundError creates a non-retryable lookup error.
func NewResultNotFoundError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResultNotFound,
		Message:   "Eligibility result not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProgramNotFoundError creates a non-retryable lookup error.
func NewProgramNotFoundError(programID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProgramNotFound,
		Message:   "Program not found",
		Details:   fmt.Sprintf("programId: %s", programID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequirementsUnavailableError creates a retryable requirements fetch error.
// Callers typically degrade to configured defaults instead of failing the job.
func NewRequirementsUnavailableError(programID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequirementsUnavailable,
		Message:   "Program requirements could not be loaded",
		Details:   fmt.Sprintf("programId: %s, error: %s", programID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResultUpsertFailedError creates a retryable result persistence error.
func NewResultUpsertFailedError(applicationID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResultUpsertFailed,
		Message:   "Eligibility result upsert failed",
		Details:   fmt.Sprintf("applicationId: %s, error: %s", applicationID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatusUpdateFailedError creates a retryable application status update error.
// The orchestrator logs and swallows this; the evaluation result still stands.
func NewStatusUpdateFailedError(applicationID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStatusUpdateFailed,
		Message:   "Application status update failed",
		Details:   fmt.Sprintf("applicationId: %s, error: %s", applicationID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchIndexFailedError creates a retryable search indexing error.
func NewSearchIndexFailedError(applicationID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchIndexFailed,
		Message:   "Result indexing failed",
		Details:   fmt.Sprintf("applicationId: %s, error: %s", applicationID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEvaluationInputInvalidError creates a non-retryable input validation error.
func NewEvaluationInputInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEvaluationInputInvalid,
		Message:   "Evaluation input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEvaluationLogicError creates a non-retryable internal evaluation error.
func NewEvaluationLogicError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEvaluationLogicError,
		Message:   "Internal evaluation error",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStatusChangeError creates a non-retryable status transition error.
func NewInvalidStatusChangeError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStatusChange,
		Message:   "Application status transition not allowed",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes. The codes
// are identical on both sides.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeApplicationNotFound:      "APPLICATION_NOT_FOUND",
	ErrCodeResultNotFound:           "RESULT_NOT_FOUND",
	ErrCodeProgramNotFound:          "PROGRAM_NOT_FOUND",
	ErrCodeRequirementsUnavailable:  "PROGRAM_REQUIREMENTS_MISSING",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:             "QUERY_TIMEOUT",
	ErrCodeResultUpsertFailed:       "RESULT_UPSERT_FAILED",
	ErrCodeStatusUpdateFailed:       "STATUS_UPDATE_FAILED",
	ErrCodeSearchIndexFailed:        "SEARCH_INDEX_FAILED",
	ErrCodeEvaluationInputInvalid:   "EVALUATION_INPUT_INVALID",
	ErrCodeEvaluationLogicError:     "EVALUATION_LOGIC_ERROR",
	ErrCodeInvalidStatusChange:      "INVALID_STATUS_CHANGE",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeResultUpsertFailed,
		ErrCodeRequirementsUnavailable,
		ErrCodeStatusUpdateFailed,
		ErrCodeSearchIndexFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsNotFound reports whether the error is one of the not-found codes.
func IsNotFound(err error) bool {
	stdErr, ok := err.(*StandardError)
	if !ok {
		return false
	}
	switch stdErr.Code {
	case ErrCodeApplicationNotFound, ErrCodeResultNotFound, ErrCodeProgramNotFound:
		return true
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "UPSERT"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "EVALUATION"):
		return "EVALUATION"
	default:
		return "OTHER"
	}
}
