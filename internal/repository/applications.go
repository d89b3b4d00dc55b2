// internal/repository/applications.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	stderrors "admissions-workers/internal/common/errors"
	"admissions-workers/internal/common/logger"
	"admissions-workers/internal/models"
)

// ApplicationRepository reads application records and applies status changes.
type ApplicationRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewApplicationRepository(db *sql.DB, log logger.Logger) *ApplicationRepository {
	return &ApplicationRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"repository": "applications"}),
	}
}

// GetByID loads a single application with its JSONB personal and academic
// sections decoded.
func (r *ApplicationRepository) GetByID(ctx context.Context, applicationID string) (*models.Application, error) {
	var (
		app          models.Application
		personalJSON []byte
		academicJSON []byte
		submittedAt  sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, program_id, status, personal_info, academic_info,
		       submitted_at, created_at, updated_at
		FROM applications
		WHERE id = $1`, applicationID).Scan(
		&app.ID, &app.UserID, &app.ProgramID, &app.Status,
		&personalJSON, &academicJSON,
		&submittedAt, &app.CreatedAt, &app.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, stderrors.NewApplicationNotFoundError(applicationID)
	}
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get application", err)
	}

	if len(personalJSON) > 0 {
		if err := json.Unmarshal(personalJSON, &app.PersonalInfo); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("decode personal info", err)
		}
	}
	if len(academicJSON) > 0 {
		if err := json.Unmarshal(academicJSON, &app.AcademicInfo); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("decode academic info", err)
		}
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		app.SubmittedAt = &t
	}

	return &app, nil
}

// UpdateStatus moves an application to the given status. The caller is
// responsible for checking the transition is allowed.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, applicationID string, to models.ApplicationStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $1, updated_at = $2
		WHERE id = $3`,
		to, time.Now().UTC(), applicationID,
	)
	if err != nil {
		return stderrors.NewStatusUpdateFailedError(applicationID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return stderrors.NewStatusUpdateFailedError(applicationID, err)
	}
	if rows == 0 {
		return stderrors.NewApplicationNotFoundError(applicationID)
	}

	r.logger.Info("application status updated", map[string]interface{}{
		"applicationId": applicationID,
		"status":        string(to),
	})
	return nil
}
