// internal/repository/results.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	stderrors "admissions-workers/internal/common/errors"
	"admissions-workers/internal/common/logger"
	"admissions-workers/internal/models"
)

// ResultRepository persists eligibility results. Results are unique per
// application: re-evaluating replaces the stored record in place.
type ResultRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewResultRepository(db *sql.DB, log logger.Logger) *ResultRepository {
	return &ResultRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"repository": "results"}),
	}
}

// Upsert inserts the result or, when the application already has one,
// replaces every field of the stored record. The row id of the first
// evaluation is kept.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.EligibilityResult) error {
	criteriaJSON, err := json.Marshal(result.CriteriaChecked)
	if err != nil {
		return stderrors.NewResultUpsertFailedError(result.ApplicationID, err)
	}
	reasonsJSON, err := json.Marshal(result.Reasons)
	if err != nil {
		return stderrors.NewResultUpsertFailedError(result.ApplicationID, err)
	}

	var score sql.NullFloat64
	if result.Score != nil {
		score = sql.NullFloat64{Float64: *result.Score, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO eligibility_results (
			id, application_id, user_id, program_id, status, score,
			criteria_checked, reasons, evaluated_by, evaluated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (application_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			program_id = EXCLUDED.program_id,
			status = EXCLUDED.status,
			score = EXCLUDED.score,
			criteria_checked = EXCLUDED.criteria_checked,
			reasons = EXCLUDED.reasons,
			evaluated_by = EXCLUDED.evaluated_by,
			evaluated_at = EXCLUDED.evaluated_at`,
		result.ID, result.ApplicationID, result.UserID, result.ProgramID,
		result.Status, score, criteriaJSON, reasonsJSON,
		result.EvaluatedBy, result.EvaluatedAt,
	)
	if err != nil {
		return stderrors.NewResultUpsertFailedError(result.ApplicationID, err)
	}

	r.logger.Info("eligibility result stored", map[string]interface{}{
		"applicationId": result.ApplicationID,
		"status":        string(result.Status),
	})
	return nil
}

// GetByApplication returns the stored result for one application.
func (r *ResultRepository) GetByApplication(ctx context.Context, applicationID string) (*models.EligibilityResult, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, application_id, user_id, program_id, status, score,
		       criteria_checked, reasons, evaluated_by, evaluated_at
		FROM eligibility_results
		WHERE application_id = $1`, applicationID)

	result, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, stderrors.NewResultNotFoundError(applicationID)
	}
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get result by application", err)
	}
	return result, nil
}

// GetByUser returns every result across the user's applications, most recent
// evaluation first.
func (r *ResultRepository) GetByUser(ctx context.Context, userID string) ([]models.EligibilityResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, application_id, user_id, program_id, status, score,
		       criteria_checked, reasons, evaluated_by, evaluated_at
		FROM eligibility_results
		WHERE user_id = $1
		ORDER BY evaluated_at DESC`, userID)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get results by user", err)
	}
	defer rows.Close()

	return collectResults(rows, "get results by user")
}

// GetAll returns a filtered, paginated listing for the staff view. Page
// defaults to 1 and limit to 10, capped at 100.
func (r *ResultRepository) GetAll(ctx context.Context, filter models.ResultFilter, page, limit int) (*models.ResultPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	where := "WHERE ($1 = '' OR status = $1) AND ($2 = '' OR program_id = $2)"
	args := []interface{}{string(filter.Status), filter.ProgramID}

	var total int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM eligibility_results "+where, args...).Scan(&total)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("count results", err)
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, application_id, user_id, program_id, status, score,
		       criteria_checked, reasons, evaluated_by, evaluated_at
		FROM eligibility_results `+where+`
		ORDER BY evaluated_at DESC
		LIMIT $3 OFFSET $4`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list results", err)
	}
	defer rows.Close()

	results, err := collectResults(rows, "list results")
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	return &models.ResultPage{
		Results: results,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(row rowScanner) (*models.EligibilityResult, error) {
	var (
		result       models.EligibilityResult
		score        sql.NullFloat64
		criteriaJSON []byte
		reasonsJSON  []byte
	)

	err := row.Scan(
		&result.ID, &result.ApplicationID, &result.UserID, &result.ProgramID,
		&result.Status, &score, &criteriaJSON, &reasonsJSON,
		&result.EvaluatedBy, &result.EvaluatedAt,
	)
	if err != nil {
		return nil, err
	}

	if score.Valid {
		s := score.Float64
		result.Score = &s
	}
	if len(criteriaJSON) > 0 {
		if err := json.Unmarshal(criteriaJSON, &result.CriteriaChecked); err != nil {
			return nil, err
		}
	}
	if len(reasonsJSON) > 0 {
		if err := json.Unmarshal(reasonsJSON, &result.Reasons); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

func collectResults(rows *sql.Rows, operation string) ([]models.EligibilityResult, error) {
	results := []models.EligibilityResult{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, stderrors.NewQueryExecutionFailedError(operation, err)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError(operation, err)
	}
	return results, nil
}
