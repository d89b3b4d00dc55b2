// internal/repository/documents.go
package repository

import (
	"context"
	"database/sql"

	stderrors "admissions-workers/internal/common/errors"
	"admissions-workers/internal/common/logger"
	"admissions-workers/internal/models"
)

// DocumentRepository reads the uploaded-document state of an application.
type DocumentRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewDocumentRepository(db *sql.DB, log logger.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"repository": "documents"}),
	}
}

// FindApprovedTypes returns the distinct document types with at least one
// approved upload for the application. Pending and rejected uploads are
// excluded.
func (r *DocumentRepository) FindApprovedTypes(ctx context.Context, applicationID string) ([]models.DocumentType, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT type
		FROM documents
		WHERE application_id = $1 AND status = $2`,
		applicationID, models.DocStatusApproved,
	)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("find approved documents", err)
	}
	defer rows.Close()

	types := []models.DocumentType{}
	for rows.Next() {
		var t models.DocumentType
		if err := rows.Scan(&t); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("scan approved document type", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("iterate approved documents", err)
	}

	return types, nil
}
