// internal/repository/documents_test.go
package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-workers/internal/models"
)

func TestDocumentRepository_FindApprovedTypes(t *testing.T) {
	t.Run("returns distinct approved types", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"type"}).
			AddRow("transcript").
			AddRow("national_id")
		mock.ExpectQuery(`SELECT DISTINCT type`).
			WithArgs("app-001", "approved").
			WillReturnRows(rows)

		repo := NewDocumentRepository(db, createTestLogger(t))
		types, err := repo.FindApprovedTypes(context.Background(), "app-001")

		require.NoError(t, err)
		assert.Equal(t, []models.DocumentType{models.DocTypeTranscript, models.DocTypeNationalID}, types)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no approved documents yields an empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT DISTINCT type`).
			WithArgs("app-001", "approved").
			WillReturnRows(sqlmock.NewRows([]string{"type"}))

		repo := NewDocumentRepository(db, createTestLogger(t))
		types, err := repo.FindApprovedTypes(context.Background(), "app-001")

		require.NoError(t, err)
		assert.Empty(t, types)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
