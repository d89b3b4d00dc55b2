// internal/repository/programs_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestCache(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func requirementsColumns() []string {
	return []string{"min_gpa", "gpa_scale", "required_courses", "required_total", "required_documents"}
}

func TestProgramRepository_GetRequirements(t *testing.T) {
	t.Run("cache miss reads the database and fills the cache", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mr, cache := createTestCache(t)

		rows := sqlmock.NewRows(requirementsColumns()).AddRow(
			3.2, 4.0, "{Biology,Chemistry}", 8, "{transcript,photo}",
		)
		mock.ExpectQuery(`SELECT min_gpa, gpa_scale, required_courses, required_total, required_documents`).
			WithArgs("prog-001").
			WillReturnRows(rows)

		repo := NewProgramRepository(db, cache, time.Minute, createTestLogger(t))
		req, err := repo.GetRequirements(context.Background(), "prog-001")

		require.NoError(t, err)
		require.NotNil(t, req)
		assert.Equal(t, 3.2, req.MinGPA)
		assert.Equal(t, []string{"Biology", "Chemistry"}, req.RequiredCourses)
		assert.Equal(t, 8, req.RequiredTotal)
		assert.Equal(t, []models.DocumentType{models.DocTypeTranscript, models.DocTypePhoto}, req.RequiredDocuments)

		assert.True(t, mr.Exists("program:requirements:prog-001"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mr, cache := createTestCache(t)
		require.NoError(t, mr.Set("program:requirements:prog-001",
			`{"minGPA":3.5,"requiredTotal":6}`))

		repo := NewProgramRepository(db, cache, time.Minute, createTestLogger(t))
		req, err := repo.GetRequirements(context.Background(), "prog-001")

		require.NoError(t, err)
		require.NotNil(t, req)
		assert.Equal(t, 3.5, req.MinGPA)
		assert.Equal(t, 6, req.RequiredTotal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("program without requirements returns nil without error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, cache := createTestCache(t)

		mock.ExpectQuery(`SELECT min_gpa, gpa_scale, required_courses, required_total, required_documents`).
			WithArgs("prog-bare").
			WillReturnRows(sqlmock.NewRows(requirementsColumns()))

		repo := NewProgramRepository(db, cache, time.Minute, createTestLogger(t))
		req, err := repo.GetRequirements(context.Background(), "prog-bare")

		assert.NoError(t, err)
		assert.Nil(t, req)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("works without a cache", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(requirementsColumns()).AddRow(
			3.0, 4.0, "{}", 0, "{}",
		)
		mock.ExpectQuery(`SELECT min_gpa, gpa_scale, required_courses, required_total, required_documents`).
			WithArgs("prog-001").
			WillReturnRows(rows)

		repo := NewProgramRepository(db, nil, time.Minute, createTestLogger(t))
		req, err := repo.GetRequirements(context.Background(), "prog-001")

		require.NoError(t, err)
		require.NotNil(t, req)
		assert.Equal(t, 3.0, req.MinGPA)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProgramRepository_InvalidateRequirements(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr, cache := createTestCache(t)
	require.NoError(t, mr.Set("program:requirements:prog-001", `{}`))

	repo := NewProgramRepository(db, cache, time.Minute, createTestLogger(t))
	require.NoError(t, repo.InvalidateRequirements(context.Background(), "prog-001"))

	assert.False(t, mr.Exists("program:requirements:prog-001"))
}
