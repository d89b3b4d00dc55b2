// internal/repository/programs.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	stderrors "admissions-workers/internal/common/errors"
	"admissions-workers/internal/common/logger"
	"admissions-workers/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const programRequirementsKeyPrefix = "program:requirements:"

// ProgramRepository loads program admission requirements with a cache-aside
// layer in front of the database. A program without a requirements row is not
// an error; callers fall back to defaults.
type ProgramRepository struct {
	db       *sql.DB
	cache    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewProgramRepository(db *sql.DB, cache *redis.Client, cacheTTL time.Duration, log logger.Logger) *ProgramRepository {
	return &ProgramRepository{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"repository": "programs"}),
	}
}

// GetRequirements returns the admission requirements for a program, or
// (nil, nil) when the program declares none.
func (r *ProgramRepository) GetRequirements(ctx context.Context, programID string) (*models.Requirements, error) {
	cacheKey := programRequirementsKeyPrefix + programID

	if r.cache != nil {
		cached, err := r.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var req models.Requirements
			if err := json.Unmarshal([]byte(cached), &req); err == nil {
				return &req, nil
			}
			// Corrupt cache entry; drop it and fall through to the database.
			r.cache.Del(ctx, cacheKey)
		} else if err != redis.Nil {
			r.logger.Warn("requirements cache read failed", map[string]interface{}{
				"programId": programID,
				"error":     err.Error(),
			})
		}
	}

	req, err := r.queryRequirements(ctx, programID)
	if err != nil || req == nil {
		return req, err
	}

	if r.cache != nil {
		payload, err := json.Marshal(req)
		if err == nil {
			if err := r.cache.Set(ctx, cacheKey, payload, r.cacheTTL).Err(); err != nil {
				r.logger.Warn("requirements cache write failed", map[string]interface{}{
					"programId": programID,
					"error":     err.Error(),
				})
			}
		}
	}

	return req, nil
}

func (r *ProgramRepository) queryRequirements(ctx context.Context, programID string) (*models.Requirements, error) {
	var (
		req      models.Requirements
		courses  pq.StringArray
		docTypes pq.StringArray
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT min_gpa, gpa_scale, required_courses, required_total, required_documents
		FROM program_requirements
		WHERE program_id = $1`, programID).Scan(
		&req.MinGPA, &req.GPAScale, &courses, &req.RequiredTotal, &docTypes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, stderrors.NewRequirementsUnavailableError(programID, err)
	}

	req.RequiredCourses = []string(courses)
	req.RequiredDocuments = make([]models.DocumentType, 0, len(docTypes))
	for _, d := range docTypes {
		req.RequiredDocuments = append(req.RequiredDocuments, models.DocumentType(d))
	}

	return &req, nil
}

// InvalidateRequirements drops the cached requirements for a program, used
// when staff edit program criteria.
func (r *ProgramRepository) InvalidateRequirements(ctx context.Context, programID string) error {
	if r.cache == nil {
		return nil
	}
	if err := r.cache.Del(ctx, programRequirementsKeyPrefix+programID).Err(); err != nil {
		return fmt.Errorf("invalidate requirements cache: %w", err)
	}
	return nil
}
