// internal/eligibility/service/service.go
package service

import (
	"context"
	"time"

	"admissions-workers/internal/common/logger"
	"admissions-workers/internal/common/metrics"
	"admissions-workers/internal/eligibility/rules"
	"admissions-workers/internal/models"

	"github.com/google/uuid"
)

// ==========================
// Store Interfaces
// ==========================

// ApplicationStore reads applications and applies status changes.
type ApplicationStore interface {
	GetByID(ctx context.Context, applicationID string) (*models.Application, error)
	UpdateStatus(ctx context.Context, applicationID string, to models.ApplicationStatus) error
}

// ProgramStore loads per-program admission requirements. A program with no
// requirements returns (nil, nil).
type ProgramStore interface {
	GetRequirements(ctx context.Context, programID string) (*models.Requirements, error)
}

// DocumentStore reports which document types have an approved upload.
type DocumentStore interface {
	FindApprovedTypes(ctx context.Context, applicationID string) ([]models.DocumentType, error)
}

// ResultStore persists and reads evaluation results.
type ResultStore interface {
	Upsert(ctx context.Context, result *models.EligibilityResult) error
	GetByApplication(ctx context.Context, applicationID string) (*models.EligibilityResult, error)
	GetByUser(ctx context.Context, userID string) ([]models.EligibilityResult, error)
	GetAll(ctx context.Context, filter models.ResultFilter, page, limit int) (*models.ResultPage, error)
}

// ResultIndexer mirrors results into the search index. Indexing failures are
// logged, never surfaced.
type ResultIndexer interface {
	Index(ctx context.Context, result *models.EligibilityResult) error
}

// DecisionMode controls what happens with the recommended status after an
// evaluation.
type DecisionMode string

const (
	// DecisionRecommend stores the recommendation without touching the
	// application.
	DecisionRecommend DecisionMode = "recommend"
	// DecisionAuto applies the recommended status when the transition is
	// allowed.
	DecisionAuto DecisionMode = "auto"
)

// ==========================
// Service
// ==========================

// Service orchestrates a full eligibility evaluation: load the application,
// its program requirements, and its approved documents, run the configured
// policy, persist the result, and optionally move the application status.
type Service struct {
	applications ApplicationStore
	programs     ProgramStore
	documents    DocumentStore
	results      ResultStore
	indexer      ResultIndexer

	policy       rules.EvaluationPolicy
	cfg          rules.EvaluationConfig
	decisionMode DecisionMode
	logger       logger.Logger
}

type Options struct {
	Applications ApplicationStore
	Programs     ProgramStore
	Documents    DocumentStore
	Results      ResultStore
	Indexer      ResultIndexer
	Policy       rules.EvaluationPolicy
	Config       rules.EvaluationConfig
	DecisionMode DecisionMode
	Logger       logger.Logger
}

func New(opts Options) *Service {
	mode := opts.DecisionMode
	if mode == "" {
		mode = DecisionRecommend
	}
	return &Service{
		applications: opts.Applications,
		programs:     opts.Programs,
		documents:    opts.Documents,
		results:      opts.Results,
		indexer:      opts.Indexer,
		policy:       opts.Policy,
		cfg:          opts.Config,
		decisionMode: mode,
		logger:       opts.Logger.WithFields(map[string]interface{}{"component": "eligibility-service"}),
	}
}

// Evaluate runs the policy against one application and stores the outcome.
// Re-evaluating the same application replaces the stored result.
func (s *Service) Evaluate(ctx context.Context, applicationID, evaluatedBy string) (*models.EligibilityResult, error) {
	start := time.Now()
	if evaluatedBy == "" {
		evaluatedBy = "system"
	}

	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	req := s.loadRequirements(ctx, app.ProgramID)

	approved, err := s.documents.FindApprovedTypes(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	verdict := s.policy.Evaluate(app, req, approved)

	result := &models.EligibilityResult{
		ID:              uuid.New().String(),
		ApplicationID:   app.ID,
		UserID:          app.UserID,
		ProgramID:       app.ProgramID,
		Status:          verdict.Status,
		Score:           verdict.Score,
		CriteriaChecked: verdict.CriteriaChecked,
		Reasons:         verdict.Reasons,
		EvaluatedBy:     evaluatedBy,
		EvaluatedAt:     time.Now().UTC(),
	}

	if err := s.results.Upsert(ctx, result); err != nil {
		return nil, err
	}

	s.applyDecision(ctx, app, verdict)
	s.indexResult(ctx, result)
	s.recordMetrics(verdict, time.Since(start))

	s.logger.Info("application evaluated", map[string]interface{}{
		"applicationId": app.ID,
		"programId":     app.ProgramID,
		"status":        string(verdict.Status),
		"evaluatedBy":   evaluatedBy,
	})

	return result, nil
}

// loadRequirements fetches the program requirements, falling back to the
// configured defaults when the program has none or the fetch fails. An
// unavailable requirements store must not block evaluations.
func (s *Service) loadRequirements(ctx context.Context, programID string) models.Requirements {
	req, err := s.programs.GetRequirements(ctx, programID)
	if err != nil {
		s.logger.Warn("requirements fetch failed, using defaults", map[string]interface{}{
			"programId": programID,
			"error":     err.Error(),
		})
		return models.Requirements{MinGPA: s.cfg.DefaultMinGPA}
	}
	if req == nil {
		return models.Requirements{MinGPA: s.cfg.DefaultMinGPA}
	}
	return *req
}

// evaluationCanApply reports whether auto mode may move the application to
// the recommended status. An evaluation may shortcut the review stage: a
// submitted application goes straight to accepted or rejected without passing
// through under_review. Terminal states stay immutable.
func evaluationCanApply(from, to models.ApplicationStatus) bool {
	if models.CanTransition(from, to) {
		return true
	}
	if from != models.StatusSubmitted {
		return false
	}
	return to == models.StatusAccepted || to == models.StatusRejected
}

// applyDecision moves the application to the recommended status in auto mode.
// Status updates are best-effort: the stored result already carries the
// recommendation.
func (s *Service) applyDecision(ctx context.Context, app *models.Application, verdict *models.Verdict) {
	if s.decisionMode != DecisionAuto {
		return
	}
	if !evaluationCanApply(app.Status, verdict.RecommendedStatus) {
		s.logger.Warn("recommended status transition not allowed", map[string]interface{}{
			"applicationId": app.ID,
			"from":          string(app.Status),
			"to":            string(verdict.RecommendedStatus),
		})
		return
	}
	if err := s.applications.UpdateStatus(ctx, app.ID, verdict.RecommendedStatus); err != nil {
		s.logger.Warn("status update failed after evaluation", map[string]interface{}{
			"applicationId": app.ID,
			"to":            string(verdict.RecommendedStatus),
			"error":         err.Error(),
		})
	}
}

func (s *Service) indexResult(ctx context.Context, result *models.EligibilityResult) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.Index(ctx, result); err != nil {
		s.logger.Warn("result indexing failed", map[string]interface{}{
			"applicationId": result.ApplicationID,
			"error":         err.Error(),
		})
	}
}

func (s *Service) recordMetrics(verdict *models.Verdict, elapsed time.Duration) {
	metrics.EvaluationsTotal.WithLabelValues(string(verdict.Status)).Inc()
	metrics.EvaluationDuration.WithLabelValues(s.policy.Name()).Observe(elapsed.Seconds())

	checks := verdict.CriteriaChecked
	if !checks.GPACheck.Passed {
		metrics.CheckFailuresTotal.WithLabelValues("gpa").Inc()
	}
	if !checks.CoursesCheck.Passed {
		metrics.CheckFailuresTotal.WithLabelValues("courses").Inc()
	}
	if !checks.DocumentsCheck.Passed {
		metrics.CheckFailuresTotal.WithLabelValues("documents").Inc()
	}
}

// ==========================
// Result Queries
// ==========================

// GetResult returns the stored result for an application.
func (s *Service) GetResult(ctx context.Context, applicationID string) (*models.EligibilityResult, error) {
	return s.results.GetByApplication(ctx, applicationID)
}

// GetUserResults returns every result across the user's applications.
func (s *Service) GetUserResults(ctx context.Context, userID string) ([]models.EligibilityResult, error) {
	return s.results.GetByUser(ctx, userID)
}

// ListResults returns a filtered, paginated staff listing.
func (s *Service) ListResults(ctx context.Context, filter models.ResultFilter, page, limit int) (*models.ResultPage, error) {
	return s.results.GetAll(ctx, filter, page, limit)
}

// RequirementsSummary is the human-readable description of what an
// evaluation checks, for the applicant-facing criteria page.
type RequirementsSummary struct {
	MinimumGPA        float64  `json:"minimumGPA"`
	MandatoryCourses  []string `json:"mandatoryCourses"`
	MinimumCourses    int      `json:"minimumCourses"`
	RequiredDocuments []string `json:"requiredDocuments"`
	Policy            string   `json:"policy"`
}

// DescribeRequirements reports the default criteria applied when a program
// declares none of its own.
func (s *Service) DescribeRequirements() RequirementsSummary {
	docs := make([]string, 0, len(s.cfg.RequiredDocuments))
	for _, d := range s.cfg.RequiredDocuments {
		docs = append(docs, string(d))
	}
	return RequirementsSummary{
		MinimumGPA:        s.cfg.DefaultMinGPA,
		MandatoryCourses:  s.cfg.MandatoryCourses,
		MinimumCourses:    s.cfg.RequiredTotalCourses,
		RequiredDocuments: docs,
		Policy:            s.policy.Name(),
	}
}
