// internal/workers/eligibility/evaluate-eligibility/handler.go
package evaluateeligibility

import (
	"context"
	"encoding/json"
	"time"

	stderrors "admissions-workers/internal/common/errors"
	"admissions-workers/internal/common/logger"
	"admissions-workers/internal/common/metrics"
	"admissions-workers/internal/common/validation"
	"admissions-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "evaluate-eligibility"
)

// inputSchema guards the job variables before the evaluation runs. A job
// without an applicationId can never succeed, so it fails without retries.
var inputSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"applicationId": map[string]interface{}{"type": "string", "minLength": 1},
		"evaluatedBy":   map[string]interface{}{"type": "string"},
		"trigger":       map[string]interface{}{"type": "string"},
	},
	"required": []interface{}{"applicationId"},
}

// Evaluator runs a full eligibility evaluation for one application.
type Evaluator interface {
	Evaluate(ctx context.Context, applicationID, evaluatedBy string) (*models.EligibilityResult, error)
}

type Handler struct {
	config       *Config
	evaluator    Evaluator
	errorHandler *stderrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, evaluator Evaluator, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		evaluator:    evaluator,
		errorHandler: stderrors.NewErrorHandler(scoped),
		logger:       scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job.Variables)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "EVALUATION_INPUT_INVALID").Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		errorCode := "INTERNAL_ERROR"
		if stdErr, ok := err.(*stderrors.StandardError); ok {
			errorCode = string(stdErr.Code)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	result, err := validation.ValidateInput([]byte(variables), inputSchema)
	if err != nil {
		return nil, stderrors.NewEvaluationInputInvalidError(err.Error())
	}
	if !result.Valid {
		return nil, stderrors.NewEvaluationInputInvalidError(validation.FormatErrors(result))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, stderrors.NewEvaluationInputInvalidError(err.Error())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.evaluator.Evaluate(ctx, input.ApplicationID, input.EvaluatedBy)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, stderrors.NewQueryTimeoutError("evaluate eligibility")
		}
		return nil, err
	}

	h.logger.Info("eligibility evaluated", map[string]interface{}{
		"applicationId": result.ApplicationID,
		"status":        string(result.Status),
		"trigger":       input.Trigger,
	})

	return &Output{
		ApplicationID:     result.ApplicationID,
		EligibilityStatus: string(result.Status),
		Score:             result.Score,
		Reasons:           result.Reasons,
		EvaluatedAt:       result.EvaluatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

// Execute is exposed for tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
