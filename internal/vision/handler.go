package vision

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/evidence"
	"casefile-backend/internal/shared/metrics"
	"casefile-backend/internal/shared/server/respond"
	"casefile-backend/internal/shared/telemetry"
)

// Handler exposes the analysis endpoint.
type Handler struct {
	Agent    *Agent
	Evidence *evidence.Service
	Env      string
}

// Register mounts analysis routes on the given group.
func (h *Handler) Register(r *gin.RouterGroup) {
	r.POST("/evidence/:id/analyze", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	ctx := c.Request.Context()

	ev, err := h.Evidence.Repo.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, evidence.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "evidence not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to load evidence", nil)
		return
	}
	if !evidence.IsImage(ev) {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "analysis supports image evidence only", nil)
		return
	}

	image, err := h.Evidence.OpenContent(ctx, ev)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to read evidence content", nil)
		return
	}

	metrics.IncAnalysisStarted()
	start := time.Now()

	result, err := h.Agent.Run(ctx, image, ev.FileName, ev.CaptureMetadata)
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncAnalysisFailed()
		code, retryable := ClassifyFailure(err)
		telemetry.Error("analysis.failed", map[string]any{
			"evidence_id": ev.ID,
			"case_id":     ev.CaseID,
			"code":        code,
			"retryable":   retryable,
			"error":       sanitizeError(err),
		})
		var details interface{}
		if h.Env != "production" {
			details = failureDetails(err, retryable)
		}
		respond.Error(c, statusForCode(code), code, failureMessage(code), details)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		metrics.IncAnalysisFailed()
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to encode analysis result", nil)
		return
	}
	if err := h.Evidence.Repo.UpdateAnalysis(ctx, ev.ID, payload, evidence.StatusAnalyzed); err != nil {
		metrics.IncAnalysisFailed()
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to persist analysis result", nil)
		return
	}

	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.completed", map[string]any{
		"evidence_id":   ev.ID,
		"case_id":       ev.CaseID,
		"findings":      len(result.Findings),
		"ai_likelihood": result.AILikelihood,
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	respond.OK(c, result)
}

func statusForCode(code string) int {
	switch code {
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeUpstream, ErrorCodeMalformed, ErrorCodeSchema:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func failureMessage(code string) string {
	switch code {
	case ErrorCodeTimeout:
		return "analysis timed out, try again"
	case ErrorCodeUpstream:
		return "analysis service unavailable"
	case ErrorCodeMalformed:
		return "analysis service returned an unreadable response"
	case ErrorCodeSchema:
		return "analysis service returned an invalid response"
	default:
		return "analysis failed"
	}
}

func failureDetails(err error, retryable bool) gin.H {
	details := gin.H{"retryable": retryable}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		details["violations"] = schemaErr.Violations
		return details
	}
	details["error"] = sanitizeError(err)
	return details
}
