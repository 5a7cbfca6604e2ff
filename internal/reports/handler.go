package reports

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/cases"
	"casefile-backend/internal/evidence"
	"casefile-backend/internal/shared/metrics"
	"casefile-backend/internal/shared/server/respond"
	"casefile-backend/internal/shared/telemetry"
)

// Handler wires the report endpoint.
type Handler struct {
	Evidence *evidence.Service
	Cases    cases.Repo
}

// Register mounts report routes on the given group.
func (h *Handler) Register(r *gin.RouterGroup) {
	r.POST("/evidence/:id/report", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	ctx := c.Request.Context()

	ev, err := h.Evidence.Repo.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, evidence.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "evidence not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to load evidence", nil)
		return
	}
	if ev.AnalysisStatus != evidence.StatusAnalyzed || len(ev.Analysis) == 0 {
		respond.Error(c, http.StatusConflict, "VALIDATION_ERROR", "evidence must be analyzed before a report can be generated", nil)
		return
	}

	caseInfo, err := h.Cases.GetByID(ctx, ev.CaseID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to load case", nil)
		return
	}

	// Content bytes are only needed when the stored record has no hash.
	var content []byte
	if ev.SHA256 == "" {
		content, err = h.Evidence.OpenContent(ctx, ev)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to read evidence content", nil)
			return
		}
	}

	report, err := Build(caseInfo, ev, content, time.Now())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to build report", nil)
		return
	}

	var buf bytes.Buffer
	if err := Render(report, &buf); err != nil {
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to render report", nil)
		return
	}

	metrics.IncReportGenerated()
	telemetry.Info("report.generated", map[string]any{
		"report_id":   report.ID,
		"evidence_id": ev.ID,
		"case_id":     ev.CaseID,
		"bytes":       buf.Len(),
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.ID+".pdf"))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
