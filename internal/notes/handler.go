package notes

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"casefile-backend/internal/shared/server/middleware"
	"casefile-backend/internal/shared/server/respond"
)

// CaseLookup verifies that a case exists before a note is attached to it.
type CaseLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Handler wires note endpoints.
type Handler struct {
	Repo  Repo
	Cases CaseLookup
}

// Register mounts note routes on the given group.
func (h *Handler) Register(r *gin.RouterGroup) {
	r.POST("/cases/:id/notes", h.create)
	r.GET("/cases/:id/notes", h.list)
	r.DELETE("/notes/:id", h.remove)
}

type createRequest struct {
	Body string `json:"body"`
}

func (h *Handler) create(c *gin.Context) {
	caseID := c.Param("id")
	ok, err := h.Cases.Exists(c.Request.Context(), caseID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to verify case", nil)
		return
	}
	if !ok {
		respond.Error(c, http.StatusNotFound, "NOT_FOUND", "case not found", nil)
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Body) == "" {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ErrBodyRequired.Error(), nil)
		return
	}

	n := &Note{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		Author:    middleware.UserIDFromContext(c),
		Body:      strings.TrimSpace(req.Body),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Repo.Create(c.Request.Context(), n); err != nil {
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to create note", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, n)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Repo.ListByCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to list notes", nil)
		return
	}
	if items == nil {
		items = []*Note{}
	}
	respond.OK(c, gin.H{"notes": items})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "note not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to delete note", nil)
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}
