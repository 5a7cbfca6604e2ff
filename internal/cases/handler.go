package cases

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/server/middleware"
	"casefile-backend/internal/shared/server/respond"
)

// Handler wires case endpoints.
type Handler struct {
	Service *Service
}

// Register mounts case routes on the given group.
func (h *Handler) Register(r *gin.RouterGroup) {
	r.POST("/cases", h.create)
	r.GET("/cases", h.list)
	r.GET("/cases/:id", h.get)
	r.PATCH("/cases/:id", h.update)
	r.DELETE("/cases/:id", h.remove)
}

type createRequest struct {
	Title       string `json:"title"`
	CaseNumber  string `json:"caseNumber"`
	Description string `json:"description"`
}

type updateRequest struct {
	Title       *string `json:"title"`
	CaseNumber  *string `json:"caseNumber"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	created, err := h.Service.Create(c.Request.Context(), CreateInput{
		Title:       req.Title,
		CaseNumber:  req.CaseNumber,
		Description: req.Description,
		CreatedBy:   middleware.UserIDFromContext(c),
	})
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to create case", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Service.Repo.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to list cases", nil)
		return
	}
	if items == nil {
		items = []*Case{}
	}
	respond.OK(c, gin.H{"cases": items})
}

func (h *Handler) get(c *gin.Context) {
	found, err := h.Service.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "case not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to load case", nil)
		return
	}
	respond.OK(c, found)
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	updated, err := h.Service.Update(c.Request.Context(), c.Param("id"), UpdateInput{
		Title:       req.Title,
		CaseNumber:  req.CaseNumber,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "case not found", nil)
		case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrInvalidStatus):
			respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to update case", nil)
		}
		return
	}
	respond.OK(c, updated)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Service.Repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "case not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to delete case", nil)
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}
