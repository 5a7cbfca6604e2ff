package evidence

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/server/middleware"
	"casefile-backend/internal/shared/server/respond"
)

// Evidence uploads are capped well above typical camera output.
const maxUploadBytes = 25 << 20

// CaseLookup verifies that a case exists before evidence is attached to it.
type CaseLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Handler wires evidence endpoints.
type Handler struct {
	Service *Service
	Cases   CaseLookup
}

// Register mounts evidence routes on the given group.
func (h *Handler) Register(r *gin.RouterGroup) {
	r.POST("/cases/:id/evidence", h.upload)
	r.GET("/cases/:id/evidence", h.list)
	r.GET("/evidence/:id", h.get)
	r.DELETE("/evidence/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
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

	evidenceType := c.PostForm("type")
	if evidenceType == "" {
		evidenceType = TypeImage
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", "file exceeds the upload limit", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "unable to read uploaded file", nil)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "unable to read uploaded file", nil)
		return
	}
	if len(data) > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", "file exceeds the upload limit", nil)
		return
	}

	ev, err := h.Service.Upload(c.Request.Context(), UploadInput{
		CaseID:     caseID,
		Type:       evidenceType,
		FileName:   fileHeader.Filename,
		UploadedBy: middleware.UserIDFromContext(c),
		Data:       data,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidType) {
			respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to store evidence", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, ev)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Service.Repo.ListByCase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to list evidence", nil)
		return
	}
	if items == nil {
		items = []*Evidence{}
	}
	respond.OK(c, gin.H{"evidence": items})
}

func (h *Handler) get(c *gin.Context) {
	ev, err := h.Service.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "evidence not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to load evidence", nil)
		return
	}
	respond.OK(c, ev)
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Service.Repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "NOT_FOUND", "evidence not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "failed to delete evidence", nil)
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}
