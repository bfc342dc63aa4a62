package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/campusvoice/feedback-api/internal/models"
	"github.com/campusvoice/feedback-api/internal/service"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
	"github.com/campusvoice/feedback-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, actor models.Actor, format service.ExportFormat, filter models.DepartmentFeedbackFilter) (*service.ExportResult, error)
}

// ExportHandler serves CSV/PDF downloads of the department feed.
type ExportHandler struct {
	service  exportService
	profiles actorResolver
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc exportService, profiles actorResolver) *ExportHandler {
	return &ExportHandler{service: svc, profiles: profiles}
}

// Export godoc
// @Summary Export department feedback
// @Description Streams the department feed as CSV or PDF
// @Tags Coordinator
// @Produce octet-stream
// @Param format query string true "csv or pdf"
// @Param since query string false "Only submissions at or after this RFC3339 time"
// @Param category_id query int false "Filter by category"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /coordinator/feedback/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	actor, err := h.profiles.Actor(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter, err := parseFeedbackFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", string(service.FormatCSV)))
	result, err := h.service.Export(c.Request.Context(), actor, format, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Content)
}
