package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusvoice/feedback-api/internal/models"
	"github.com/campusvoice/feedback-api/internal/service"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
	"github.com/campusvoice/feedback-api/pkg/response"
)

type summaryService interface {
	Summarize(ctx context.Context, actor models.Actor, req service.SummarizeRequest) (string, error)
}

// SummaryHandler exposes the coordinator summarization endpoint.
type SummaryHandler struct {
	service  summaryService
	profiles actorResolver
}

// NewSummaryHandler creates a new handler.
func NewSummaryHandler(svc summaryService, profiles actorResolver) *SummaryHandler {
	return &SummaryHandler{service: svc, profiles: profiles}
}

// Summarize godoc
// @Summary Summarize selected feedback
// @Description Condenses the selected department entries into key bullet points
// @Tags Summaries
// @Accept json
// @Produce json
// @Param payload body service.SummarizeRequest true "Feedback IDs"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /coordinator/summaries [post]
func (h *SummaryHandler) Summarize(c *gin.Context) {
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

	var req service.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid or missing feedback_ids"))
		return
	}

	summary, err := h.service.Summarize(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"summary": summary}, nil)
}
