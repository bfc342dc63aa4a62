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

type analyticsService interface {
	DepartmentAnalytics(ctx context.Context, actor models.Actor) (*service.DepartmentAnalytics, error)
}

// AnalyticsHandler exposes the department sentiment rollups.
type AnalyticsHandler struct {
	service  analyticsService
	profiles actorResolver
}

// NewAnalyticsHandler creates a new handler.
func NewAnalyticsHandler(svc analyticsService, profiles actorResolver) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc, profiles: profiles}
}

// Department godoc
// @Summary Department sentiment analytics
// @Description Sentiment distribution and per-category positive/negative counts
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /coordinator/analytics [get]
func (h *AnalyticsHandler) Department(c *gin.Context) {
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

	analytics, err := h.service.DepartmentAnalytics(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analytics, nil)
}
