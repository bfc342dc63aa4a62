package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
	"github.com/campusvoice/feedback-api/pkg/response"
)

type registrationService interface {
	ListPending(ctx context.Context, actor models.Actor) ([]models.PendingStudent, error)
	Approve(ctx context.Context, actor models.Actor, studentUserID string) error
	Reject(ctx context.Context, actor models.Actor, studentUserID string) error
	Dashboard(ctx context.Context, actor models.Actor) (*models.DashboardCounts, error)
}

// CoordinatorHandler exposes registration review and the dashboard counters.
type CoordinatorHandler struct {
	service  registrationService
	profiles actorResolver
}

// NewCoordinatorHandler creates a new handler.
func NewCoordinatorHandler(svc registrationService, profiles actorResolver) *CoordinatorHandler {
	return &CoordinatorHandler{service: svc, profiles: profiles}
}

// Dashboard godoc
// @Summary Coordinator dashboard counters
// @Tags Coordinator
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /coordinator/dashboard [get]
func (h *CoordinatorHandler) Dashboard(c *gin.Context) {
	actor, err := h.resolveActor(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	counts, err := h.service.Dashboard(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}

// ListPending godoc
// @Summary List pending student registrations
// @Tags Coordinator
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /coordinator/registrations [get]
func (h *CoordinatorHandler) ListPending(c *gin.Context) {
	actor, err := h.resolveActor(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	pending, err := h.service.ListPending(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending, nil)
}

// Approve godoc
// @Summary Approve a pending registration
// @Tags Coordinator
// @Produce json
// @Param id path string true "Student user ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /coordinator/registrations/{id}/approve [post]
func (h *CoordinatorHandler) Approve(c *gin.Context) {
	actor, err := h.resolveActor(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Approve(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reject godoc
// @Summary Reject a pending registration
// @Tags Coordinator
// @Produce json
// @Param id path string true "Student user ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /coordinator/registrations/{id}/reject [post]
func (h *CoordinatorHandler) Reject(c *gin.Context) {
	actor, err := h.resolveActor(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Reject(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *CoordinatorHandler) resolveActor(c *gin.Context) (models.Actor, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return models.Actor{}, appErrors.ErrUnauthorized
	}
	return h.profiles.Actor(c.Request.Context(), claims)
}
