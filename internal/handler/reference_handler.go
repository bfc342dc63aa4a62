package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
	"github.com/campusvoice/feedback-api/pkg/response"
)

type departmentLister interface {
	List(ctx context.Context) ([]models.Department, error)
}

type categoryLister interface {
	List(ctx context.Context) ([]models.FeedbackCategory, error)
}

// ReferenceHandler serves the reference data the submission form is built
// from: departments, categories and the per-category rating questions.
type ReferenceHandler struct {
	departments departmentLister
	categories  categoryLister
}

// NewReferenceHandler creates a new handler.
func NewReferenceHandler(departments departmentLister, categories categoryLister) *ReferenceHandler {
	return &ReferenceHandler{departments: departments, categories: categories}
}

// Departments godoc
// @Summary List departments
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *ReferenceHandler) Departments(c *gin.Context) {
	departments, err := h.departments.List(c.Request.Context())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments"))
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

type categoryView struct {
	ID          int64               `json:"id"`
	Name        models.CategoryName `json:"name"`
	DisplayName string              `json:"display_name"`
	Questions   []string            `json:"questions"`
}

// Categories godoc
// @Summary List feedback categories with their rating questions
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *ReferenceHandler) Categories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories"))
		return
	}

	views := make([]categoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, categoryView{
			ID:          category.ID,
			Name:        category.Name,
			DisplayName: category.Name.DisplayName(),
			Questions:   models.QuestionsFor(category.Name),
		})
	}
	response.JSON(c, http.StatusOK, views, nil)
}
