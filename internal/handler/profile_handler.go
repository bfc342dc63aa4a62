package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusvoice/feedback-api/internal/models"
	"github.com/campusvoice/feedback-api/internal/service"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
	"github.com/campusvoice/feedback-api/pkg/response"
)

type profileService interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, req service.UpdateProfileRequest) (*models.Profile, error)
}

// ProfileHandler exposes the caller's own profile.
type ProfileHandler struct {
	service profileService
	photos  uploadStore
}

// NewProfileHandler creates a new handler.
func NewProfileHandler(svc profileService, photos uploadStore) *ProfileHandler {
	return &ProfileHandler{service: svc, photos: photos}
}

// Get godoc
// @Summary Get own profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Update godoc
// @Summary Update own profile
// @Description Accepts a multipart form with the editable fields and an optional photo
// @Tags Profile
// @Accept mpfd
// @Produce json
// @Param full_name formData string false "Full name"
// @Param department_id formData int false "Department"
// @Param batch_start_year formData int false "Batch start year"
// @Param photo formData file false "Profile photo"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateProfileRequest
	if raw := c.PostForm("full_name"); raw != "" {
		req.FullName = &raw
	}
	if raw := c.PostForm("department_id"); raw != "" {
		departmentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "department_id must be an integer"))
			return
		}
		req.DepartmentID = &departmentID
	}
	if raw := c.PostForm("batch_start_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "batch_start_year must be an integer"))
			return
		}
		req.BatchStartYear = &year
	}

	if file, header, err := c.Request.FormFile("photo"); err == nil {
		defer file.Close() //nolint:errcheck
		filename, err := h.photos.SaveStream(header.Filename, file)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo upload"))
			return
		}
		req.PhotoFilename = filename
	}

	profile, err := h.service.Update(c.Request.Context(), claims.UserID, req)
	if err != nil {
		if req.PhotoFilename != "" {
			_ = h.photos.Delete(req.PhotoFilename)
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
