package handler

import (
	"context"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusvoice/feedback-api/internal/models"
	"github.com/campusvoice/feedback-api/internal/service"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
	"github.com/campusvoice/feedback-api/pkg/response"
)

type feedbackService interface {
	Submit(ctx context.Context, actor models.Actor, req service.SubmitFeedbackRequest) (*models.Feedback, error)
	ListOwn(ctx context.Context, actor models.Actor) ([]models.Feedback, error)
	ListDepartment(ctx context.Context, actor models.Actor, filter models.DepartmentFeedbackFilter) ([]models.Feedback, error)
	Get(ctx context.Context, actor models.Actor, id int64) (*models.Feedback, error)
	Delete(ctx context.Context, actor models.Actor, id int64) error
	RevokeAnonymity(ctx context.Context, actor models.Actor, id int64) (*models.Feedback, error)
}

type actorResolver interface {
	Actor(ctx context.Context, claims *models.JWTClaims) (models.Actor, error)
}

type uploadStore interface {
	SaveStream(originalName string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

// FeedbackHandler wires the submission and listing endpoints.
type FeedbackHandler struct {
	service  feedbackService
	profiles actorResolver
	audio    uploadStore
}

// NewFeedbackHandler creates a new handler.
func NewFeedbackHandler(svc feedbackService, profiles actorResolver, audio uploadStore) *FeedbackHandler {
	return &FeedbackHandler{service: svc, profiles: profiles, audio: audio}
}

// Submit godoc
// @Summary Submit feedback
// @Description Accepts a multipart submission with ratings, optional text and optional audio
// @Tags Feedback
// @Accept mpfd
// @Produce json
// @Param category_id formData int true "Feedback category"
// @Param input_method formData string true "TEXT or AUDIO"
// @Param text_feedback formData string false "Written comment"
// @Param is_anonymous formData bool false "Submit anonymously"
// @Param audio formData file false "Audio recording"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /feedback [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	actor, err := h.resolveActor(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	req, cleanup, err := h.parseSubmission(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	fb, err := h.service.Submit(c.Request.Context(), actor, req)
	if err != nil {
		cleanup()
		response.Error(c, err)
		return
	}

	response.Created(c, fb)
}

// parseSubmission reads the multipart form and stores the audio upload. The
// returned cleanup removes the stored file when the submission is rejected.
func (h *FeedbackHandler) parseSubmission(c *gin.Context) (service.SubmitFeedbackRequest, func(), error) {
	noop := func() {}

	categoryID, err := strconv.ParseInt(c.PostForm("category_id"), 10, 64)
	if err != nil {
		return service.SubmitFeedbackRequest{}, noop, appErrors.Clone(appErrors.ErrValidation, "category_id must be an integer")
	}

	req := service.SubmitFeedbackRequest{
		CategoryID:   categoryID,
		InputMethod:  models.InputMethod(c.PostForm("input_method")),
		TextFeedback: c.PostForm("text_feedback"),
		IsAnonymous:  c.PostForm("is_anonymous") == "true",
	}

	for i := 0; i < models.RatingSlots; i++ {
		raw := c.PostForm("rating" + strconv.Itoa(i+1))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return service.SubmitFeedbackRequest{}, noop, appErrors.Clone(appErrors.ErrValidation, "ratings must be integers")
		}
		req.Ratings[i] = &value
	}

	file, header, err := c.Request.FormFile("audio")
	if err == nil {
		defer file.Close() //nolint:errcheck
		filename, err := h.audio.SaveStream(header.Filename, file)
		if err != nil {
			return service.SubmitFeedbackRequest{}, noop, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store audio upload")
		}
		req.AudioFilename = filename
		return req, func() {
			_ = h.audio.Delete(filename)
		}, nil
	}
	return req, noop, nil
}

// ListMine godoc
// @Summary List own feedback
// @Tags Feedback
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /feedback [get]
func (h *FeedbackHandler) ListMine(c *gin.Context) {
	actor, err := h.resolveActor(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	feedback, err := h.service.ListOwn(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}

// ListDepartment godoc
// @Summary List department feedback
// @Description Coordinator view over the department's submissions
// @Tags Feedback
// @Produce json
// @Param since query string false "Only submissions at or after this RFC3339 time"
// @Param category_id query int false "Filter by category"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /coordinator/feedback [get]
func (h *FeedbackHandler) ListDepartment(c *gin.Context) {
	actor, err := h.resolveActor(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter, err := parseFeedbackFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	feedback, err := h.service.ListDepartment(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}

// Get godoc
// @Summary Get feedback detail
// @Tags Feedback
// @Produce json
// @Param id path int true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /feedback/{id} [get]
func (h *FeedbackHandler) Get(c *gin.Context) {
	actor, id, err := h.resolveActorAndID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	fb, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fb, nil)
}

// Delete godoc
// @Summary Delete own feedback
// @Tags Feedback
// @Param id path int true "Feedback ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /feedback/{id} [delete]
func (h *FeedbackHandler) Delete(c *gin.Context) {
	actor, id, err := h.resolveActorAndID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RevokeAnonymity godoc
// @Summary Reveal identity on an anonymous submission
// @Description One-way transition; the identity stays attached afterwards
// @Tags Feedback
// @Produce json
// @Param id path int true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /feedback/{id}/revoke-anonymity [post]
func (h *FeedbackHandler) RevokeAnonymity(c *gin.Context) {
	actor, id, err := h.resolveActorAndID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	fb, err := h.service.RevokeAnonymity(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fb, nil)
}

// Audio godoc
// @Summary Download the audio recording of a submission
// @Tags Feedback
// @Produce octet-stream
// @Param id path int true "Feedback ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /feedback/{id}/audio [get]
func (h *FeedbackHandler) Audio(c *gin.Context) {
	actor, id, err := h.resolveActorAndID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	fb, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if fb.AudioPath == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "feedback has no audio recording"))
		return
	}

	file, err := h.audio.Open(*fb.AudioPath)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open audio file"))
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat audio file"))
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(*fb.AudioPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}

func (h *FeedbackHandler) resolveActor(c *gin.Context) (models.Actor, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return models.Actor{}, appErrors.ErrUnauthorized
	}
	return h.profiles.Actor(c.Request.Context(), claims)
}

func (h *FeedbackHandler) resolveActorAndID(c *gin.Context) (models.Actor, int64, error) {
	actor, err := h.resolveActor(c)
	if err != nil {
		return models.Actor{}, 0, err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return models.Actor{}, 0, appErrors.Clone(appErrors.ErrValidation, "feedback id must be an integer")
	}
	return actor, id, nil
}

func parseFeedbackFilter(c *gin.Context) (models.DepartmentFeedbackFilter, error) {
	var filter models.DepartmentFeedbackFilter

	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "since must be an RFC3339 timestamp")
		}
		filter.Since = &since
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "category_id must be an integer")
		}
		filter.CategoryID = &categoryID
	}
	return filter, nil
}
