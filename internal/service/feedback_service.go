package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campusvoice/feedback-api/internal/authz"
	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

// TranscriptionFailedNotice is stored as the visible text of an audio
// submission whose transcription produced nothing and that carried no typed
// text of its own.
const TranscriptionFailedNotice = "[Transcription failed or audio was empty]"

type feedbackRepository interface {
	Create(ctx context.Context, fb *models.Feedback) error
	FindByID(ctx context.Context, id int64) (*models.Feedback, error)
	UpdateEnrichment(ctx context.Context, id int64, text *string, sentiment *models.Sentiment) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error)
	ListByDepartment(ctx context.Context, departmentID int64, filter models.DepartmentFeedbackFilter) ([]models.Feedback, error)
	Delete(ctx context.Context, id int64) error
	RevokeAnonymity(ctx context.Context, id int64) error
}

type feedbackCategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*models.FeedbackCategory, error)
}

// enrichmentGateway is the slice of the generative-AI client the submission
// pipeline needs.
type enrichmentGateway interface {
	Configured() bool
	Transcribe(ctx context.Context, audioPath string) (string, error)
	ClassifySentiment(ctx context.Context, text string) (string, error)
}

type audioStore interface {
	Delete(filename string) error
	Path(filename string) string
}

// SubmitFeedbackRequest carries one student submission. AudioFilename is set
// by the handler after the upload was persisted.
type SubmitFeedbackRequest struct {
	CategoryID    int64              `json:"category_id" validate:"required"`
	Ratings       [5]*int            `json:"-"`
	InputMethod   models.InputMethod `json:"input_method" validate:"required,oneof=TEXT AUDIO"`
	TextFeedback  string             `json:"text_feedback"`
	IsAnonymous   bool               `json:"is_anonymous"`
	AudioFilename string             `json:"-"`
}

// FeedbackService implements the submission pipeline and the student and
// coordinator views over stored feedback.
type FeedbackService struct {
	feedback   feedbackRepository
	categories feedbackCategoryRepository
	gateway    enrichmentGateway
	audio      audioStore
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewFeedbackService constructs the service.
func NewFeedbackService(feedback feedbackRepository, categories feedbackCategoryRepository, gateway enrichmentGateway, audio audioStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		feedback:   feedback,
		categories: categories,
		gateway:    gateway,
		audio:      audio,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
	}
}

// Submit validates and stores a submission, then runs the enrichment pass.
// Enrichment trouble never fails the submission; the row simply stays RAW or
// keeps a nil sentiment.
func (s *FeedbackService) Submit(ctx context.Context, actor models.Actor, req SubmitFeedbackRequest) (*models.Feedback, error) {
	category, err := s.categories.FindByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown feedback category")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}

	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.TextFeedback)
	fb := &models.Feedback{
		StudentID:    actor.UserID,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		DepartmentID: actor.DepartmentID,
		Rating1:      req.Ratings[0],
		Rating2:      req.Ratings[1],
		Rating3:      req.Ratings[2],
		Rating4:      req.Ratings[3],
		Rating5:      req.Ratings[4],
		InputMethod:  req.InputMethod,
		IsAnonymous:  req.IsAnonymous,
		State:        models.EnrichmentRaw,
	}
	if text != "" {
		fb.TextFeedback = &text
	}
	if req.AudioFilename != "" {
		fb.AudioPath = &req.AudioFilename
	}

	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}

	s.enrich(ctx, fb)
	s.invalidateAnalytics(ctx, fb.DepartmentID)
	s.metrics.RecordSubmission(string(fb.CategoryName), string(fb.InputMethod))

	s.logger.Info("feedback submitted",
		zap.Int64("feedback_id", fb.ID),
		zap.String("category", string(fb.CategoryName)),
		zap.String("input_method", string(fb.InputMethod)),
		zap.Bool("anonymous", fb.IsAnonymous))
	return fb, nil
}

// enrich runs the transcription and sentiment pass over a freshly created row
// and marks it ENRICHED whether or not the gateway produced anything.
func (s *FeedbackService) enrich(ctx context.Context, fb *models.Feedback) {
	analysisText := ""
	if fb.TextFeedback != nil {
		analysisText = *fb.TextFeedback
	}

	if fb.InputMethod == models.InputAudio && fb.AudioPath != nil && s.gateway.Configured() {
		start := time.Now()
		transcript, err := s.gateway.Transcribe(ctx, s.audio.Path(*fb.AudioPath))
		s.metrics.ObserveGatewayCall("transcribe", err, time.Since(start))
		if err != nil {
			s.logger.Warn("audio transcription failed", zap.Int64("feedback_id", fb.ID), zap.Error(err))
			if analysisText == "" {
				notice := TranscriptionFailedNotice
				fb.TextFeedback = &notice
			}
		} else {
			fb.TextFeedback = &transcript
			analysisText = transcript
		}
	}

	if strings.TrimSpace(analysisText) == "" && fb.HasAnyRating() {
		analysisText = syntheticRatingText(fb)
	}

	if strings.TrimSpace(analysisText) != "" && s.gateway.Configured() {
		start := time.Now()
		label, err := s.gateway.ClassifySentiment(ctx, analysisText)
		s.metrics.ObserveGatewayCall("sentiment", err, time.Since(start))
		switch {
		case err != nil:
			s.logger.Warn("sentiment analysis failed", zap.Int64("feedback_id", fb.ID), zap.Error(err))
		case label != "":
			sentiment := models.Sentiment(label)
			fb.Sentiment = &sentiment
		}
	}

	if err := s.feedback.UpdateEnrichment(ctx, fb.ID, fb.TextFeedback, fb.Sentiment); err != nil {
		s.logger.Error("failed to persist enrichment", zap.Int64("feedback_id", fb.ID), zap.Error(err))
		return
	}
	fb.State = models.EnrichmentEnriched
}

// syntheticRatingText renders the answered rating slots as sentences the
// sentiment model can score. The result is analyzed, never stored.
func syntheticRatingText(fb *models.Feedback) string {
	questions := models.QuestionsFor(fb.CategoryName)
	parts := make([]string, 0, models.RatingSlots)
	for i, rating := range fb.Ratings() {
		if rating == nil || i >= len(questions) {
			continue
		}
		parts = append(parts, fmt.Sprintf("For the question '%s', the rating given was '%s'.", questions[i], models.RatingLabel(*rating)))
	}
	return strings.Join(parts, " ")
}

func validateSubmission(req SubmitFeedbackRequest) error {
	hasRating := false
	for _, rating := range req.Ratings {
		if rating == nil {
			continue
		}
		if *rating < 1 || *rating > 5 {
			return appErrors.Clone(appErrors.ErrValidation, "ratings must be between 1 and 5")
		}
		hasRating = true
	}

	hasText := strings.TrimSpace(req.TextFeedback) != ""

	switch req.InputMethod {
	case models.InputAudio:
		if req.AudioFilename == "" {
			return appErrors.Clone(appErrors.ErrValidation, "audio submissions require an audio recording")
		}
	case models.InputText:
		if !hasText && !hasRating {
			return appErrors.Clone(appErrors.ErrValidation, "provide at least one rating or a written comment")
		}
	default:
		return appErrors.Clone(appErrors.ErrValidation, "input method must be TEXT or AUDIO")
	}
	return nil
}

// ListOwn returns the student's submissions, newest first.
func (s *FeedbackService) ListOwn(ctx context.Context, actor models.Actor) ([]models.Feedback, error) {
	feedback, err := s.feedback.ListByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	return feedback, nil
}

// ListDepartment returns the coordinator's department feed. Identities of
// anonymous, unrevoked submissions are masked before the list leaves the
// service.
func (s *FeedbackService) ListDepartment(ctx context.Context, actor models.Actor, filter models.DepartmentFeedbackFilter) ([]models.Feedback, error) {
	if actor.DepartmentID == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no department assigned to this account")
	}
	feedback, err := s.feedback.ListByDepartment(ctx, *actor.DepartmentID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department feedback")
	}
	for i := range feedback {
		maskIdentity(&feedback[i], actor)
	}
	return feedback, nil
}

// Get loads one submission for its owner or the department coordinator.
// Missing rows answer exactly like foreign ones.
func (s *FeedbackService) Get(ctx context.Context, actor models.Actor, id int64) (*models.Feedback, error) {
	fb, err := s.loadAuthorized(ctx, actor, id, authz.CanViewFeedback)
	if err != nil {
		return nil, err
	}
	maskIdentity(fb, actor)
	return fb, nil
}

// Delete removes a student's own submission together with its audio file.
func (s *FeedbackService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	fb, err := s.loadAuthorized(ctx, actor, id, authz.CanMutateFeedback)
	if err != nil {
		return err
	}

	if err := s.feedback.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete feedback")
	}
	if fb.AudioPath != nil {
		if err := s.audio.Delete(*fb.AudioPath); err != nil {
			s.logger.Warn("failed to remove audio file", zap.Int64("feedback_id", id), zap.Error(err))
		}
	}
	s.invalidateAnalytics(ctx, fb.DepartmentID)

	s.logger.Info("feedback deleted", zap.Int64("feedback_id", id), zap.String("student_id", actor.UserID))
	return nil
}

// RevokeAnonymity attaches the student's identity to an anonymous submission.
// The transition is one way; there is no path back to anonymous.
func (s *FeedbackService) RevokeAnonymity(ctx context.Context, actor models.Actor, id int64) (*models.Feedback, error) {
	fb, err := s.loadAuthorized(ctx, actor, id, authz.CanMutateFeedback)
	if err != nil {
		return nil, err
	}
	if !fb.IsAnonymous {
		return nil, appErrors.Clone(appErrors.ErrValidation, "feedback was not submitted anonymously")
	}
	if fb.AnonymityRevoked {
		return fb, nil
	}

	if err := s.feedback.RevokeAnonymity(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke anonymity")
	}
	fb.AnonymityRevoked = true

	s.logger.Info("anonymity revoked", zap.Int64("feedback_id", id), zap.String("student_id", actor.UserID))
	return fb, nil
}

// loadAuthorized fetches a row and applies an authorization predicate.
// Nonexistent rows and rows the actor may not touch produce the same answer
// so probing IDs reveals nothing.
func (s *FeedbackService) loadAuthorized(ctx context.Context, actor models.Actor, id int64, can func(models.Actor, models.Feedback) authz.Decision) (*models.Feedback, error) {
	fb, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrForbidden
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	if decision := can(actor, *fb); !decision.Allowed {
		s.logger.Warn("feedback access denied",
			zap.Int64("feedback_id", id),
			zap.String("actor_id", actor.UserID),
			zap.String("reason", decision.Reason))
		return nil, appErrors.ErrForbidden
	}
	return fb, nil
}

func (s *FeedbackService) invalidateAnalytics(ctx context.Context, departmentID *int64) {
	if departmentID == nil {
		return
	}
	s.cache.Invalidate(ctx, fmt.Sprintf("analytics:%d:*", *departmentID))
}

// maskIdentity strips the submitting student from anonymous, unrevoked rows
// before they reach anyone but the owner.
func maskIdentity(fb *models.Feedback, actor models.Actor) {
	if fb.IsAnonymous && !fb.AnonymityRevoked && fb.StudentID != actor.UserID {
		fb.StudentID = ""
	}
}
