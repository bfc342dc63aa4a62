package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

// NothingToSummarizeNotice is returned instead of calling the gateway when
// none of the selected entries carries text or ratings.
const NothingToSummarizeNotice = "No feedback content (neither text nor ratings) was found in the selected entries to summarize."

const summaryPromptHeader = "You are an assistant for a university department coordinator. " +
	"Your task is to analyze and summarize the following structured student feedback entries, which are separated by '---'. " +
	"For each entry, you will be given the category, specific ratings for predefined questions, and sometimes a text comment. " +
	"Your summary should be concise, in 3 to 5 key bullet points.(7 lines max) " +
	"Synthesize information from BOTH the ratings and the text comments to identify patterns, common themes, and actionable insights. " +
	"For example, if ratings for 'Clarity' are consistently low and comments mention 'fast lectures', connect these two points. " +
	"Format your output using markdown for bullet points (e.g., Point 1).\n\n" +
	"Here is the feedback:\n\n"

type summaryFeedbackRepository interface {
	ListByIDsInDepartment(ctx context.Context, ids []int64, departmentID int64) ([]models.Feedback, error)
}

type summaryGateway interface {
	Configured() bool
	Summarize(ctx context.Context, prompt string) (string, error)
}

// SummarizeRequest selects the coordinator's entries to condense.
type SummarizeRequest struct {
	FeedbackIDs []int64 `json:"feedback_ids" validate:"required,min=1"`
}

// SummaryService produces coordinator summaries over selected feedback.
type SummaryService struct {
	feedback summaryFeedbackRepository
	gateway  summaryGateway
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewSummaryService constructs the service.
func NewSummaryService(feedback summaryFeedbackRepository, gateway summaryGateway, metrics *MetricsService, logger *zap.Logger) *SummaryService {
	return &SummaryService{feedback: feedback, gateway: gateway, metrics: metrics, logger: logger}
}

// Summarize condenses the selected entries into a short bullet summary. The
// whole batch is rejected when any requested ID is missing or belongs to
// another department; partial summaries are never produced.
func (s *SummaryService) Summarize(ctx context.Context, actor models.Actor, req SummarizeRequest) (string, error) {
	if !s.gateway.Configured() {
		return "", appErrors.ErrGatewayUnconfigured
	}
	if len(req.FeedbackIDs) == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "feedback_ids must not be empty")
	}
	if actor.DepartmentID == nil {
		return "", appErrors.Clone(appErrors.ErrForbidden, "no department assigned to this account")
	}

	entries, err := s.feedback.ListByIDsInDepartment(ctx, uniqueIDs(req.FeedbackIDs), *actor.DepartmentID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	if len(entries) != len(uniqueIDs(req.FeedbackIDs)) {
		s.logger.Warn("summary batch rejected",
			zap.String("actor_id", actor.UserID),
			zap.Int("requested", len(req.FeedbackIDs)),
			zap.Int("found", len(entries)))
		return "", appErrors.Clone(appErrors.ErrForbidden, "you can only summarize feedback from your own department")
	}

	promptBody := buildSummaryContext(entries)
	if strings.TrimSpace(promptBody) == "" {
		return NothingToSummarizeNotice, nil
	}

	start := time.Now()
	summary, err := s.gateway.Summarize(ctx, summaryPromptHeader+promptBody)
	s.metrics.ObserveGatewayCall("summarize", err, time.Since(start))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrGateway.Code, appErrors.ErrGateway.Status, appErrors.ErrGateway.Message)
	}
	s.metrics.RecordSummary()

	s.logger.Info("feedback summarized",
		zap.String("actor_id", actor.UserID),
		zap.Int("entries", len(entries)))
	return summary, nil
}

// buildSummaryContext renders each entry with its category, per-question
// ratings and comment, separated by '---' markers for the model.
func buildSummaryContext(entries []models.Feedback) string {
	var sb strings.Builder
	for _, entry := range entries {
		if entry.TextFeedback == nil && !entry.HasAnyRating() {
			continue
		}

		fmt.Fprintf(&sb, "Feedback Entry #%d:\n", entry.ID)
		fmt.Fprintf(&sb, "- Category: %s\n", entry.CategoryName.DisplayName())

		if questions := models.QuestionsFor(entry.CategoryName); len(questions) > 0 {
			sb.WriteString("- Ratings Given:\n")
			for i, rating := range entry.Ratings() {
				if i >= len(questions) {
					break
				}
				if rating != nil {
					fmt.Fprintf(&sb, "  - %q: %s (%d/5)\n", questions[i], models.RatingLabel(*rating), *rating)
				} else {
					fmt.Fprintf(&sb, "  - %q: Not Rated\n", questions[i])
				}
			}
		}

		if entry.TextFeedback != nil && strings.TrimSpace(*entry.TextFeedback) != "" {
			fmt.Fprintf(&sb, "- Student's Comment: %q\n", strings.TrimSpace(*entry.TextFeedback))
		}
		sb.WriteString("\n---\n\n")
	}
	return sb.String()
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
