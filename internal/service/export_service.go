package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campusvoice/feedback-api/internal/models"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
	"github.com/campusvoice/feedback-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult is the rendered document with its download metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

type exportFeedbackRepository interface {
	ListByDepartment(ctx context.Context, departmentID int64, filter models.DepartmentFeedbackFilter) ([]models.Feedback, error)
}

// ExportService renders a coordinator's department feed as CSV or PDF.
// Anonymous, unrevoked submissions are exported without the student identity.
type ExportService struct {
	feedback exportFeedbackRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(feedback exportFeedbackRepository, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	return &ExportService{feedback: feedback, csv: csv, pdf: pdf, logger: logger}
}

var exportHeaders = []string{"ID", "Submitted", "Category", "Student", "Ratings", "Sentiment", "Input", "Comment"}

// Export renders the department feed in the requested format.
func (s *ExportService) Export(ctx context.Context, actor models.Actor, format ExportFormat, filter models.DepartmentFeedbackFilter) (*ExportResult, error) {
	if actor.DepartmentID == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no department assigned to this account")
	}

	feedback, err := s.feedback.ListByDepartment(ctx, *actor.DepartmentID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department feedback")
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(feedback))}
	for i := range feedback {
		dataset.Rows = append(dataset.Rows, exportRow(&feedback[i]))
	}

	stamp := time.Now().UTC().Format("20060102")
	var result *ExportResult
	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		result = &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("feedback-%s.csv", stamp),
		}
	case FormatPDF:
		content, err := s.pdf.Render(dataset, "Department Feedback")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		result = &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("feedback-%s.pdf", stamp),
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	s.logger.Info("feedback exported",
		zap.String("actor_id", actor.UserID),
		zap.String("format", string(format)),
		zap.Int("rows", len(feedback)))
	return result, nil
}

func exportRow(fb *models.Feedback) map[string]string {
	student := fb.StudentID
	if fb.IsAnonymous && !fb.AnonymityRevoked {
		student = "Anonymous"
	}

	ratings := make([]string, 0, models.RatingSlots)
	for _, rating := range fb.Ratings() {
		if rating == nil {
			ratings = append(ratings, "-")
		} else {
			ratings = append(ratings, strconv.Itoa(*rating))
		}
	}

	sentiment := ""
	if fb.Sentiment != nil {
		sentiment = string(*fb.Sentiment)
	}
	comment := ""
	if fb.TextFeedback != nil {
		comment = *fb.TextFeedback
	}

	return map[string]string{
		"ID":        strconv.FormatInt(fb.ID, 10),
		"Submitted": fb.CreatedAt.UTC().Format("2006-01-02 15:04"),
		"Category":  fb.CategoryName.DisplayName(),
		"Student":   student,
		"Ratings":   strings.Join(ratings, "/"),
		"Sentiment": sentiment,
		"Input":     string(fb.InputMethod),
		"Comment":   comment,
	}
}
