package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusvoice/feedback-api/internal/models"
)

// FeedbackRepository manages persistence for feedback submissions.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs a new repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

const feedbackSelect = `SELECT f.id, f.student_id, f.category_id, c.name AS category_name, f.department_id,
f.rating1, f.rating2, f.rating3, f.rating4, f.rating5,
f.input_method, f.text_feedback, f.audio_path, f.is_anonymous, f.anonymity_revoked, f.sentiment, f.state, f.created_at
FROM feedback f
JOIN feedback_categories c ON c.id = f.category_id`

// Create inserts the raw submission and assigns its generated ID. The
// department snapshot and state must already be set by the caller.
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO feedback (student_id, category_id, department_id, rating1, rating2, rating3, rating4, rating5, input_method, text_feedback, audio_path, is_anonymous, anonymity_revoked, sentiment, state, created_at)
VALUES (:student_id, :category_id, :department_id, :rating1, :rating2, :rating3, :rating4, :rating5, :input_method, :text_feedback, :audio_path, :is_anonymous, :anonymity_revoked, :sentiment, :state, :created_at)
RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, fb)
	if err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&fb.ID); err != nil {
			return fmt.Errorf("scan feedback id: %w", err)
		}
	}
	return rows.Err()
}

// UpdateEnrichment backfills transcript and sentiment after the gateway pass
// and marks the row ENRICHED. The created_at column is never touched.
func (r *FeedbackRepository) UpdateEnrichment(ctx context.Context, id int64, text *string, sentiment *models.Sentiment) error {
	query := "UPDATE feedback SET text_feedback = $2, sentiment = $3, state = $4 WHERE id = $1"
	if _, err := r.db.ExecContext(ctx, query, id, text, sentiment, models.EnrichmentEnriched); err != nil {
		return fmt.Errorf("update feedback enrichment: %w", err)
	}
	return nil
}

// FindByID fetches a single feedback row with its category key.
func (r *FeedbackRepository) FindByID(ctx context.Context, id int64) (*models.Feedback, error) {
	var fb models.Feedback
	if err := r.db.GetContext(ctx, &fb, feedbackSelect+" WHERE f.id = $1", id); err != nil {
		return nil, err
	}
	return &fb, nil
}

// ListByStudent returns a student's own submissions, newest first.
func (r *FeedbackRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error) {
	var feedback []models.Feedback
	query := feedbackSelect + " WHERE f.student_id = $1 ORDER BY f.created_at DESC"
	if err := r.db.SelectContext(ctx, &feedback, query, studentID); err != nil {
		return nil, fmt.Errorf("list student feedback: %w", err)
	}
	return feedback, nil
}

// ListByDepartment returns submissions whose department snapshot matches,
// optionally narrowed by submission time and category.
func (r *FeedbackRepository) ListByDepartment(ctx context.Context, departmentID int64, filter models.DepartmentFeedbackFilter) ([]models.Feedback, error) {
	where := []string{"f.department_id = $1"}
	args := []interface{}{departmentID}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		where = append(where, fmt.Sprintf("f.created_at >= $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("f.category_id = $%d", len(args)))
	}
	query := fmt.Sprintf("%s WHERE %s ORDER BY f.created_at DESC", feedbackSelect, strings.Join(where, " AND "))
	var feedback []models.Feedback
	if err := r.db.SelectContext(ctx, &feedback, query, args...); err != nil {
		return nil, fmt.Errorf("list department feedback: %w", err)
	}
	return feedback, nil
}

// ListByIDsInDepartment returns the requested rows restricted to one
// department snapshot. Callers compare the result length against the request
// to detect foreign or nonexistent IDs.
func (r *FeedbackRepository) ListByIDsInDepartment(ctx context.Context, ids []int64, departmentID int64) ([]models.Feedback, error) {
	query := feedbackSelect + " WHERE f.id = ANY($1) AND f.department_id = $2 ORDER BY f.created_at ASC"
	var feedback []models.Feedback
	if err := r.db.SelectContext(ctx, &feedback, query, pq.Array(ids), departmentID); err != nil {
		return nil, fmt.Errorf("list feedback by ids: %w", err)
	}
	return feedback, nil
}

// Delete removes a feedback row.
func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM feedback WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("delete feedback: row %d not found", id)
	}
	return nil
}

// RevokeAnonymity flips anonymity_revoked one way only; the guard in SQL
// keeps the transition from ever running on non-anonymous rows.
func (r *FeedbackRepository) RevokeAnonymity(ctx context.Context, id int64) error {
	query := "UPDATE feedback SET anonymity_revoked = TRUE WHERE id = $1 AND is_anonymous = TRUE"
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("revoke anonymity: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("revoke anonymity: row %d not found or not anonymous", id)
	}
	return nil
}

// CountByDepartment counts submissions attributed to the department.
func (r *FeedbackRepository) CountByDepartment(ctx context.Context, departmentID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM feedback WHERE department_id = $1", departmentID); err != nil {
		return 0, fmt.Errorf("count department feedback: %w", err)
	}
	return count, nil
}
