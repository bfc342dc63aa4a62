package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/campusvoice/feedback-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func feedbackColumns() []string {
	return []string{
		"id", "student_id", "category_id", "category_name", "department_id",
		"rating1", "rating2", "rating3", "rating4", "rating5",
		"input_method", "text_feedback", "audio_path", "is_anonymous", "anonymity_revoked", "sentiment", "state", "created_at",
	}
}

func TestFeedbackRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO feedback")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	departmentID := int64(7)
	fb := &models.Feedback{
		StudentID:    "student-1",
		CategoryID:   1,
		DepartmentID: &departmentID,
		InputMethod:  models.InputText,
		State:        models.EnrichmentRaw,
	}
	require.NoError(t, repo.Create(context.Background(), fb))
	require.Equal(t, int64(42), fb.ID)
	require.False(t, fb.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryFindByIDJoinsCategory(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)
	rows := sqlmock.NewRows(feedbackColumns()).
		AddRow(int64(5), "student-1", int64(1), "TEACHING", int64(7),
			5, nil, nil, nil, nil,
			"TEXT", "great", nil, false, false, "POSITIVE", "ENRICHED", time.Now())
	mock.ExpectQuery("SELECT f.id, f.student_id").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	fb, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, models.CategoryTeaching, fb.CategoryName)
	require.Equal(t, models.SentimentPositive, *fb.Sentiment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryListByDepartmentFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	categoryID := int64(3)

	mock.ExpectQuery(regexp.QuoteMeta("f.created_at >= $2 AND f.category_id = $3")).
		WithArgs(int64(7), since, categoryID).
		WillReturnRows(sqlmock.NewRows(feedbackColumns()))

	_, err := repo.ListByDepartment(context.Background(), 7, models.DepartmentFeedbackFilter{Since: &since, CategoryID: &categoryID})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryListByIDsInDepartment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)
	rows := sqlmock.NewRows(feedbackColumns()).
		AddRow(int64(1), "student-1", int64(1), "TEACHING", int64(7),
			nil, nil, nil, nil, nil,
			"TEXT", "ok", nil, false, false, nil, "ENRICHED", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("f.id = ANY($1) AND f.department_id = $2")).
		WithArgs(pq.Array([]int64{1, 99}), int64(7)).
		WillReturnRows(rows)

	found, err := repo.ListByIDsInDepartment(context.Background(), []int64{1, 99}, 7)
	require.NoError(t, err)
	require.Len(t, found, 1, "foreign and missing IDs simply do not come back")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryUpdateEnrichment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)
	text := "transcribed"
	sentiment := models.SentimentNeutral
	mock.ExpectExec(regexp.QuoteMeta("UPDATE feedback SET text_feedback = $2, sentiment = $3, state = $4 WHERE id = $1")).
		WithArgs(int64(5), &text, &sentiment, models.EnrichmentEnriched).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateEnrichment(context.Background(), 5, &text, &sentiment))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryRevokeAnonymityGuard(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE feedback SET anonymity_revoked = TRUE WHERE id = $1 AND is_anonymous = TRUE")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RevokeAnonymity(context.Background(), 5)
	require.Error(t, err, "rows that are not anonymous never match the update")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryDeleteMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewFeedbackRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM feedback WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.Error(t, repo.Delete(context.Background(), 404))
	require.NoError(t, mock.ExpectationsWereMet())
}
