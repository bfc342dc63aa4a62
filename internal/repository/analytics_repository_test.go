package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/campusvoice/feedback-api/internal/models"
)

func TestSentimentDistributionSkipsUnlabelled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnalyticsRepository(db)
	rows := sqlmock.NewRows([]string{"sentiment", "count"}).
		AddRow("NEGATIVE", 2).
		AddRow("NEUTRAL", 1).
		AddRow("POSITIVE", 5)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE department_id = $1 AND sentiment IS NOT NULL")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	counts, err := repo.SentimentDistribution(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, counts, 3)
	require.Equal(t, models.SentimentNegative, counts[0].Sentiment)
	require.Equal(t, 5, counts[2].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSentimentByCategoryPassesLabels(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnalyticsRepository(db)
	rows := sqlmock.NewRows([]string{"category", "positive_count", "negative_count"}).
		AddRow("CANTEEN", 1, 4).
		AddRow("TEACHING", 6, 0)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY c.name")).
		WithArgs(int64(7), models.SentimentPositive, models.SentimentNegative).
		WillReturnRows(rows)

	byCategory, err := repo.SentimentByCategory(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	require.Equal(t, models.CategoryCanteen, byCategory[0].Category)
	require.Equal(t, 6, byCategory[1].PositiveCount)
	require.NoError(t, mock.ExpectationsWereMet())
}
