package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEveryCategoryHasFiveQuestions(t *testing.T) {
	categories := []CategoryName{
		CategoryTeaching,
		CategoryInfrastructure,
		CategoryTransport,
		CategoryExtracurricular,
		CategoryStaffBehaviour,
		CategoryCanteen,
		CategoryLibrary,
	}
	for _, category := range categories {
		require.Len(t, QuestionsFor(category), RatingSlots, "category %s", category)
	}
}

func TestQuestionsForUnknownCategory(t *testing.T) {
	require.Empty(t, QuestionsFor(CategoryName("SOMETHING_ELSE")))
}

func TestRatingLabels(t *testing.T) {
	require.Equal(t, "Very Poor", RatingLabel(1))
	require.Equal(t, "Average", RatingLabel(3))
	require.Equal(t, "Excellent", RatingLabel(5))
	require.Empty(t, RatingLabel(0))
	require.Empty(t, RatingLabel(6))
}

func TestCategoryDisplayNames(t *testing.T) {
	require.Equal(t, "Extracurricular Activities", CategoryExtracurricular.DisplayName())
	require.Equal(t, "Staff Behaviour", CategoryStaffBehaviour.DisplayName())
	require.Equal(t, "UNKNOWN", CategoryName("UNKNOWN").DisplayName())
}

func TestFeedbackRatingHelpers(t *testing.T) {
	five := 5
	fb := Feedback{Rating2: &five}
	require.True(t, fb.HasAnyRating())
	ratings := fb.Ratings()
	require.Nil(t, ratings[0])
	require.Equal(t, &five, ratings[1])

	require.False(t, (&Feedback{}).HasAnyRating())
}
