package models

// SentimentCount is one bucket of the department sentiment distribution.
type SentimentCount struct {
	Sentiment Sentiment `db:"sentiment" json:"sentiment"`
	Count     int       `db:"count" json:"count"`
}

// CategorySentiment is one row of the positive/negative per-category
// breakdown, ordered by category name.
type CategorySentiment struct {
	Category      CategoryName `db:"category" json:"category"`
	DisplayName   string       `db:"-" json:"display_name"`
	PositiveCount int          `db:"positive_count" json:"positive_count"`
	NegativeCount int          `db:"negative_count" json:"negative_count"`
}

// DashboardCounts feeds the coordinator landing view.
type DashboardCounts struct {
	PendingStudents  int `json:"pending_students"`
	VerifiedStudents int `json:"verified_students"`
	FeedbackCount    int `json:"feedback_count"`
}
