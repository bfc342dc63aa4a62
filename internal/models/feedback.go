package models

import "time"

// CategoryName is the fixed enumeration of feedback categories.
type CategoryName string

const (
	CategoryTeaching        CategoryName = "TEACHING"
	CategoryInfrastructure  CategoryName = "INFRASTRUCTURE"
	CategoryTransport       CategoryName = "TRANSPORT"
	CategoryExtracurricular CategoryName = "EXTRACURRICULAR"
	CategoryStaffBehaviour  CategoryName = "STAFF_BEHAVIOUR"
	CategoryCanteen         CategoryName = "CANTEEN"
	CategoryLibrary         CategoryName = "LIBRARY"
)

var categoryDisplayNames = map[CategoryName]string{
	CategoryTeaching:        "Teaching",
	CategoryInfrastructure:  "Infrastructure",
	CategoryTransport:       "Transport",
	CategoryExtracurricular: "Extracurricular Activities",
	CategoryStaffBehaviour:  "Staff Behaviour",
	CategoryCanteen:         "Canteen",
	CategoryLibrary:         "Library",
}

// DisplayName returns the human readable form of the category key.
func (c CategoryName) DisplayName() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return string(c)
}

// FeedbackCategory is seeded reference data backing the category enum.
type FeedbackCategory struct {
	ID          int64        `db:"id" json:"id"`
	Name        CategoryName `db:"name" json:"name"`
	Description *string      `db:"description" json:"description,omitempty"`
}

// InputMethod distinguishes typed from recorded submissions.
type InputMethod string

const (
	InputText  InputMethod = "TEXT"
	InputAudio InputMethod = "AUDIO"
)

// Sentiment is the analyzed polarity of a feedback text. A feedback row may
// carry no sentiment at all when enrichment had nothing to analyze.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
)

// EnrichmentState tracks the create-then-enrich transition: a row is RAW
// right after the student's write and ENRICHED once the backfill pass ran,
// whether or not the gateway produced anything.
type EnrichmentState string

const (
	EnrichmentRaw      EnrichmentState = "RAW"
	EnrichmentEnriched EnrichmentState = "ENRICHED"
)

// RatingSlots is the fixed number of per-category rating questions.
const RatingSlots = 5

// Feedback is the central entity. DepartmentID is the snapshot taken at
// submission time and never follows later profile changes.
type Feedback struct {
	ID               int64           `db:"id" json:"id"`
	StudentID        string          `db:"student_id" json:"student_id"`
	CategoryID       int64           `db:"category_id" json:"category_id"`
	CategoryName     CategoryName    `db:"category_name" json:"category"`
	DepartmentID     *int64          `db:"department_id" json:"department_id,omitempty"`
	Rating1          *int            `db:"rating1" json:"rating1,omitempty"`
	Rating2          *int            `db:"rating2" json:"rating2,omitempty"`
	Rating3          *int            `db:"rating3" json:"rating3,omitempty"`
	Rating4          *int            `db:"rating4" json:"rating4,omitempty"`
	Rating5          *int            `db:"rating5" json:"rating5,omitempty"`
	InputMethod      InputMethod     `db:"input_method" json:"input_method"`
	TextFeedback     *string         `db:"text_feedback" json:"text_feedback,omitempty"`
	AudioPath        *string         `db:"audio_path" json:"audio_path,omitempty"`
	IsAnonymous      bool            `db:"is_anonymous" json:"is_anonymous"`
	AnonymityRevoked bool            `db:"anonymity_revoked" json:"anonymity_revoked"`
	Sentiment        *Sentiment      `db:"sentiment" json:"sentiment,omitempty"`
	State            EnrichmentState `db:"state" json:"state"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// Ratings returns the five rating slots in submission order.
func (f *Feedback) Ratings() [RatingSlots]*int {
	return [RatingSlots]*int{f.Rating1, f.Rating2, f.Rating3, f.Rating4, f.Rating5}
}

// HasAnyRating reports whether at least one slot was rated.
func (f *Feedback) HasAnyRating() bool {
	for _, r := range f.Ratings() {
		if r != nil {
			return true
		}
	}
	return false
}

// DepartmentFeedbackFilter narrows a coordinator's department listing.
type DepartmentFeedbackFilter struct {
	Since      *time.Time
	CategoryID *int64
}
