package feedback

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/maoni/core"
)

// Sentiment is the 3-way label derived from a feedback comment.
// It is never supplied by callers.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) Valid() bool {
	return s == SentimentPositive || s == SentimentNeutral || s == SentimentNegative
}

type Feedback struct {
	ID        int         `json:"id" db:"id"`
	StudentID int         `json:"student_id" db:"student_id"`
	CourseID  int         `json:"course_id" db:"course_id"`
	TeacherID int         `json:"teacher_id" db:"teacher_id"`
	Rating    int         `json:"rating" db:"rating"`
	Comment   null.String `json:"comment" db:"comment"`
	Sentiment Sentiment   `json:"sentiment" db:"sentiment"`
	Anonymous bool        `json:"anonymous" db:"anonymous"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC

	// joined names; only set on listings
	StudentName string `json:"student_name,omitempty" db:"student_name"`
	CourseName  string `json:"course_name,omitempty" db:"course_name"`
	TeacherName string `json:"teacher_name,omitempty" db:"teacher_name"`
}

// Redact withholds the owning student's identity from anonymous records
// before they are handed to non-owning viewers.
func (f *Feedback) Redact() {
	if f.Anonymous {
		f.StudentID = 0
		f.StudentName = ""
	}
}

// NewFeedback contains information needed to submit feedback for a course.
type NewFeedback struct {
	CourseID  int    `json:"course_id" validate:"required"`
	TeacherID int    `json:"teacher_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
	Anonymous bool   `json:"anonymous"`
}

func (nf *NewFeedback) Validate() error {
	nf.Comment = core.CleanString(nf.Comment)
	return core.Validate.Struct(nf)
}

// UpdateFeedback is a partial patch: only set fields change.
// A set-but-empty Comment is a deliberate clearing and still reclassifies.
type UpdateFeedback struct {
	Rating    *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment   *string `json:"comment"`
	Anonymous *bool   `json:"anonymous"`
}

func (uf *UpdateFeedback) Validate() error {
	if uf.Comment != nil {
		*uf.Comment = core.CleanString(*uf.Comment)
	}
	return core.Validate.Struct(uf)
}

// QueryFilter is an open set of independently-optional predicates;
// they are AND-composed by the repositories.
type QueryFilter struct {
	CourseID    int       `query:"course_id"`
	TeacherID   int       `query:"teacher_id"`
	Sentiment   Sentiment `query:"sentiment"`
	CreatedFrom time.Time `query:"from"`
	CreatedTo   time.Time `query:"to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.CourseID == 0 && qf.TeacherID == 0 && qf.Sentiment == "" &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Validate() error {
	if qf.Sentiment != "" && !qf.Sentiment.Valid() {
		return core.NewValidationError(nil, core.FieldError{
			Field: "sentiment", Error: "must be one of: positive, neutral, negative",
		})
	}
	return nil
}

type SentimentCount struct {
	Sentiment Sentiment `json:"sentiment" db:"sentiment"`
	Count     int       `json:"count" db:"count"`
}

// Stats are the scalar aggregates over a matching set of records.
// AvgRating is null, not zero, when no record matches.
type Stats struct {
	AvgRating     null.Float64 `json:"avg_rating" db:"avg_rating"`
	TotalFeedback int          `json:"total_feedback" db:"total_feedback"`
}

// Analytics merges the scalar stats and the sentiment breakdown for a
// course or teacher. Sentiments with no matching record are omitted;
// consumers treat a missing label as count 0.
type Analytics struct {
	Stats
	Sentiments []SentimentCount `json:"sentiments"`
}
