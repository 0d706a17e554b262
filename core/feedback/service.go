package feedback

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/maoni/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("feedback not found")
	ErrAlreadySubmitted = errors.New("feedback already submitted for this course")
	ErrPermissionDenied = errors.New("permission denied")
)

type (
	Repository interface {
		// CreateFeedback returns ErrAlreadySubmitted when a record already
		// exists for the same (student, course) pair.
		CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
		GetFeedbackByID(ctx context.Context, id int) (Feedback, error)
		// QueryFeedback applies AND operation on available QueryFilter fields;
		// a nil filter imposes no constraint. Results are always ordered by
		// created_at descending.
		QueryFeedback(ctx context.Context, filter *QueryFilter) ([]Feedback, error)
		UpdateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
		DeleteFeedback(ctx context.Context, id int) error
		AggregateByCourse(ctx context.Context, courseID int) (Stats, []SentimentCount, error)
		AggregateByTeacher(ctx context.Context, teacherID int) (Stats, []SentimentCount, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit records a student's feedback for a course, deriving its sentiment
// from the comment. At most one record may exist per (student, course) pair.
func (svc *Service) Submit(ctx context.Context, ident user.Identity, nf NewFeedback) (Feedback, error) {
	if !ident.IsStudent() {
		return Feedback{}, ErrPermissionDenied
	}
	now := time.Now().UTC()
	fb := Feedback{
		StudentID: ident.ID,
		CourseID:  nf.CourseID,
		TeacherID: nf.TeacherID,
		Rating:    nf.Rating,
		Comment:   null.NewString(nf.Comment, nf.Comment != ""),
		Sentiment: Classify(nf.Comment),
		Anonymous: nf.Anonymous,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateFeedback(ctx, fb)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Feedback, error) {
	return svc.Query(ctx, nil)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Feedback, error) {
	fbs, err := svc.repo.QueryFeedback(ctx, filter)
	if err != nil {
		return nil, err
	}
	redact(fbs)
	return fbs, nil
}

func (svc *Service) QueryByCourse(ctx context.Context, courseID int) ([]Feedback, error) {
	return svc.Query(ctx, &QueryFilter{CourseID: courseID})
}

func (svc *Service) QueryByTeacher(ctx context.Context, teacherID int) ([]Feedback, error) {
	return svc.Query(ctx, &QueryFilter{TeacherID: teacherID})
}

// Update patches the caller's record: only set fields change. Supplying a
// comment (even an empty one) recomputes the sentiment; omitting it leaves
// the sentiment untouched.
func (svc *Service) Update(ctx context.Context, ident user.Identity, id int, uf UpdateFeedback) (Feedback, error) {
	fb, err := svc.repo.GetFeedbackByID(ctx, id)
	if err != nil {
		return Feedback{}, err
	}
	if !CanMutate(ident, fb) {
		return Feedback{}, ErrPermissionDenied
	}

	if uf.Rating != nil {
		fb.Rating = *uf.Rating
	}
	if uf.Comment != nil {
		fb.Comment = null.NewString(*uf.Comment, *uf.Comment != "")
		fb.Sentiment = Classify(*uf.Comment)
	}
	if uf.Anonymous != nil {
		fb.Anonymous = *uf.Anonymous
	}
	fb.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateFeedback(ctx, fb)
}

func (svc *Service) Delete(ctx context.Context, ident user.Identity, id int) error {
	fb, err := svc.repo.GetFeedbackByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutate(ident, fb) {
		return ErrPermissionDenied
	}
	return svc.repo.DeleteFeedback(ctx, id)
}

func (svc *Service) CourseAnalytics(ctx context.Context, courseID int) (Analytics, error) {
	stats, counts, err := svc.repo.AggregateByCourse(ctx, courseID)
	if err != nil {
		return Analytics{}, err
	}
	return newAnalytics(stats, counts), nil
}

func (svc *Service) TeacherAnalytics(ctx context.Context, teacherID int) (Analytics, error) {
	stats, counts, err := svc.repo.AggregateByTeacher(ctx, teacherID)
	if err != nil {
		return Analytics{}, err
	}
	return newAnalytics(stats, counts), nil
}

func newAnalytics(stats Stats, counts []SentimentCount) Analytics {
	if counts == nil {
		counts = []SentimentCount{}
	}
	return Analytics{Stats: stats, Sentiments: counts}
}

func redact(fbs []Feedback) {
	for i := range fbs {
		fbs[i].Redact()
	}
}
