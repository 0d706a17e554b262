package dummydb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/maoni/core/feedback"
)

type feedbackRepository struct {
	db *DB
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *DB) *feedbackRepository {
	return &feedbackRepository{db: db}
}

// joinNames mimics the SQL LEFT JOINs onto the user/course/teacher tables.
func (repo *feedbackRepository) joinNames(fb feedback.Feedback) feedback.Feedback {
	repo.db.user.RLock()
	if usr, ok := repo.db.user.table[fb.StudentID]; ok {
		fb.StudentName = usr.Name
	}
	repo.db.user.RUnlock()

	repo.db.catalog.RLock()
	if crs, ok := repo.db.catalog.courses[fb.CourseID]; ok {
		fb.CourseName = crs.Name
	}
	if tchr, ok := repo.db.catalog.teachers[fb.TeacherID]; ok {
		fb.TeacherName = tchr.Name
	}
	repo.db.catalog.RUnlock()
	return fb
}

func (repo *feedbackRepository) CreateFeedback(_ context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	repo.db.feedback.Lock()
	defer repo.db.feedback.Unlock()

	for _, f := range repo.db.feedback.table {
		if f.StudentID == fb.StudentID && f.CourseID == fb.CourseID {
			return feedback.Feedback{}, feedback.ErrAlreadySubmitted
		}
	}
	repo.db.feedback.pk++
	fb.ID = repo.db.feedback.pk
	repo.db.feedback.table[fb.ID] = &fb
	return fb, nil
}

func (repo *feedbackRepository) GetFeedbackByID(_ context.Context, id int) (feedback.Feedback, error) {
	repo.db.feedback.RLock()
	defer repo.db.feedback.RUnlock()

	if fb, ok := repo.db.feedback.table[id]; ok {
		return repo.joinNames(*fb), nil
	}
	return feedback.Feedback{}, feedback.ErrNotFound
}

func (repo *feedbackRepository) QueryFeedback(_ context.Context, filter *feedback.QueryFilter) ([]feedback.Feedback, error) {
	repo.db.feedback.RLock()

	fbs := make([]feedback.Feedback, 0, len(repo.db.feedback.table))
	for _, fb := range repo.db.feedback.table {
		if matches(*fb, filter) {
			fbs = append(fbs, *fb)
		}
	}
	repo.db.feedback.RUnlock()

	sort.Slice(fbs, func(i, j int) bool { return fbs[i].CreatedAt.After(fbs[j].CreatedAt) })
	for i := range fbs {
		fbs[i] = repo.joinNames(fbs[i])
	}
	return fbs, nil
}

func matches(fb feedback.Feedback, filter *feedback.QueryFilter) bool {
	if filter == nil {
		return true
	}
	if filter.CourseID != 0 && fb.CourseID != filter.CourseID {
		return false
	}
	if filter.TeacherID != 0 && fb.TeacherID != filter.TeacherID {
		return false
	}
	if filter.Sentiment != "" && fb.Sentiment != filter.Sentiment {
		return false
	}
	if !filter.CreatedFrom.IsZero() && fb.CreatedAt.Before(filter.CreatedFrom.UTC()) {
		return false
	}
	if !filter.CreatedTo.IsZero() && fb.CreatedAt.After(filter.CreatedTo.UTC()) {
		return false
	}
	return true
}

func (repo *feedbackRepository) UpdateFeedback(_ context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	repo.db.feedback.Lock()
	defer repo.db.feedback.Unlock()

	if _, ok := repo.db.feedback.table[fb.ID]; !ok {
		return feedback.Feedback{}, feedback.ErrNotFound
	}
	repo.db.feedback.table[fb.ID] = &fb
	return fb, nil
}

func (repo *feedbackRepository) DeleteFeedback(_ context.Context, id int) error {
	repo.db.feedback.Lock()
	defer repo.db.feedback.Unlock()

	if _, ok := repo.db.feedback.table[id]; !ok {
		return feedback.ErrNotFound
	}
	delete(repo.db.feedback.table, id)
	return nil
}

func (repo *feedbackRepository) AggregateByCourse(ctx context.Context, courseID int) (feedback.Stats, []feedback.SentimentCount, error) {
	return repo.aggregate(&feedback.QueryFilter{CourseID: courseID})
}

func (repo *feedbackRepository) AggregateByTeacher(ctx context.Context, teacherID int) (feedback.Stats, []feedback.SentimentCount, error) {
	return repo.aggregate(&feedback.QueryFilter{TeacherID: teacherID})
}

func (repo *feedbackRepository) aggregate(filter *feedback.QueryFilter) (feedback.Stats, []feedback.SentimentCount, error) {
	repo.db.feedback.RLock()
	defer repo.db.feedback.RUnlock()

	var stats feedback.Stats
	var sum int
	byLabel := make(map[feedback.Sentiment]int)
	for _, fb := range repo.db.feedback.table {
		if !matches(*fb, filter) {
			continue
		}
		stats.TotalFeedback++
		sum += fb.Rating
		byLabel[fb.Sentiment]++
	}
	if stats.TotalFeedback > 0 {
		stats.AvgRating = null.Float64From(float64(sum) / float64(stats.TotalFeedback))
	}

	counts := make([]feedback.SentimentCount, 0, len(byLabel))
	for label, cnt := range byLabel {
		counts = append(counts, feedback.SentimentCount{Sentiment: label, Count: cnt})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Sentiment < counts[j].Sentiment })
	return stats, counts, nil
}
