package feedback_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/user"
	dummydb "github.com/trezcool/maoni/storage/database/dummy"
)

var ctx = context.Background()

func setup(t *testing.T) (*feedback.Service, feedback.Repository) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewFeedbackRepository(db)
	return feedback.NewService(repo), repo
}

func student(id int) user.Identity { return user.Identity{ID: id, Role: user.RoleStudent} }
func admin(id int) user.Identity   { return user.Identity{ID: id, Role: user.RoleAdmin} }

// createFeedback seeds a record directly, bypassing the service, so tests
// can control timestamps and sentiments.
func createFeedback(t *testing.T, repo feedback.Repository, studentID, courseID, teacherID, rating int,
	comment string, anonymous bool, at time.Time) feedback.Feedback {
	fb, err := repo.CreateFeedback(ctx, feedback.Feedback{
		StudentID: studentID,
		CourseID:  courseID,
		TeacherID: teacherID,
		Rating:    rating,
		Comment:   null.NewString(comment, comment != ""),
		Sentiment: feedback.Classify(comment),
		Anonymous: anonymous,
		CreatedAt: at.UTC(),
		UpdatedAt: at.UTC(),
	})
	require.NoError(t, err)
	return fb
}

func intPtr(i int) *int          { return &i }
func strPtr(s string) *string    { return &s }
func boolPtr(b bool) *bool       { return &b }

func TestService_Submit(t *testing.T) {
	svc, _ := setup(t)

	fb, err := svc.Submit(ctx, student(1), feedback.NewFeedback{
		CourseID:  10,
		TeacherID: 20,
		Rating:    5,
		Comment:   "Great course, loved the labs",
	})
	require.NoError(t, err)
	assert.NotZero(t, fb.ID)
	assert.Equal(t, 1, fb.StudentID)
	assert.Equal(t, 10, fb.CourseID)
	assert.Equal(t, 20, fb.TeacherID)
	assert.Equal(t, 5, fb.Rating)
	assert.Equal(t, "Great course, loved the labs", fb.Comment.String)
	assert.True(t, fb.Comment.Valid)
	assert.Equal(t, feedback.SentimentPositive, fb.Sentiment)
	assert.False(t, fb.Anonymous)
	assert.False(t, fb.CreatedAt.IsZero())
	assert.Equal(t, fb.CreatedAt, fb.UpdatedAt)

	t.Run("empty comment is neutral and null", func(t *testing.T) {
		fb, err := svc.Submit(ctx, student(2), feedback.NewFeedback{CourseID: 10, TeacherID: 20, Rating: 3})
		require.NoError(t, err)
		assert.False(t, fb.Comment.Valid)
		assert.Equal(t, feedback.SentimentNeutral, fb.Sentiment)
	})

	t.Run("admins cannot submit", func(t *testing.T) {
		_, err := svc.Submit(ctx, admin(99), feedback.NewFeedback{CourseID: 11, TeacherID: 20, Rating: 4})
		assert.Equal(t, feedback.ErrPermissionDenied, errors.Cause(err))
	})

	t.Run("one record per student and course", func(t *testing.T) {
		_, err := svc.Submit(ctx, student(1), feedback.NewFeedback{CourseID: 10, TeacherID: 20, Rating: 1})
		assert.Equal(t, feedback.ErrAlreadySubmitted, errors.Cause(err))

		// same student, another course
		_, err = svc.Submit(ctx, student(1), feedback.NewFeedback{CourseID: 11, TeacherID: 20, Rating: 4})
		assert.NoError(t, err)
	})
}

func TestService_Query(t *testing.T) {
	svc, repo := setup(t)

	now := time.Now().UTC()
	fb1 := createFeedback(t, repo, 1, 10, 20, 5, "amazing lectures", false, now.Add(-3*time.Hour))
	fb2 := createFeedback(t, repo, 2, 10, 20, 2, "boring and slow", true, now.Add(-2*time.Hour))
	fb3 := createFeedback(t, repo, 1, 11, 21, 3, "", false, now.Add(-1*time.Hour))

	ids := func(fbs []feedback.Feedback) []int {
		out := make([]int, 0, len(fbs))
		for _, fb := range fbs {
			out = append(out, fb.ID)
		}
		return out
	}

	t.Run("all, newest first", func(t *testing.T) {
		fbs, err := svc.QueryAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{fb3.ID, fb2.ID, fb1.ID}, ids(fbs))
	})

	t.Run("empty filter equals no filter", func(t *testing.T) {
		all, err := svc.QueryAll(ctx)
		require.NoError(t, err)
		filtered, err := svc.Query(ctx, &feedback.QueryFilter{})
		require.NoError(t, err)
		assert.Equal(t, all, filtered)
	})

	t.Run("by course", func(t *testing.T) {
		fbs, err := svc.QueryByCourse(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []int{fb2.ID, fb1.ID}, ids(fbs))
	})

	t.Run("by teacher", func(t *testing.T) {
		fbs, err := svc.QueryByTeacher(ctx, 21)
		require.NoError(t, err)
		assert.Equal(t, []int{fb3.ID}, ids(fbs))
	})

	t.Run("by sentiment", func(t *testing.T) {
		fbs, err := svc.Query(ctx, &feedback.QueryFilter{Sentiment: feedback.SentimentNegative})
		require.NoError(t, err)
		assert.Equal(t, []int{fb2.ID}, ids(fbs))
	})

	t.Run("by time window", func(t *testing.T) {
		fbs, err := svc.Query(ctx, &feedback.QueryFilter{
			CreatedFrom: now.Add(-150 * time.Minute),
			CreatedTo:   now.Add(-90 * time.Minute),
		})
		require.NoError(t, err)
		assert.Equal(t, []int{fb2.ID}, ids(fbs))
	})

	t.Run("predicates are ANDed", func(t *testing.T) {
		fbs, err := svc.Query(ctx, &feedback.QueryFilter{CourseID: 10, Sentiment: feedback.SentimentPositive})
		require.NoError(t, err)
		assert.Equal(t, []int{fb1.ID}, ids(fbs))

		fbs, err = svc.Query(ctx, &feedback.QueryFilter{CourseID: 11, Sentiment: feedback.SentimentPositive})
		require.NoError(t, err)
		assert.Empty(t, fbs)
	})

	t.Run("anonymous records are redacted", func(t *testing.T) {
		fbs, err := svc.QueryAll(ctx)
		require.NoError(t, err)
		for _, fb := range fbs {
			if fb.ID == fb2.ID {
				assert.True(t, fb.Anonymous)
				assert.Zero(t, fb.StudentID)
				assert.Empty(t, fb.StudentName)
			} else {
				assert.NotZero(t, fb.StudentID)
			}
		}
	})
}

func TestService_Update(t *testing.T) {
	svc, _ := setup(t)

	fb, err := svc.Submit(ctx, student(1), feedback.NewFeedback{
		CourseID:  10,
		TeacherID: 20,
		Rating:    4,
		Comment:   "great and engaging",
	})
	require.NoError(t, err)
	require.Equal(t, feedback.SentimentPositive, fb.Sentiment)

	t.Run("rating only leaves sentiment alone", func(t *testing.T) {
		got, err := svc.Update(ctx, student(1), fb.ID, feedback.UpdateFeedback{Rating: intPtr(2)})
		require.NoError(t, err)
		assert.Equal(t, 2, got.Rating)
		assert.Equal(t, "great and engaging", got.Comment.String)
		assert.Equal(t, feedback.SentimentPositive, got.Sentiment)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	})

	t.Run("new comment is reclassified", func(t *testing.T) {
		got, err := svc.Update(ctx, student(1), fb.ID, feedback.UpdateFeedback{Comment: strPtr("actually terrible")})
		require.NoError(t, err)
		assert.Equal(t, "actually terrible", got.Comment.String)
		assert.Equal(t, feedback.SentimentNegative, got.Sentiment)
	})

	t.Run("clearing the comment resets sentiment", func(t *testing.T) {
		got, err := svc.Update(ctx, student(1), fb.ID, feedback.UpdateFeedback{Comment: strPtr("")})
		require.NoError(t, err)
		assert.False(t, got.Comment.Valid)
		assert.Equal(t, feedback.SentimentNeutral, got.Sentiment)
	})

	t.Run("anonymity can be toggled", func(t *testing.T) {
		got, err := svc.Update(ctx, student(1), fb.ID, feedback.UpdateFeedback{Anonymous: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, got.Anonymous)
	})

	t.Run("other students are denied", func(t *testing.T) {
		_, err := svc.Update(ctx, student(2), fb.ID, feedback.UpdateFeedback{Rating: intPtr(5)})
		assert.Equal(t, feedback.ErrPermissionDenied, errors.Cause(err))
	})

	t.Run("admins can moderate", func(t *testing.T) {
		got, err := svc.Update(ctx, admin(99), fb.ID, feedback.UpdateFeedback{Rating: intPtr(3)})
		require.NoError(t, err)
		assert.Equal(t, 3, got.Rating)
	})

	t.Run("unknown record", func(t *testing.T) {
		_, err := svc.Update(ctx, student(1), 12345, feedback.UpdateFeedback{Rating: intPtr(3)})
		assert.Equal(t, feedback.ErrNotFound, errors.Cause(err))
	})
}

func TestService_Delete(t *testing.T) {
	svc, _ := setup(t)

	fb1, err := svc.Submit(ctx, student(1), feedback.NewFeedback{CourseID: 10, TeacherID: 20, Rating: 4})
	require.NoError(t, err)
	fb2, err := svc.Submit(ctx, student(2), feedback.NewFeedback{CourseID: 10, TeacherID: 20, Rating: 1})
	require.NoError(t, err)

	t.Run("other students are denied", func(t *testing.T) {
		err := svc.Delete(ctx, student(2), fb1.ID)
		assert.Equal(t, feedback.ErrPermissionDenied, errors.Cause(err))
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, student(1), fb1.ID))

		// gone for good
		_, err := svc.Update(ctx, student(1), fb1.ID, feedback.UpdateFeedback{Rating: intPtr(5)})
		assert.Equal(t, feedback.ErrNotFound, errors.Cause(err))
		err = svc.Delete(ctx, student(1), fb1.ID)
		assert.Equal(t, feedback.ErrNotFound, errors.Cause(err))
	})

	t.Run("admin moderates", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, admin(99), fb2.ID))
	})
}

func TestService_Analytics(t *testing.T) {
	svc, repo := setup(t)

	t.Run("empty set", func(t *testing.T) {
		analytics, err := svc.CourseAnalytics(ctx, 10)
		require.NoError(t, err)
		assert.False(t, analytics.AvgRating.Valid)
		assert.Zero(t, analytics.TotalFeedback)
		assert.NotNil(t, analytics.Sentiments)
		assert.Empty(t, analytics.Sentiments)
	})

	now := time.Now().UTC()
	createFeedback(t, repo, 1, 10, 20, 5, "amazing", false, now.Add(-3*time.Hour))
	createFeedback(t, repo, 2, 10, 20, 4, "really good", false, now.Add(-2*time.Hour))
	createFeedback(t, repo, 3, 10, 21, 1, "awful", true, now.Add(-1*time.Hour))
	createFeedback(t, repo, 1, 11, 20, 3, "", false, now)

	t.Run("by course", func(t *testing.T) {
		analytics, err := svc.CourseAnalytics(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 3, analytics.TotalFeedback)
		require.True(t, analytics.AvgRating.Valid)
		assert.InDelta(t, 10.0/3.0, analytics.AvgRating.Float64, 1e-9)
		assert.Equal(t, []feedback.SentimentCount{
			{Sentiment: feedback.SentimentNegative, Count: 1},
			{Sentiment: feedback.SentimentPositive, Count: 2},
		}, analytics.Sentiments)
	})

	t.Run("by teacher", func(t *testing.T) {
		analytics, err := svc.TeacherAnalytics(ctx, 20)
		require.NoError(t, err)
		assert.Equal(t, 3, analytics.TotalFeedback)
		require.True(t, analytics.AvgRating.Valid)
		assert.InDelta(t, 4.0, analytics.AvgRating.Float64, 1e-9)
		assert.Equal(t, []feedback.SentimentCount{
			{Sentiment: feedback.SentimentNeutral, Count: 1},
			{Sentiment: feedback.SentimentPositive, Count: 2},
		}, analytics.Sentiments)
	})
}
