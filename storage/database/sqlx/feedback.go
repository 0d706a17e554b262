package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/feedback"
)

// newest first
var feedbackOrdering = core.DBOrdering{Field: "f.created_at"}

// uniqueness constraint on (student_id, course_id); see fs/migrations
const feedbackStudentCourseKey = "feedback_student_course_key"

const feedbackSelect = `
	SELECT f.id, f.student_id, f.course_id, f.teacher_id, f.rating, f.comment,
	       f.sentiment, f.anonymous, f.created_at, f.updated_at,
	       s.name AS student_name, c.name AS course_name, t.name AS teacher_name
	FROM feedback f
	LEFT JOIN "user" s ON f.student_id = s.id
	LEFT JOIN course c ON f.course_id = c.id
	LEFT JOIN teacher t ON f.teacher_id = t.id`

type feedbackRepository struct {
	db *sqlx.DB
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *sqlx.DB) *feedbackRepository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	q := repo.db.Rebind(`
		INSERT INTO feedback (student_id, course_id, teacher_id, rating, comment, sentiment, anonymous, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := repo.db.QueryRowxContext(
		ctx, q,
		fb.StudentID, fb.CourseID, fb.TeacherID, fb.Rating, fb.Comment, fb.Sentiment, fb.Anonymous, fb.CreatedAt, fb.UpdatedAt,
	).Scan(&fb.ID)
	if err != nil {
		if isUniqueViolation(err, feedbackStudentCourseKey) {
			return feedback.Feedback{}, feedback.ErrAlreadySubmitted
		}
		return feedback.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	return fb, nil
}

func (repo *feedbackRepository) GetFeedbackByID(ctx context.Context, id int) (feedback.Feedback, error) {
	var fb feedback.Feedback
	q := repo.db.Rebind(feedbackSelect + ` WHERE f.id = ?`)
	if err := repo.db.GetContext(ctx, &fb, q, id); err != nil {
		return feedback.Feedback{}, trapNoRowsErr(err, feedback.ErrNotFound, "finding feedback by ID")
	}
	return fb, nil
}

func (repo *feedbackRepository) QueryFeedback(ctx context.Context, filter *feedback.QueryFilter) ([]feedback.Feedback, error) {
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.CourseID != 0 {
			conds = append(conds, `f.course_id = ?`)
			args = append(args, filter.CourseID)
		}
		if filter.TeacherID != 0 {
			conds = append(conds, `f.teacher_id = ?`)
			args = append(args, filter.TeacherID)
		}
		if filter.Sentiment != "" {
			conds = append(conds, `f.sentiment = ?`)
			args = append(args, filter.Sentiment)
		}
		if !filter.CreatedFrom.IsZero() {
			conds = append(conds, `f.created_at >= ?`)
			args = append(args, filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			conds = append(conds, `f.created_at <= ?`)
			args = append(args, filter.CreatedTo.UTC())
		}
	}

	q := feedbackSelect
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	q += ` ORDER BY ` + feedbackOrdering.String()

	fbs := make([]feedback.Feedback, 0)
	if err := repo.db.SelectContext(ctx, &fbs, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying feedback")
	}
	return fbs, nil
}

func (repo *feedbackRepository) UpdateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	q := repo.db.Rebind(`
		UPDATE feedback
		SET rating = ?, comment = ?, sentiment = ?, anonymous = ?, updated_at = ?
		WHERE id = ?`)
	res, err := repo.db.ExecContext(ctx, q, fb.Rating, fb.Comment, fb.Sentiment, fb.Anonymous, fb.UpdatedAt, fb.ID)
	if err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "updating feedback")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return feedback.Feedback{}, feedback.ErrNotFound
	}
	return fb, nil
}

func (repo *feedbackRepository) DeleteFeedback(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM feedback WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "deleting feedback")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return feedback.ErrNotFound
	}
	return nil
}

func (repo *feedbackRepository) AggregateByCourse(ctx context.Context, courseID int) (feedback.Stats, []feedback.SentimentCount, error) {
	return repo.aggregate(ctx, `course_id`, courseID)
}

func (repo *feedbackRepository) AggregateByTeacher(ctx context.Context, teacherID int) (feedback.Stats, []feedback.SentimentCount, error) {
	return repo.aggregate(ctx, `teacher_id`, teacherID)
}

// aggregate computes the scalar stats and the per-sentiment breakdown scoped
// to the given id. column is one of the fixed identifiers above, never
// caller-supplied.
func (repo *feedbackRepository) aggregate(ctx context.Context, column string, id int) (feedback.Stats, []feedback.SentimentCount, error) {
	var stats feedback.Stats
	q := repo.db.Rebind(`SELECT AVG(rating) AS avg_rating, COUNT(*) AS total_feedback FROM feedback WHERE ` + column + ` = ?`)
	if err := repo.db.GetContext(ctx, &stats, q, id); err != nil {
		return feedback.Stats{}, nil, errors.Wrap(err, "aggregating feedback stats")
	}

	counts := make([]feedback.SentimentCount, 0)
	q = repo.db.Rebind(`SELECT sentiment, COUNT(*) AS count FROM feedback WHERE ` + column + ` = ? GROUP BY sentiment ORDER BY sentiment`)
	if err := repo.db.SelectContext(ctx, &counts, q, id); err != nil {
		return feedback.Stats{}, nil, errors.Wrap(err, "aggregating feedback sentiments")
	}
	return stats, counts, nil
}
