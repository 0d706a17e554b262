package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/feedback"
)

// accepted timestamp layouts for the `from`/`to` filter params
var timeLayouts = []string{time.RFC3339, "2006-01-02"}

func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// bindFeedbackFilter binds the independently-optional filter predicates
// from the query string; absent params impose no constraint.
func bindFeedbackFilter(ctx echo.Context) (*feedback.QueryFilter, error) {
	filter := new(feedback.QueryFilter)

	if raw := ctx.QueryParam("course_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "course_id", Error: "must be an integer"})
		}
		filter.CourseID = id
	}
	if raw := ctx.QueryParam("teacher_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "teacher_id", Error: "must be an integer"})
		}
		filter.TeacherID = id
	}
	filter.Sentiment = feedback.Sentiment(core.CleanString(ctx.QueryParam("sentiment"), true /* lower */))

	if raw := ctx.QueryParam("from"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "from", Error: "invalid timestamp"})
		}
		filter.CreatedFrom = t
	}
	if raw := ctx.QueryParam("to"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "to", Error: "invalid timestamp"})
		}
		filter.CreatedTo = t
	}
	return filter, nil
}

func parseTime(raw string) (time.Time, error) {
	var t time.Time
	var err error
	for _, layout := range timeLayouts {
		if t, err = time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
