package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core/feedback"
)

type feedbackApi struct {
	svc *feedback.Service
}

func registerFeedbackAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *feedback.Service) {
	api := feedbackApi{svc: svc}

	fg := g.Group("/feedback", jwt)

	fg.POST("", api.submit, studentMiddleware())

	// review/moderation endpoints
	fg.GET("", api.queryAll, adminMiddleware())
	fg.GET("/filter", api.queryFiltered, adminMiddleware())
	fg.GET("/course/:id", api.queryByCourse, adminMiddleware())
	fg.GET("/course/:id/analytics", api.courseAnalytics, adminMiddleware())
	fg.GET("/teacher/:id", api.queryByTeacher, adminMiddleware())
	fg.GET("/teacher/:id/analytics", api.teacherAnalytics, adminMiddleware())

	// owning student or admin; decided against the record itself
	fg.PUT("/:id", api.update)
	fg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *feedbackApi) submit(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	var data feedback.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	fb, err := api.svc.Submit(ctx.Request().Context(), ident, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, FeedbackResponse{
		Message:   "Feedback submitted successfully",
		Sentiment: fb.Sentiment,
	})
}

func (api *feedbackApi) queryAll(ctx echo.Context) error {
	fbs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying feedback")
	}
	return ctx.JSON(http.StatusOK, fbs)
}

func (api *feedbackApi) queryFiltered(ctx echo.Context) error {
	filter, err := bindFeedbackFilter(ctx)
	if err != nil {
		return err
	}
	if err := filter.Validate(); err != nil {
		return err
	}

	fbs, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying feedback")
	}
	return ctx.JSON(http.StatusOK, fbs)
}

func (api *feedbackApi) queryByCourse(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	fbs, err := api.svc.QueryByCourse(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying feedback by course")
	}
	return ctx.JSON(http.StatusOK, fbs)
}

func (api *feedbackApi) queryByTeacher(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	fbs, err := api.svc.QueryByTeacher(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying feedback by teacher")
	}
	return ctx.JSON(http.StatusOK, fbs)
}

func (api *feedbackApi) update(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data feedback.UpdateFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFeedback")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	fb, err := api.svc.Update(ctx.Request().Context(), ident, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, FeedbackResponse{
		Message:   "Feedback updated successfully",
		Sentiment: fb.Sentiment,
	})
}

func (api *feedbackApi) destroy(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ident, id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, FeedbackResponse{Message: "Feedback deleted successfully"})
}

func (api *feedbackApi) courseAnalytics(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	analytics, err := api.svc.CourseAnalytics(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "aggregating course analytics")
	}
	return ctx.JSON(http.StatusOK, analytics)
}

func (api *feedbackApi) teacherAnalytics(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	analytics, err := api.svc.TeacherAnalytics(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "aggregating teacher analytics")
	}
	return ctx.JSON(http.StatusOK, analytics)
}

type FeedbackResponse struct {
	Message   string             `json:"message"`
	Sentiment feedback.Sentiment `json:"sentiment,omitempty"`
}
