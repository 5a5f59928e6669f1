package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/result"
)

type resultApi struct {
	svc    *result.Service
	logger core.Logger
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *result.Service, logger core.Logger) {
	api := resultApi{svc: svc, logger: logger}

	rg := g.Group("/results", jwt)
	rg.POST("", api.record, roleMiddleware(RoleTeacher, RoleAdmin))
	rg.GET("", api.retrieve, roleMiddleware(RoleTeacher, RoleAdmin))
	rg.DELETE("/:id", api.destroy, roleMiddleware(RoleAdmin))
}

type resultResponse struct {
	Enrollment result.Enrollment `json:"enrollment"`
	Result     result.Result     `json:"result"`
}

// Handlers

func (api *resultApi) record(ctx echo.Context) error {
	var data result.NewResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}

	out, err := api.svc.RecordResult(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording result")
	}
	if claims, err := getContextClaims(ctx); err == nil {
		api.logger.Debug("result recorded", claims.person(), map[string]interface{}{"result_id": out.ResultID})
	}

	code := http.StatusOK
	if out.Created {
		code = http.StatusCreated
	}
	return ctx.JSON(code, out)
}

func (api *resultApi) retrieve(ctx echo.Context) error {
	key := result.Key{
		StudentID:  core.CleanString(ctx.QueryParam("student_id")),
		SubjectID:  core.CleanString(ctx.QueryParam("subject_id")),
		SemesterID: core.CleanString(ctx.QueryParam("semester_id")),
	}
	var flds []core.FieldError
	for name, val := range map[string]string{"student_id": key.StudentID, "subject_id": key.SubjectID, "semester_id": key.SemesterID} {
		if val == "" {
			flds = append(flds, core.FieldError{Field: name, Error: "this field is required"})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	enr, res, err := api.svc.GetResult(ctx.Request().Context(), key)
	if err != nil {
		return errors.Wrap(err, "getting result")
	}
	return ctx.JSON(http.StatusOK, resultResponse{Enrollment: enr, Result: res})
}

func (api *resultApi) destroy(ctx echo.Context) error {
	if err := api.svc.DeleteResult(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting result")
	}
	return ctx.NoContent(http.StatusNoContent)
}
