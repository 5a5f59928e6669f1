package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/grading"
)

func registerGradingAPI(g *echo.Group) {
	gg := g.Group("/grading")
	gg.GET("/evaluate", evaluate)
	gg.GET("/scale", scale)
}

func evaluate(ctx echo.Context) error {
	pct, err := decimal.NewFromString(ctx.QueryParam("percentage"))
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "percentage", Error: "must be a number"})
	}
	grade, err := grading.Evaluate(pct)
	if err != nil {
		return errors.Wrap(err, "evaluating percentage")
	}
	return ctx.JSON(http.StatusOK, grade)
}

func scale(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, grading.Bands())
}
