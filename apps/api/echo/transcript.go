package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/transcript"
)

// GPAs are shown with 2 decimal places
const displayPlaces = 2

type transcriptApi struct {
	svc *transcript.Service
}

func registerTranscriptAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *transcript.Service) {
	api := transcriptApi{svc: svc}

	sg := g.Group("/students/:id", jwt, ownerOrStaffMiddleware())
	sg.GET("/transcript", api.retrieve)
}

func (api *transcriptApi) retrieve(ctx echo.Context) error {
	tr, err := api.svc.BuildTranscript(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("semester_id"))
	if err != nil {
		return errors.Wrap(err, "building transcript")
	}
	if tr == nil {
		return errNoResults
	}
	return ctx.JSON(http.StatusOK, tr.Round(displayPlaces))
}
