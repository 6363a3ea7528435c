package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/laundry"
)

type laundryApi struct {
	svc *laundry.Service
}

func registerLaundryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *laundry.Service) {
	api := laundryApi{svc: svc}

	lg := g.Group("/laundry", jwt)
	lg.POST("", api.create, studentMiddleware())
	lg.GET("", api.query)
	lg.PATCH("/:id/status", api.setStatus, adminMiddleware())
}

func (api *laundryApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data laundry.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	req, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating laundry request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *laundryApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	filter := laundry.Filter{}
	if !claims.IsAdmin {
		filter.StudentID = claims.Subject
	}
	reqs, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying laundry requests")
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *laundryApi) setStatus(ctx echo.Context) error {
	var data StatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}

	req, err := api.svc.SetStatus(ctx.Request().Context(), ctx.Param("id"), laundry.Status(data.Status))
	if err != nil {
		if errors.Cause(err) == laundry.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, req)
}
