package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/maintenance"
)

type maintenanceApi struct {
	svc *maintenance.Service
}

func registerMaintenanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *maintenance.Service) {
	api := maintenanceApi{svc: svc}

	mg := g.Group("/maintenance", jwt)
	mg.POST("", api.create, studentMiddleware())
	mg.GET("", api.query)
	mg.PATCH("/:id/status", api.setStatus, adminMiddleware())
}

func (api *maintenanceApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data maintenance.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	req, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating maintenance request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *maintenanceApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	filter := maintenance.Filter{}
	if !claims.IsAdmin {
		filter.StudentID = claims.Subject
	}
	reqs, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying maintenance requests")
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *maintenanceApi) setStatus(ctx echo.Context) error {
	var data StatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}

	req, err := api.svc.SetStatus(ctx.Request().Context(), ctx.Param("id"), maintenance.Status(data.Status))
	if err != nil {
		if errors.Cause(err) == maintenance.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, req)
}
