package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/leave"
)

type leaveApi struct {
	svc *leave.Service
}

func registerLeaveAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *leave.Service) {
	api := leaveApi{svc: svc}

	lg := g.Group("/leaves", jwt)
	lg.POST("", api.create, studentMiddleware())
	lg.GET("", api.query)
	lg.GET("/:id", api.retrieve)
	lg.POST("/:id/approve", api.approve, adminMiddleware())
	lg.POST("/:id/reject", api.reject, adminMiddleware())
}

func (api *leaveApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data leave.NewLeave
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLeave")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	lv, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating leave")
	}
	return ctx.JSON(http.StatusCreated, lv)
}

func (api *leaveApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	filter := leave.Filter{}
	if !claims.IsAdmin {
		filter.StudentID = claims.Subject
	}
	leaves, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying leaves")
	}
	return ctx.JSON(http.StatusOK, leaves)
}

func (api *leaveApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	lv, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == leave.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding leave")
	}
	if !claims.IsAdmin && lv.StudentID != claims.Subject {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, lv)
}

func (api *leaveApi) approve(ctx echo.Context) error {
	return api.decide(ctx, true)
}

func (api *leaveApi) reject(ctx echo.Context) error {
	return api.decide(ctx, false)
}

func (api *leaveApi) decide(ctx echo.Context, approve bool) error {
	lv, err := api.svc.Decide(ctx.Request().Context(), ctx.Param("id"), approve)
	if err != nil {
		if errors.Cause(err) == leave.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, lv)
}
