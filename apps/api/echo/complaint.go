package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/complaint"
)

type complaintApi struct {
	svc *complaint.Service
}

func registerComplaintAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *complaint.Service) {
	api := complaintApi{svc: svc}

	cg := g.Group("/complaints", jwt)
	cg.POST("", api.create, studentMiddleware())
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.PATCH("/:id/status", api.setStatus, adminMiddleware())
}

func (api *complaintApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data complaint.NewComplaint
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComplaint")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cpl, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating complaint")
	}
	return ctx.JSON(http.StatusCreated, cpl)
}

// query lists all complaints for admins, the caller's own for students.
func (api *complaintApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	filter := complaint.Filter{}
	if !claims.IsAdmin {
		filter.StudentID = claims.Subject
	}
	cpls, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying complaints")
	}
	return ctx.JSON(http.StatusOK, cpls)
}

func (api *complaintApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	cpl, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == complaint.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding complaint")
	}
	if !claims.IsAdmin && cpl.StudentID != claims.Subject {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, cpl)
}

func (api *complaintApi) setStatus(ctx echo.Context) error {
	var data StatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}

	cpl, err := api.svc.SetStatus(ctx.Request().Context(), ctx.Param("id"), complaint.Status(data.Status))
	if err != nil {
		if errors.Cause(err) == complaint.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, cpl)
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}
