package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/hostel"
)

type hostelApi struct {
	svc *hostel.Service
}

func registerHostelAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *hostel.Service) {
	api := hostelApi{svc: svc}

	hg := g.Group("/hostel", jwt)

	hg.GET("/bus-timings", api.busTimings)
	hg.PUT("/bus-timings", api.saveBusTiming, adminMiddleware())
	hg.DELETE("/bus-timings/:id", api.destroyBusTiming, adminMiddleware())

	hg.GET("/emergency-contacts", api.emergencyContacts)
	hg.PUT("/emergency-contacts", api.saveEmergencyContact, adminMiddleware())
	hg.DELETE("/emergency-contacts/:id", api.destroyEmergencyContact, adminMiddleware())
}

func (api *hostelApi) busTimings(ctx echo.Context) error {
	timings, err := api.svc.BusTimings(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying bus timings")
	}
	return ctx.JSON(http.StatusOK, timings)
}

func (api *hostelApi) saveBusTiming(ctx echo.Context) error {
	var data hostel.UpsertBusTiming
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertBusTiming")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	bt, err := api.svc.SaveBusTiming(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving bus timing")
	}
	return ctx.JSON(http.StatusOK, bt)
}

func (api *hostelApi) destroyBusTiming(ctx echo.Context) error {
	if err := api.svc.DeleteBusTiming(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting bus timing")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *hostelApi) emergencyContacts(ctx echo.Context) error {
	contacts, err := api.svc.EmergencyContacts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying emergency contacts")
	}
	return ctx.JSON(http.StatusOK, contacts)
}

func (api *hostelApi) saveEmergencyContact(ctx echo.Context) error {
	var data hostel.UpsertEmergencyContact
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertEmergencyContact")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ec, err := api.svc.SaveEmergencyContact(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving emergency contact")
	}
	return ctx.JSON(http.StatusOK, ec)
}

func (api *hostelApi) destroyEmergencyContact(ctx echo.Context) error {
	if err := api.svc.DeleteEmergencyContact(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting emergency contact")
	}
	return ctx.NoContent(http.StatusNoContent)
}
