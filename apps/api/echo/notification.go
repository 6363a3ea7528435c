package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/notification"
)

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *notification.Service) {
	api := notificationApi{svc: svc}

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.list)
	ng.POST("/clear", api.clear)
}

// list returns the caller's current unread feed, newest first. The feed is
// recomputed on every call; clients poll it.
func (api *notificationApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	events, err := api.svc.Aggregate(ctx.Request().Context(), claims.Subject, claimsRole(claims))
	if err != nil {
		return errors.Wrap(err, "aggregating notifications")
	}
	return ctx.JSON(http.StatusOK, events)
}

// clear advances the caller's watermark to now; subsequent list calls come
// back empty until new events occur.
func (api *notificationApi) clear(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Clear(ctx.Request().Context(), claims.Subject); err != nil {
		return errors.Wrap(err, "clearing notifications")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func claimsRole(claims Claims) notification.Role {
	if claims.IsAdmin {
		return notification.RoleAdmin
	}
	return notification.RoleStudent
}
