package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/makazi/core/chat"
)

type chatApi struct {
	svc *chat.Service
}

func registerChatAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *chat.Service) {
	api := chatApi{svc: svc}

	cg := g.Group("/chat", jwt)

	// student endpoints: a student only ever sees their own thread
	sg := cg.Group("/messages", studentMiddleware())
	sg.GET("", api.studentThread)
	sg.POST("", api.studentSend)

	// admin endpoints
	ag := cg.Group("/conversations", adminMiddleware())
	ag.GET("", api.conversations)
	ag.GET("/:studentId/messages", api.adminThread)
	ag.POST("/:studentId/messages", api.adminSend)
}

func (api *chatApi) studentThread(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	msgs, err := api.svc.Open(ctx.Request().Context(), claims.Subject, false /* forAdmin */)
	if err != nil {
		return errors.Wrap(err, "opening thread")
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *chatApi) studentSend(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data chat.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	msg, err := api.svc.Send(ctx.Request().Context(), claims.Subject, false /* fromAdmin */, data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *chatApi) conversations(ctx echo.Context) error {
	convs, err := api.svc.Conversations(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying conversations")
	}
	if convs == nil {
		convs = []chat.Conversation{}
	}
	return ctx.JSON(http.StatusOK, convs)
}

func (api *chatApi) adminThread(ctx echo.Context) error {
	msgs, err := api.svc.Open(ctx.Request().Context(), ctx.Param("studentId"), true /* forAdmin */)
	if err != nil {
		return errors.Wrap(err, "opening thread")
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *chatApi) adminSend(ctx echo.Context) error {
	var data chat.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	msg, err := api.svc.Send(ctx.Request().Context(), ctx.Param("studentId"), true /* fromAdmin */, data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusCreated, msg)
}
