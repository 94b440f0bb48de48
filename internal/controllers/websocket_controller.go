package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-desk/pkg/service"
	appwebsocket "repair-desk/pkg/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketController struct {
	hub        *appwebsocket.Hub
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, jwtService service.JWTService, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		hub:        hub,
		jwtService: jwtService,
		logger:     logger,
	}
}

// ServeWs streams invalidation events. Browsers cannot set headers on the
// upgrade, so the identity token comes as ?token=; without one the client
// only receives broadcasts.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	var principal string
	if tokenString := ctx.QueryParam("token"); tokenString != "" {
		claims, err := c.jwtService.ValidateToken(tokenString)
		if err != nil {
			return ctx.String(http.StatusUnauthorized, "Invalid token")
		}
		principal = claims.Principal()
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("websocket upgrade failed", zap.Error(err))
		return err
	}

	client := appwebsocket.NewClient(c.hub, conn, principal)
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("websocket client connected", zap.String("principal", principal), zap.String("client", client.ID))
	return nil
}
