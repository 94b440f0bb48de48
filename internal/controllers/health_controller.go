package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"repair-desk/internal/backend"
	"repair-desk/pkg/api"
	"repair-desk/pkg/websocket"
)

type HealthController struct {
	session *backend.Readiness
	hub     *websocket.Hub
}

func NewHealthController(session *backend.Readiness, hub *websocket.Hub) *HealthController {
	return &HealthController{session: session, hub: hub}
}

type healthView struct {
	Ready   bool `json:"ready"`
	Sockets int  `json:"sockets"`
}

// Health is 200 once the backend session is up and 503 before.
func (c *HealthController) Health(ctx echo.Context) error {
	view := healthView{Ready: c.session.Ready(), Sockets: c.hub.ClientCount()}
	if !view.Ready {
		return ctx.JSON(http.StatusServiceUnavailable, api.Response[healthView]{Status: false, Message: "Backend session pending", Body: view})
	}
	return api.SuccessOne(ctx, http.StatusOK, "OK", view)
}
