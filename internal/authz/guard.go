package authz

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-desk/pkg/api"
	"repair-desk/pkg/utils"
)

// GateView is rendered instead of an admin page while access is resolving
// or denied.
type GateView struct {
	Decision
	Title   string `json:"title"`
	Message string `json:"message"`
}

func deniedView(d Decision) GateView {
	message := "You do not have permission to access this area."
	for _, a := range d.Actions {
		if a == ActionLogin {
			message = "Please log in to access the admin area."
		}
	}
	return GateView{Decision: d, Title: "Access Denied", Message: message}
}

// AdminRouteGuard lets a request through only when the gate is granted.
func AdminRouteGuard(gate *Gatekeeper, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := utils.GetCallerFromCtx(c.Request().Context())
			d, err := gate.Resolve(c.Request().Context(), caller)
			if err != nil {
				return api.ErrorResponse(c, err, logger)
			}

			switch d.State {
			case StateGranted:
				return next(c)
			case StateResolving:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, api.Response[GateView]{
					Status:  false,
					Message: "Loading, please retry shortly.",
					Body:    GateView{Decision: d, Title: "Loading"},
				})
			default:
				view := deniedView(d)
				return c.JSON(http.StatusForbidden, api.Response[GateView]{
					Status:  false,
					Message: view.Title,
					Body:    view,
				})
			}
		}
	}
}
