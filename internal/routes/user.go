package routes

import (
	"github.com/labstack/echo/v4"

	"repair-desk/internal/controllers"
)

func runUserRouter(group *echo.Group, userCtrl *controllers.UserController, devTokens bool) {
	group.GET("/profile", userCtrl.GetProfile)
	group.PUT("/profile", userCtrl.SaveProfile)
	group.GET("/session", userCtrl.Session)
	if devTokens {
		group.POST("/session/dev-token", userCtrl.DevToken)
	}
}
