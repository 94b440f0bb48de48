package routes

import (
	"github.com/labstack/echo/v4"

	"repair-desk/internal/controllers"
)

// runAdminRouter expects a group already behind the access gate.
func runAdminRouter(adminGroup *echo.Group, admin *controllers.AdminController) {
	adminGroup.GET("", admin.Dashboard)
	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/request/:requestId", admin.Detail)
	adminGroup.POST("/request/:requestId/status", admin.UpdateStatus)
	adminGroup.POST("/request/:requestId/notes", admin.AddNote)
	adminGroup.POST("/roles", admin.AssignRole)
	adminGroup.GET("/users/:principal", admin.UserProfile)
}
