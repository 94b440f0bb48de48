package routes

import (
	"github.com/labstack/echo/v4"

	"repair-desk/internal/controllers"
)

func runPublicRouter(group *echo.Group, catalog *controllers.CatalogController, requests *controllers.ServiceRequestController) {
	group.GET("/", catalog.Landing)
	group.GET("/service-request", catalog.RequestForm)
	group.POST("/service-request", requests.Create)
	group.GET("/confirmation/:requestId", requests.Confirmation)
	group.GET("/status", requests.StatusLookup)
}
