package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-desk/internal/dto"
	"repair-desk/pkg/api"
)

type CatalogController struct {
	logger *zap.Logger
}

func NewCatalogController(logger *zap.Logger) *CatalogController {
	return &CatalogController{logger: logger}
}

// Landing lists the services grouped by category.
func (c *CatalogController) Landing(ctx echo.Context) error {
	return api.SuccessOne(ctx, http.StatusOK, "Controller repair and custom mods", dto.NewCatalogDTO())
}

func (c *CatalogController) RequestForm(ctx echo.Context) error {
	return api.SuccessOne(ctx, http.StatusOK, "Service request form", dto.NewRequestFormDTO())
}
