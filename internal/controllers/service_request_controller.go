package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/catalog"
	"repair-desk/internal/dto"
	"repair-desk/internal/services"
	"repair-desk/internal/views"
	"repair-desk/pkg/api"
	apperrors "repair-desk/pkg/errors"
	"repair-desk/pkg/utils"
)

type ServiceRequestController struct {
	requestService services.ServiceRequestServiceInterface
	timeout        time.Duration
	logger         *zap.Logger
}

func NewServiceRequestController(requestService services.ServiceRequestServiceInterface, timeout time.Duration, logger *zap.Logger) *ServiceRequestController {
	return &ServiceRequestController{requestService: requestService, timeout: timeout, logger: logger}
}

// Create submits the request form. A failed submission is reported once and
// never retried.
func (c *ServiceRequestController) Create(ctx echo.Context) error {
	var form dto.CreateServiceRequestDTO
	if err := ctx.Bind(&form); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid form data", err, nil), c.logger)
	}
	if err := ctx.Validate(&form); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}

	selected := form.Services()
	total := catalog.FormatTotal(catalog.Total(selected))

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()
	caller := utils.GetCallerFromCtx(reqCtx)

	id, err := c.requestService.CreateServiceRequest(reqCtx, caller, backend.NewServiceRequest{
		CustomerName:       form.CustomerName,
		ContactInfo:        form.FormattedContactInfo(),
		ServicesRequested:  selected,
		TotalPriceEstimate: total,
		Description:        form.FormattedDescription(),
	})
	if errors.Is(err, backend.ErrNotReady) {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadGateway, "Failed to submit request. Please try again.", err, nil), c.logger)
	}

	return api.SuccessOne(ctx, http.StatusCreated, "Service request submitted successfully!", dto.CreatedServiceRequestDTO{
		ID:                 id,
		TotalPriceEstimate: total,
		Redirect:           fmt.Sprintf("/confirmation/%d", id),
	})
}

// Confirmation shows a just-submitted request.
func (c *ServiceRequestController) Confirmation(ctx echo.Context) error {
	return c.lookup(ctx, ctx.Param("requestId"), "Request submitted")
}

// StatusLookup is the customer-facing status page.
func (c *ServiceRequestController) StatusLookup(ctx echo.Context) error {
	return c.lookup(ctx, ctx.QueryParam("requestId"), "Request status")
}

func (c *ServiceRequestController) lookup(ctx echo.Context, rawID, message string) error {
	id, err := utils.ParseRequestID(rawID)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.requestService.GetServiceRequest(reqCtx, utils.GetCallerFromCtx(reqCtx), id)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, message, views.PublicRequest(req))
}
