package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-desk/internal/dto"
	"repair-desk/internal/entities"
	"repair-desk/internal/services"
	"repair-desk/internal/views"
	"repair-desk/pkg/api"
	apperrors "repair-desk/pkg/errors"
	"repair-desk/pkg/utils"
)

const defaultNoteAuthor = "Admin"

// AdminController serves the gated admin pages; routes put the access gate
// in front of every handler here.
type AdminController struct {
	requestService services.ServiceRequestServiceInterface
	userService    services.UserServiceInterface
	reports        *ReportController
	timeout        time.Duration
	logger         *zap.Logger
}

func NewAdminController(
	requestService services.ServiceRequestServiceInterface,
	userService services.UserServiceInterface,
	reports *ReportController,
	timeout time.Duration,
	logger *zap.Logger,
) *AdminController {
	return &AdminController{
		requestService: requestService,
		userService:    userService,
		reports:        reports,
		timeout:        timeout,
		logger:         logger,
	}
}

// Dashboard lists every request, or those in ?status=. ?format=xlsx exports
// the same list.
func (c *AdminController) Dashboard(ctx echo.Context) error {
	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()
	caller := utils.GetCallerFromCtx(reqCtx)

	var (
		list []entities.ServiceRequest
		err  error
	)
	filter := strings.TrimSpace(ctx.QueryParam("status"))
	if filter == "" || filter == "all" {
		list, err = c.requestService.GetAllServiceRequests(reqCtx, caller)
	} else {
		status, perr := entities.ParseStatus(filter)
		if perr != nil {
			return api.ErrorResponse(ctx, apperrors.NewInvalidInputError("Unknown status %q", filter), c.logger)
		}
		list, err = c.requestService.GetServiceRequestsByStatus(reqCtx, caller, status)
	}
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}

	rows := views.Dashboard(list)
	if strings.EqualFold(ctx.QueryParam("format"), "xlsx") {
		return c.reports.RespondWithXLSX(ctx, rows)
	}
	return api.SuccessList(ctx, "Service requests", rows)
}

// Stats counts requests per status and lists the latest activity.
func (c *AdminController) Stats(ctx echo.Context) error {
	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()

	list, err := c.requestService.GetAllServiceRequests(reqCtx, utils.GetCallerFromCtx(reqCtx))
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Dashboard stats", views.Summarize(list))
}

func (c *AdminController) Detail(ctx echo.Context) error {
	id, err := utils.ParseRequestID(ctx.Param("requestId"))
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.requestService.GetFullServiceRequest(reqCtx, utils.GetCallerFromCtx(reqCtx), id)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	var opts []views.TimelineOption
	if ctx.QueryParam("timeline") == "latest" {
		opts = append(opts, views.LatestOnly())
	}
	return api.SuccessOne(ctx, http.StatusOK, "Service request", views.AdminRequest(req, opts...))
}

func (c *AdminController) UpdateStatus(ctx echo.Context) error {
	id, err := utils.ParseRequestID(ctx.Param("requestId"))
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	var form dto.UpdateStatusDTO
	if err := ctx.Bind(&form); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid form data", err, nil), c.logger)
	}
	if err := ctx.Validate(&form); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()
	caller := utils.GetCallerFromCtx(reqCtx)

	if err := c.requestService.UpdateRequestStatus(reqCtx, caller, id, entities.RequestStatus(form.Status)); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	req, err := c.requestService.GetFullServiceRequest(reqCtx, caller, id)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Status updated successfully", views.AdminRequest(req))
}

func (c *AdminController) AddNote(ctx echo.Context) error {
	id, err := utils.ParseRequestID(ctx.Param("requestId"))
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	var form dto.AddNoteDTO
	if err := ctx.Bind(&form); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid form data", err, nil), c.logger)
	}
	if err := ctx.Validate(&form); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()
	caller := utils.GetCallerFromCtx(reqCtx)

	dest := entities.NoteDestination(form.Destination)
	if err := c.requestService.AddNote(reqCtx, caller, id, dest, c.author(reqCtx, caller), strings.TrimSpace(form.Message)); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	req, err := c.requestService.GetFullServiceRequest(reqCtx, caller, id)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Note added", views.Notes(req.PublicNotes, req.InternalNotes))
}

// author is the admin's profile name, or "Admin" when there is none yet.
func (c *AdminController) author(ctx context.Context, caller entities.Caller) string {
	state, err := c.userService.GetProfileState(ctx, caller)
	if err != nil || state.Profile == nil || strings.TrimSpace(state.Profile.Name) == "" {
		return defaultNoteAuthor
	}
	return state.Profile.Name
}

func (c *AdminController) AssignRole(ctx echo.Context) error {
	var form dto.AssignRoleDTO
	if err := ctx.Bind(&form); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid form data", err, nil), c.logger)
	}
	if err := ctx.Validate(&form); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	role, err := entities.ParseRole(form.Role)
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewInvalidInputError("%s", err.Error()), c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()

	principal := entities.Principal(strings.TrimSpace(form.Principal))
	if err := c.userService.AssignRole(reqCtx, utils.GetCallerFromCtx(reqCtx), principal, role); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Role assigned", form)
}

func (c *AdminController) UserProfile(ctx echo.Context) error {
	principal := entities.Principal(ctx.Param("principal"))
	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()

	profile, err := c.userService.GetUserProfile(reqCtx, utils.GetCallerFromCtx(reqCtx), principal)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "User profile", profile)
}
