package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-desk/internal/authz"
	"repair-desk/internal/dto"
	"repair-desk/internal/entities"
	"repair-desk/internal/services"
	"repair-desk/pkg/api"
	apperrors "repair-desk/pkg/errors"
	"repair-desk/pkg/service"
	"repair-desk/pkg/utils"
)

type UserController struct {
	userService services.UserServiceInterface
	gate        *authz.Gatekeeper
	jwtService  service.JWTService
	timeout     time.Duration
	logger      *zap.Logger
}

func NewUserController(
	userService services.UserServiceInterface,
	gate *authz.Gatekeeper,
	jwtService service.JWTService,
	timeout time.Duration,
	logger *zap.Logger,
) *UserController {
	return &UserController{
		userService: userService,
		gate:        gate,
		jwtService:  jwtService,
		timeout:     timeout,
		logger:      logger,
	}
}

// GetProfile answers loading, missing or present; missing sends the client
// to first-run profile setup.
func (c *UserController) GetProfile(ctx echo.Context) error {
	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()

	state, err := c.userService.GetProfileState(reqCtx, utils.GetCallerFromCtx(reqCtx))
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Profile", state)
}

func (c *UserController) SaveProfile(ctx echo.Context) error {
	var form dto.SaveProfileDTO
	if err := ctx.Bind(&form); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid form data", err, nil), c.logger)
	}
	if err := ctx.Validate(&form); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()

	profile := entities.UserProfile{Name: strings.TrimSpace(form.Name), Email: form.Email}
	if err := c.userService.SaveProfile(reqCtx, utils.GetCallerFromCtx(reqCtx), profile); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Profile saved", profile)
}

type sessionView struct {
	Principal     entities.Principal `json:"principal"`
	Authenticated bool               `json:"authenticated"`
	Role          entities.UserRole  `json:"role,omitempty"`
	Gate          authz.Decision     `json:"gate"`
}

// Session reports who the caller is and what the admin gate would decide.
// While the backend session is pending the role is left out.
func (c *UserController) Session(ctx echo.Context) error {
	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.timeout)
	defer cancel()
	caller := utils.GetCallerFromCtx(reqCtx)

	decision, err := c.gate.Resolve(reqCtx, caller)
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	view := sessionView{
		Principal:     caller.Principal,
		Authenticated: !caller.IsAnonymous(),
		Gate:          decision,
	}
	if decision.State != authz.StateResolving {
		role, err := c.userService.GetCallerRole(reqCtx, caller)
		if err != nil {
			c.logger.Warn("session: role lookup failed", zap.String("principal", string(caller.Principal)), zap.Error(err))
		} else {
			view.Role = role
		}
	}
	return api.SuccessOne(ctx, http.StatusOK, "Session", view)
}

type devTokenRequest struct {
	Principal string `json:"principal" validate:"required,notblank"`
}

type devTokenView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DevToken issues an identity token for any principal. Routes mount it only
// with the in-process backend.
func (c *UserController) DevToken(ctx echo.Context) error {
	var form devTokenRequest
	if err := ctx.Bind(&form); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Invalid form data", err, nil), c.logger)
	}
	if err := ctx.Validate(&form); err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	token, err := c.jwtService.GenerateToken(strings.TrimSpace(form.Principal))
	if err != nil {
		return api.ErrorResponse(ctx, err, c.logger)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Token issued", devTokenView{
		Token:     token,
		ExpiresAt: time.Now().Add(c.jwtService.GetTokenTTL()),
	})
}
