package authz

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"repair-desk/internal/backend"
	"repair-desk/internal/entities"
	"repair-desk/pkg/metrics"
)

// RoleChecker answers whether the caller holds the admin role.
type RoleChecker interface {
	IsCallerAdmin(ctx context.Context, caller entities.Caller) (bool, error)
}

// IdentityResolver answers whether the caller is logged in.
type IdentityResolver interface {
	HasIdentity(ctx context.Context, caller entities.Caller) (bool, error)
}

// TokenIdentity treats any non-anonymous caller as logged in; the token was
// already verified by the identity middleware.
type TokenIdentity struct{}

func (TokenIdentity) HasIdentity(_ context.Context, caller entities.Caller) (bool, error) {
	return !caller.IsAnonymous(), nil
}

// Gatekeeper decides access to admin pages. It keeps no decision of its
// own: the role comes from the query layer every time.
type Gatekeeper struct {
	identity IdentityResolver
	roles    RoleChecker
	logger   *zap.Logger
}

func NewGatekeeper(identity IdentityResolver, roles RoleChecker, logger *zap.Logger) *Gatekeeper {
	return &Gatekeeper{identity: identity, roles: roles, logger: logger}
}

// Resolve runs both resolutions concurrently. A role lookup that cannot start
// because the backend session is pending leaves the gate resolving.
func (g *Gatekeeper) Resolve(ctx context.Context, caller entities.Caller) (Decision, error) {
	var r Resolution
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		has, err := g.identity.HasIdentity(gctx, caller)
		if err != nil {
			return err
		}
		r.IdentityKnown, r.HasIdentity = true, has
		return nil
	})
	group.Go(func() error {
		isAdmin, err := g.roles.IsCallerAdmin(gctx, caller)
		if errors.Is(err, backend.ErrNotReady) {
			return nil
		}
		if err != nil {
			return err
		}
		r.RoleKnown, r.IsAdmin = true, isAdmin
		return nil
	})

	if err := group.Wait(); err != nil {
		g.logger.Warn("access gate: resolution failed", zap.String("principal", string(caller.Principal)), zap.Error(err))
		return Decision{}, err
	}

	d := Decide(r)
	metrics.GateDecision(string(d.State))
	g.logger.Debug("access gate decided", zap.String("principal", string(caller.Principal)), zap.String("state", string(d.State)))
	return d, nil
}
