package repositories

import (
	"context"

	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/entities"
)

type UserRepositoryInterface interface {
	Session() *backend.Readiness
	FindCallerProfile(ctx context.Context, caller entities.Caller) (*entities.UserProfile, error)
	SaveCallerProfile(ctx context.Context, caller entities.Caller, profile entities.UserProfile) error
	FindProfile(ctx context.Context, caller entities.Caller, user entities.Principal) (*entities.UserProfile, error)
	IsCallerAdmin(ctx context.Context, caller entities.Caller) (bool, error)
	FindCallerRole(ctx context.Context, caller entities.Caller) (entities.UserRole, error)
	AssignRole(ctx context.Context, caller entities.Caller, user entities.Principal, role entities.UserRole) error
}

type UserRepository struct {
	actor  backend.Actor
	logger *zap.Logger
}

func NewUserRepository(actor backend.Actor, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{actor: actor, logger: logger}
}

func (r *UserRepository) Session() *backend.Readiness {
	return r.actor.Session()
}

func (r *UserRepository) ready() error {
	if !r.actor.Session().Ready() {
		return backend.ErrNotReady
	}
	return nil
}

func (r *UserRepository) FindCallerProfile(ctx context.Context, caller entities.Caller) (*entities.UserProfile, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	return r.actor.GetCallerUserProfile(ctx, caller)
}

func (r *UserRepository) SaveCallerProfile(ctx context.Context, caller entities.Caller, profile entities.UserProfile) error {
	if err := r.ready(); err != nil {
		return err
	}
	if err := r.actor.SaveCallerUserProfile(ctx, caller, profile); err != nil {
		r.logger.Warn("saveCallerUserProfile failed", zap.String("principal", string(caller.Principal)), zap.Error(err))
		return err
	}
	return nil
}

func (r *UserRepository) FindProfile(ctx context.Context, caller entities.Caller, user entities.Principal) (*entities.UserProfile, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	return r.actor.GetUserProfile(ctx, caller, user)
}

func (r *UserRepository) IsCallerAdmin(ctx context.Context, caller entities.Caller) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	return r.actor.IsCallerAdmin(ctx, caller)
}

func (r *UserRepository) FindCallerRole(ctx context.Context, caller entities.Caller) (entities.UserRole, error) {
	if err := r.ready(); err != nil {
		return "", err
	}
	return r.actor.GetCallerUserRole(ctx, caller)
}

func (r *UserRepository) AssignRole(ctx context.Context, caller entities.Caller, user entities.Principal, role entities.UserRole) error {
	if err := r.ready(); err != nil {
		return err
	}
	if err := r.actor.AssignCallerUserRole(ctx, caller, user, role); err != nil {
		r.logger.Warn("assignCallerUserRole failed", zap.String("user", string(user)), zap.String("role", string(role)), zap.Error(err))
		return err
	}
	return nil
}
