package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/entities"
	"repair-desk/internal/querycache"
	"repair-desk/internal/repositories"
	"repair-desk/pkg/config"
	apperrors "repair-desk/pkg/errors"
)

type ProfileStatus string

const (
	ProfileLoading ProfileStatus = "loading"
	// ProfileMissing means the profile was fetched and does not exist yet;
	// the client shows first-run profile setup.
	ProfileMissing ProfileStatus = "missing"
	ProfilePresent ProfileStatus = "present"
)

type ProfileState struct {
	Status  ProfileStatus         `json:"status"`
	Profile *entities.UserProfile `json:"profile,omitempty"`
}

type UserServiceInterface interface {
	GetProfileState(ctx context.Context, caller entities.Caller) (ProfileState, error)
	SaveProfile(ctx context.Context, caller entities.Caller, profile entities.UserProfile) error
	GetUserProfile(ctx context.Context, caller entities.Caller, user entities.Principal) (*entities.UserProfile, error)
	IsCallerAdmin(ctx context.Context, caller entities.Caller) (bool, error)
	GetCallerRole(ctx context.Context, caller entities.Caller) (entities.UserRole, error)
	AssignRole(ctx context.Context, caller entities.Caller, user entities.Principal, role entities.UserRole) error
}

type UserService struct {
	repo      repositories.UserRepositoryInterface
	cache     *querycache.Cache
	publisher Publisher
	cacheCfg  config.CacheConfig
	logger    *zap.Logger
}

func NewUserService(
	repo repositories.UserRepositoryInterface,
	cache *querycache.Cache,
	publisher Publisher,
	cacheCfg config.CacheConfig,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		cacheCfg:  cacheCfg,
		logger:    logger,
	}
}

// GetProfileState answers loading instead of failing while the backend
// session is still being established.
func (s *UserService) GetProfileState(ctx context.Context, caller entities.Caller) (ProfileState, error) {
	if caller.IsAnonymous() {
		return ProfileState{}, apperrors.ErrUnauthorized
	}
	profile, err := querycache.Fetch(ctx, s.cache, querycache.CurrentUserProfile(caller.Principal), s.cacheCfg.TTL,
		func(ctx context.Context) (*entities.UserProfile, error) {
			return s.repo.FindCallerProfile(ctx, caller)
		})
	switch {
	case errors.Is(err, backend.ErrNotReady):
		return ProfileState{Status: ProfileLoading}, nil
	case err != nil:
		return ProfileState{}, err
	case profile == nil:
		return ProfileState{Status: ProfileMissing}, nil
	}
	return ProfileState{Status: ProfilePresent, Profile: profile}, nil
}

func (s *UserService) SaveProfile(ctx context.Context, caller entities.Caller, profile entities.UserProfile) error {
	if caller.IsAnonymous() {
		return apperrors.ErrUnauthorized
	}
	if err := s.repo.SaveCallerProfile(ctx, caller, profile); err != nil {
		return err
	}
	s.logger.Info("profile saved", zap.String("principal", string(caller.Principal)))
	publishInvalidation(ctx, s.cache, s.publisher, s.logger, "saveCallerUserProfile", caller.Principal,
		[]querycache.Key{querycache.CurrentUserProfile(caller.Principal)}, nil)
	return nil
}

// GetUserProfile reads another identity's profile. It is not part of the
// cached key space.
func (s *UserService) GetUserProfile(ctx context.Context, caller entities.Caller, user entities.Principal) (*entities.UserProfile, error) {
	if err := s.cache.WaitReady(ctx); err != nil {
		return nil, err
	}
	profile, err := s.repo.FindProfile(ctx, caller, user)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("profile of %s: %w", user, apperrors.ErrNotFound)
	}
	return profile, nil
}

// IsCallerAdmin is false for anonymous callers without asking the backend.
func (s *UserService) IsCallerAdmin(ctx context.Context, caller entities.Caller) (bool, error) {
	if caller.IsAnonymous() {
		return false, nil
	}
	return querycache.Fetch(ctx, s.cache, querycache.IsAdmin(caller.Principal), s.cacheCfg.RoleTTL,
		func(ctx context.Context) (bool, error) {
			return s.repo.IsCallerAdmin(ctx, caller)
		})
}

func (s *UserService) GetCallerRole(ctx context.Context, caller entities.Caller) (entities.UserRole, error) {
	if caller.IsAnonymous() {
		return entities.RoleGuest, nil
	}
	if err := s.cache.WaitReady(ctx); err != nil {
		return "", err
	}
	return s.repo.FindCallerRole(ctx, caller)
}

// AssignRole is privileged. isAdmin entries of the target expire by RoleTTL.
func (s *UserService) AssignRole(ctx context.Context, caller entities.Caller, user entities.Principal, role entities.UserRole) error {
	if err := s.repo.AssignRole(ctx, caller, user, role); err != nil {
		return err
	}
	s.logger.Info("role assigned",
		zap.String("by", string(caller.Principal)),
		zap.String("user", string(user)),
		zap.String("role", string(role)),
	)
	return nil
}
