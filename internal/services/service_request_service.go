package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/entities"
	"repair-desk/internal/events"
	"repair-desk/internal/querycache"
	"repair-desk/internal/repositories"
	"repair-desk/pkg/config"
	apperrors "repair-desk/pkg/errors"
	"repair-desk/pkg/eventbus"
)

// Publisher is the part of the event bus services need.
type Publisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

type ServiceRequestServiceInterface interface {
	CreateServiceRequest(ctx context.Context, caller entities.Caller, in backend.NewServiceRequest) (uint64, error)
	GetServiceRequest(ctx context.Context, caller entities.Caller, id uint64) (*entities.PublicServiceRequest, error)
	GetFullServiceRequest(ctx context.Context, caller entities.Caller, id uint64) (*entities.ServiceRequest, error)
	GetAllServiceRequests(ctx context.Context, caller entities.Caller) ([]entities.ServiceRequest, error)
	GetServiceRequestsByStatus(ctx context.Context, caller entities.Caller, status entities.RequestStatus) ([]entities.ServiceRequest, error)
	UpdateRequestStatus(ctx context.Context, caller entities.Caller, id uint64, status entities.RequestStatus) error
	AddNote(ctx context.Context, caller entities.Caller, id uint64, dest entities.NoteDestination, author, message string) error
}

type ServiceRequestService struct {
	repo      repositories.ServiceRequestRepositoryInterface
	cache     *querycache.Cache
	publisher Publisher
	cacheCfg  config.CacheConfig
	logger    *zap.Logger
}

func NewServiceRequestService(
	repo repositories.ServiceRequestRepositoryInterface,
	cache *querycache.Cache,
	publisher Publisher,
	cacheCfg config.CacheConfig,
	logger *zap.Logger,
) ServiceRequestServiceInterface {
	return &ServiceRequestService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		cacheCfg:  cacheCfg,
		logger:    logger,
	}
}

func (s *ServiceRequestService) CreateServiceRequest(ctx context.Context, caller entities.Caller, in backend.NewServiceRequest) (uint64, error) {
	id, err := s.repo.Create(ctx, caller, in)
	if err != nil {
		return 0, err
	}
	s.logger.Info("service request created", zap.Uint64("id", id), zap.Strings("services", in.ServicesRequested))
	s.invalidate(ctx, "createServiceRequest", []querycache.Key{querycache.ServiceRequests()}, nil)
	return id, nil
}

// GetServiceRequest returns the public projection, or ErrNotFound.
func (s *ServiceRequestService) GetServiceRequest(ctx context.Context, caller entities.Caller, id uint64) (*entities.PublicServiceRequest, error) {
	req, err := querycache.Fetch(ctx, s.cache, querycache.ServiceRequest(id), s.cacheCfg.LookupTTL,
		func(ctx context.Context) (*entities.PublicServiceRequest, error) {
			return s.repo.FindPublic(ctx, caller, id)
		})
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("request %d: %w", id, apperrors.ErrNotFound)
	}
	return req, nil
}

// GetFullServiceRequest is admin-only; callers pass the access gate first.
func (s *ServiceRequestService) GetFullServiceRequest(ctx context.Context, caller entities.Caller, id uint64) (*entities.ServiceRequest, error) {
	req, err := querycache.Fetch(ctx, s.cache, querycache.FullServiceRequest(id), s.cacheCfg.TTL,
		func(ctx context.Context) (*entities.ServiceRequest, error) {
			return s.repo.FindFull(ctx, caller, id)
		})
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("request %d: %w", id, apperrors.ErrNotFound)
	}
	return req, nil
}

func (s *ServiceRequestService) GetAllServiceRequests(ctx context.Context, caller entities.Caller) ([]entities.ServiceRequest, error) {
	return querycache.Fetch(ctx, s.cache, querycache.ServiceRequests(), s.cacheCfg.TTL,
		func(ctx context.Context) ([]entities.ServiceRequest, error) {
			return s.repo.FindAll(ctx, caller)
		})
}

func (s *ServiceRequestService) GetServiceRequestsByStatus(ctx context.Context, caller entities.Caller, status entities.RequestStatus) ([]entities.ServiceRequest, error) {
	if !status.Valid() {
		return nil, apperrors.NewInvalidInputError("unknown status %q", status)
	}
	return querycache.Fetch(ctx, s.cache, querycache.ServiceRequestsByStatus(status), s.cacheCfg.TTL,
		func(ctx context.Context) ([]entities.ServiceRequest, error) {
			return s.repo.FindByStatus(ctx, caller, status)
		})
}

// UpdateRequestStatus rejects a status equal to the current one; any other
// transition is the backend's decision.
func (s *ServiceRequestService) UpdateRequestStatus(ctx context.Context, caller entities.Caller, id uint64, status entities.RequestStatus) error {
	if !status.Valid() {
		return apperrors.NewInvalidInputError("unknown status %q", status)
	}
	current, err := s.GetFullServiceRequest(ctx, caller, id)
	if err != nil {
		return err
	}
	if current.Status == status {
		return apperrors.ErrStatusUnchanged
	}

	if err := s.repo.UpdateStatus(ctx, caller, id, status); err != nil {
		return err
	}
	s.logger.Info("request status updated",
		zap.Uint64("id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)),
	)
	s.invalidate(ctx, "updateRequestStatus",
		[]querycache.Key{querycache.ServiceRequests()},
		[]querycache.Kind{querycache.KindFullServiceRequest, querycache.KindServiceRequestsByStatus},
	)
	return nil
}

func (s *ServiceRequestService) AddNote(ctx context.Context, caller entities.Caller, id uint64, dest entities.NoteDestination, author, message string) error {
	if !dest.Valid() {
		return apperrors.NewInvalidInputError("unknown note destination %q", dest)
	}
	if strings.TrimSpace(message) == "" {
		return apperrors.NewValidationError(map[string]string{"message": "Note cannot be empty"})
	}
	if err := s.repo.AddNote(ctx, caller, id, dest, author, message); err != nil {
		return err
	}
	s.logger.Info("note added", zap.Uint64("id", id), zap.String("destination", string(dest)))
	s.invalidate(ctx, "addNote", []querycache.Key{querycache.FullServiceRequest(id)}, nil)
	return nil
}

// invalidate drops keys after a successful mutation. A cache failure here is
// logged, not returned: the mutation already happened.
func (s *ServiceRequestService) invalidate(ctx context.Context, reason string, keys []querycache.Key, kinds []querycache.Kind) {
	publishInvalidation(ctx, s.cache, s.publisher, s.logger, reason, "", keys, kinds)
}

func publishInvalidation(
	ctx context.Context,
	cache *querycache.Cache,
	publisher Publisher,
	logger *zap.Logger,
	reason string,
	principal entities.Principal,
	keys []querycache.Key,
	kinds []querycache.Kind,
) {
	event := events.CacheInvalidated{Reason: reason, Principal: principal}
	if err := cache.Invalidate(ctx, keys...); err != nil {
		logger.Error("cache invalidation failed", zap.String("reason", reason), zap.Error(err))
	}
	for _, k := range keys {
		event.Keys = append(event.Keys, k.String())
	}
	for _, kind := range kinds {
		if err := cache.InvalidateKind(ctx, kind); err != nil {
			logger.Error("cache invalidation failed", zap.String("reason", reason), zap.String("kind", string(kind)), zap.Error(err))
		}
		event.Kinds = append(event.Kinds, querycache.Prefix(kind))
	}
	if publisher != nil {
		publisher.Publish(ctx, event)
	}
}
