package repositories

import (
	"context"

	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/entities"
)

// ServiceRequestRepositoryInterface is the typed data client for service
// requests. Every call fails fast with ErrNotReady while the actor session is
// not established; waiting is the query layer's job.
type ServiceRequestRepositoryInterface interface {
	Session() *backend.Readiness
	Create(ctx context.Context, caller entities.Caller, in backend.NewServiceRequest) (uint64, error)
	FindPublic(ctx context.Context, caller entities.Caller, id uint64) (*entities.PublicServiceRequest, error)
	FindFull(ctx context.Context, caller entities.Caller, id uint64) (*entities.ServiceRequest, error)
	FindAll(ctx context.Context, caller entities.Caller) ([]entities.ServiceRequest, error)
	FindByStatus(ctx context.Context, caller entities.Caller, status entities.RequestStatus) ([]entities.ServiceRequest, error)
	UpdateStatus(ctx context.Context, caller entities.Caller, id uint64, status entities.RequestStatus) error
	AddNote(ctx context.Context, caller entities.Caller, id uint64, dest entities.NoteDestination, author, message string) error
}

type ServiceRequestRepository struct {
	actor  backend.Actor
	logger *zap.Logger
}

func NewServiceRequestRepository(actor backend.Actor, logger *zap.Logger) ServiceRequestRepositoryInterface {
	return &ServiceRequestRepository{actor: actor, logger: logger}
}

func (r *ServiceRequestRepository) Session() *backend.Readiness {
	return r.actor.Session()
}

func (r *ServiceRequestRepository) ready() error {
	if !r.actor.Session().Ready() {
		return backend.ErrNotReady
	}
	return nil
}

func (r *ServiceRequestRepository) Create(ctx context.Context, caller entities.Caller, in backend.NewServiceRequest) (uint64, error) {
	if err := r.ready(); err != nil {
		return 0, err
	}
	id, err := r.actor.CreateServiceRequest(ctx, caller, in)
	if err != nil {
		r.logger.Warn("createServiceRequest failed", zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *ServiceRequestRepository) FindPublic(ctx context.Context, caller entities.Caller, id uint64) (*entities.PublicServiceRequest, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	return r.actor.GetServiceRequest(ctx, caller, id)
}

func (r *ServiceRequestRepository) FindFull(ctx context.Context, caller entities.Caller, id uint64) (*entities.ServiceRequest, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	return r.actor.GetFullServiceRequest(ctx, caller, id)
}

func (r *ServiceRequestRepository) FindAll(ctx context.Context, caller entities.Caller) ([]entities.ServiceRequest, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	return r.actor.GetAllServiceRequests(ctx, caller)
}

func (r *ServiceRequestRepository) FindByStatus(ctx context.Context, caller entities.Caller, status entities.RequestStatus) ([]entities.ServiceRequest, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	return r.actor.GetServiceRequestsByStatus(ctx, caller, status)
}

func (r *ServiceRequestRepository) UpdateStatus(ctx context.Context, caller entities.Caller, id uint64, status entities.RequestStatus) error {
	if err := r.ready(); err != nil {
		return err
	}
	if err := r.actor.UpdateRequestStatus(ctx, caller, id, status); err != nil {
		r.logger.Warn("updateRequestStatus failed", zap.Uint64("id", id), zap.String("status", string(status)), zap.Error(err))
		return err
	}
	return nil
}

func (r *ServiceRequestRepository) AddNote(ctx context.Context, caller entities.Caller, id uint64, dest entities.NoteDestination, author, message string) error {
	if err := r.ready(); err != nil {
		return err
	}
	if err := r.actor.AddNote(ctx, caller, id, dest, author, message); err != nil {
		r.logger.Warn("addNote failed", zap.Uint64("id", id), zap.String("destination", string(dest)), zap.Error(err))
		return err
	}
	return nil
}
