// Package backend describes the external actor that owns requests, notes,
// profiles and roles. Implementations live in sub-packages.
package backend

import (
	"context"

	"repair-desk/internal/entities"
	apperrors "repair-desk/pkg/errors"
)

var (
	// ErrNotReady is returned while the actor session is not established.
	ErrNotReady = apperrors.ErrNotReady
	// ErrUnauthorized is the actor's trap for a caller lacking the role.
	ErrUnauthorized = apperrors.ErrForbidden
	// ErrRejected means the actor refused a write.
	ErrRejected = apperrors.ErrMutationFailed
	// ErrTransport covers network failures and 5xx answers.
	ErrTransport = apperrors.ErrBackendUnavailable
)

// Actor is the typed contract of the backend. Absent results are (nil, nil).
type Actor interface {
	Session() *Readiness

	CreateServiceRequest(ctx context.Context, caller entities.Caller, in NewServiceRequest) (uint64, error)
	GetServiceRequest(ctx context.Context, caller entities.Caller, id uint64) (*entities.PublicServiceRequest, error)
	GetFullServiceRequest(ctx context.Context, caller entities.Caller, id uint64) (*entities.ServiceRequest, error)
	GetAllServiceRequests(ctx context.Context, caller entities.Caller) ([]entities.ServiceRequest, error)
	GetServiceRequestsByStatus(ctx context.Context, caller entities.Caller, status entities.RequestStatus) ([]entities.ServiceRequest, error)
	UpdateRequestStatus(ctx context.Context, caller entities.Caller, id uint64, status entities.RequestStatus) error
	AddNote(ctx context.Context, caller entities.Caller, id uint64, dest entities.NoteDestination, author, message string) error

	GetCallerUserProfile(ctx context.Context, caller entities.Caller) (*entities.UserProfile, error)
	SaveCallerUserProfile(ctx context.Context, caller entities.Caller, profile entities.UserProfile) error
	GetUserProfile(ctx context.Context, caller entities.Caller, user entities.Principal) (*entities.UserProfile, error)
	IsCallerAdmin(ctx context.Context, caller entities.Caller) (bool, error)
	GetCallerUserRole(ctx context.Context, caller entities.Caller) (entities.UserRole, error)
	AssignCallerUserRole(ctx context.Context, caller entities.Caller, user entities.Principal, role entities.UserRole) error
}

// NewServiceRequest is the argument list of createServiceRequest.
type NewServiceRequest struct {
	CustomerName       string   `json:"customerName"`
	ContactInfo        string   `json:"contactInfo"`
	ServicesRequested  []string `json:"servicesRequested"`
	TotalPriceEstimate string   `json:"totalPriceEstimate"`
	Description        string   `json:"description"`
}
