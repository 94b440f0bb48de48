// Package memory is an in-process implementation of the backend actor, used
// for local development, demo data and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-memdb"
	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/entities"
	apperrors "repair-desk/pkg/errors"
)

type Actor struct {
	db        *memdb.MemDB
	readiness *backend.Readiness
	logger    *zap.Logger

	// mu serializes writers so ids and timestamps are assigned in order.
	mu        sync.Mutex
	nextID    uint64
	lastStamp int64
	now       func() time.Time
}

type Option func(*Actor)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Actor) { a.now = now }
}

// WithAdmins grants the admin role to the given principals at start.
func WithAdmins(principals ...string) Option {
	return func(a *Actor) {
		txn := a.db.Txn(true)
		defer txn.Abort()
		for _, p := range principals {
			if err := txn.Insert(tableRoles, &roleRecord{Principal: p, Role: string(entities.RoleAdmin)}); err != nil {
				a.logger.Error("memory actor: failed to seed admin", zap.String("principal", p), zap.Error(err))
				return
			}
		}
		txn.Commit()
	}
}

// New returns a ready actor.
func New(logger *zap.Logger, opts ...Option) (*Actor, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memory actor schema: %w", err)
	}
	a := &Actor{
		db:        db,
		readiness: backend.NewReadiness(),
		logger:    logger.Named("memory_actor"),
		nextID:    1,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.readiness.MarkReady()
	return a, nil
}

func (a *Actor) Session() *backend.Readiness {
	return a.readiness
}

// stamp returns a nanosecond timestamp strictly greater than the previous one.
// Callers hold a.mu.
func (a *Actor) stamp() int64 {
	t := a.now().UnixNano()
	if t <= a.lastStamp {
		t = a.lastStamp + 1
	}
	a.lastStamp = t
	return t
}

func (a *Actor) roleOf(txn *memdb.Txn, p entities.Principal) entities.UserRole {
	if p.IsAnonymous() {
		return entities.RoleGuest
	}
	raw, err := txn.First(tableRoles, indexID, string(p))
	if err != nil || raw == nil {
		return entities.RoleGuest
	}
	return entities.UserRole(raw.(*roleRecord).Role)
}

func (a *Actor) requireAdmin(txn *memdb.Txn, caller entities.Caller) error {
	if a.roleOf(txn, caller.Principal) != entities.RoleAdmin {
		return fmt.Errorf("only admins can perform this action: %w", backend.ErrUnauthorized)
	}
	return nil
}

func (a *Actor) CreateServiceRequest(_ context.Context, _ entities.Caller, in backend.NewServiceRequest) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.stamp()
	req := &entities.ServiceRequest{
		ID:                 a.nextID,
		CustomerName:       in.CustomerName,
		ContactInfo:        in.ContactInfo,
		Description:        in.Description,
		ServicesRequested:  append([]string{}, in.ServicesRequested...),
		TotalPriceEstimate: in.TotalPriceEstimate,
		Status:             entities.StatusSubmitted,
		StatusHistory:      []entities.StatusChange{{Status: entities.StatusSubmitted, ChangedTime: now}},
		SubmittedTime:      now,
		LastUpdatedTime:    now,
		InternalNotes:      []entities.Note{},
		PublicNotes:        []entities.Note{},
	}

	txn := a.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableRequests, &requestRecord{ID: req.ID, Status: string(req.Status), Request: req}); err != nil {
		return 0, fmt.Errorf("insert request: %w", err)
	}
	txn.Commit()

	a.nextID++
	a.logger.Debug("request created", zap.Uint64("id", req.ID))
	return req.ID, nil
}

func (a *Actor) find(txn *memdb.Txn, id uint64) (*entities.ServiceRequest, error) {
	raw, err := txn.First(tableRequests, indexID, id)
	if err != nil {
		return nil, fmt.Errorf("lookup request %d: %w", id, err)
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*requestRecord).Request, nil
}

func (a *Actor) GetServiceRequest(_ context.Context, _ entities.Caller, id uint64) (*entities.PublicServiceRequest, error) {
	txn := a.db.Txn(false)
	req, err := a.find(txn, id)
	if err != nil || req == nil {
		return nil, err
	}
	return req.Public(), nil
}

func (a *Actor) GetFullServiceRequest(_ context.Context, caller entities.Caller, id uint64) (*entities.ServiceRequest, error) {
	txn := a.db.Txn(false)
	if err := a.requireAdmin(txn, caller); err != nil {
		return nil, err
	}
	req, err := a.find(txn, id)
	if err != nil || req == nil {
		return nil, err
	}
	return req.Clone(), nil
}

func (a *Actor) collect(it memdb.ResultIterator) []entities.ServiceRequest {
	out := []entities.ServiceRequest{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, *raw.(*requestRecord).Request.Clone())
	}
	return out
}

func (a *Actor) GetAllServiceRequests(_ context.Context, caller entities.Caller) ([]entities.ServiceRequest, error) {
	txn := a.db.Txn(false)
	if err := a.requireAdmin(txn, caller); err != nil {
		return nil, err
	}
	it, err := txn.Get(tableRequests, indexID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return a.collect(it), nil
}

func (a *Actor) GetServiceRequestsByStatus(_ context.Context, caller entities.Caller, status entities.RequestStatus) ([]entities.ServiceRequest, error) {
	txn := a.db.Txn(false)
	if err := a.requireAdmin(txn, caller); err != nil {
		return nil, err
	}
	it, err := txn.Get(tableRequests, indexStatus, string(status))
	if err != nil {
		return nil, fmt.Errorf("list requests by status: %w", err)
	}
	return a.collect(it), nil
}

// mutate applies fn to a copy of request id and stores it, bumping
// LastUpdatedTime.
func (a *Actor) mutate(caller entities.Caller, id uint64, fn func(req *entities.ServiceRequest, now int64)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	txn := a.db.Txn(true)
	defer txn.Abort()
	if err := a.requireAdmin(txn, caller); err != nil {
		return err
	}
	current, err := a.find(txn, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("request %d: %w", id, apperrors.ErrNotFound)
	}

	next := current.Clone()
	now := a.stamp()
	fn(next, now)
	next.LastUpdatedTime = now

	if err := txn.Insert(tableRequests, &requestRecord{ID: next.ID, Status: string(next.Status), Request: next}); err != nil {
		return fmt.Errorf("update request %d: %w", id, err)
	}
	txn.Commit()
	return nil
}

func (a *Actor) UpdateRequestStatus(_ context.Context, caller entities.Caller, id uint64, status entities.RequestStatus) error {
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, backend.ErrRejected)
	}
	return a.mutate(caller, id, func(req *entities.ServiceRequest, now int64) {
		req.Status = status
		req.StatusHistory = append(req.StatusHistory, entities.StatusChange{Status: status, ChangedTime: now})
	})
}

func (a *Actor) AddNote(_ context.Context, caller entities.Caller, id uint64, dest entities.NoteDestination, author, message string) error {
	if !dest.Valid() {
		return fmt.Errorf("note destination %q: %w", dest, backend.ErrRejected)
	}
	return a.mutate(caller, id, func(req *entities.ServiceRequest, now int64) {
		note := entities.Note{Author: author, Message: message, Timestamp: now}
		if dest == entities.NoteInternal {
			req.InternalNotes = append(req.InternalNotes, note)
		} else {
			req.PublicNotes = append(req.PublicNotes, note)
		}
	})
}

func (a *Actor) profileOf(txn *memdb.Txn, p entities.Principal) (*entities.UserProfile, error) {
	raw, err := txn.First(tableProfiles, indexID, string(p))
	if err != nil {
		return nil, fmt.Errorf("lookup profile: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	profile := raw.(*profileRecord).Profile
	return &profile, nil
}

func (a *Actor) GetCallerUserProfile(_ context.Context, caller entities.Caller) (*entities.UserProfile, error) {
	if caller.IsAnonymous() {
		return nil, fmt.Errorf("anonymous callers have no profile: %w", backend.ErrUnauthorized)
	}
	return a.profileOf(a.db.Txn(false), caller.Principal)
}

// SaveCallerUserProfile creates or replaces the caller's profile. A guest's
// first save registers them as a user.
func (a *Actor) SaveCallerUserProfile(_ context.Context, caller entities.Caller, profile entities.UserProfile) error {
	if caller.IsAnonymous() {
		return fmt.Errorf("anonymous callers cannot save a profile: %w", backend.ErrUnauthorized)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	txn := a.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableProfiles, &profileRecord{Principal: string(caller.Principal), Profile: profile}); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if a.roleOf(txn, caller.Principal) == entities.RoleGuest {
		if err := txn.Insert(tableRoles, &roleRecord{Principal: string(caller.Principal), Role: string(entities.RoleUser)}); err != nil {
			return fmt.Errorf("register user: %w", err)
		}
	}
	txn.Commit()
	return nil
}

func (a *Actor) GetUserProfile(_ context.Context, caller entities.Caller, user entities.Principal) (*entities.UserProfile, error) {
	txn := a.db.Txn(false)
	if caller.Principal != user {
		if err := a.requireAdmin(txn, caller); err != nil {
			return nil, err
		}
	}
	return a.profileOf(txn, user)
}

func (a *Actor) IsCallerAdmin(_ context.Context, caller entities.Caller) (bool, error) {
	return a.roleOf(a.db.Txn(false), caller.Principal) == entities.RoleAdmin, nil
}

func (a *Actor) GetCallerUserRole(_ context.Context, caller entities.Caller) (entities.UserRole, error) {
	return a.roleOf(a.db.Txn(false), caller.Principal), nil
}

func (a *Actor) AssignCallerUserRole(_ context.Context, caller entities.Caller, user entities.Principal, role entities.UserRole) error {
	if user.IsAnonymous() {
		return fmt.Errorf("cannot assign a role to the anonymous principal: %w", backend.ErrRejected)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	txn := a.db.Txn(true)
	defer txn.Abort()
	if err := a.requireAdmin(txn, caller); err != nil {
		return err
	}
	if err := txn.Insert(tableRoles, &roleRecord{Principal: string(user), Role: string(role)}); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	txn.Commit()
	return nil
}

var _ backend.Actor = (*Actor)(nil)
