// Package rpc talks to the backend actor over HTTP/JSON.
//
// Every operation is a POST to {base}/rpc/{operation} with a JSON object of
// named arguments. The actor answers {"ok": value} or {"err": "message"}.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/entities"
)

type Client struct {
	httpClient  *http.Client
	baseURL     string
	retryWindow time.Duration
	readiness   *backend.Readiness
	logger      *zap.Logger
}

// New builds a client. It is not usable until Connect succeeds.
func New(baseURL string, timeout, retryWindow time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		retryWindow: retryWindow,
		readiness:   backend.NewReadiness(),
		logger:      logger.Named("actor_rpc"),
	}
}

func (c *Client) Session() *backend.Readiness {
	return c.readiness
}

// Connect performs the status handshake, retrying until ctx ends, and opens
// the readiness latch.
func (c *Client) Connect(ctx context.Context) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status handshake answered %s", resp.Status)
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("actor handshake failed, retrying", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(backoff.NewExponentialBackOff(), ctx), notify); err != nil {
		return fmt.Errorf("connect to actor at %s: %w", c.baseURL, err)
	}
	c.readiness.MarkReady()
	c.logger.Info("actor session established", zap.String("url", c.baseURL))
	return nil
}

type reply struct {
	Ok  json.RawMessage `json:"ok"`
	Err *string         `json:"err"`
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// do performs a single round trip.
func (c *Client) do(ctx context.Context, caller entities.Caller, op string, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc/"+op, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if caller.Token != "" {
		req.Header.Set("Authorization", "Bearer "+caller.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &transientError{err: fmt.Errorf("%s: %v: %w", op, err, backend.ErrTransport)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &transientError{err: fmt.Errorf("%s: read body: %v: %w", op, err, backend.ErrTransport)}
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return &transientError{err: fmt.Errorf("%s: actor answered %s: %w", op, resp.Status, backend.ErrTransport)}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, backend.ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s: actor answered %s: %w", op, resp.Status, backend.ErrTransport)
	}

	var r reply
	if err := json.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("%s: decode reply: %v: %w", op, err, backend.ErrTransport)
	}
	if r.Err != nil {
		if strings.Contains(strings.ToLower(*r.Err), "unauthorized") {
			return fmt.Errorf("%s: %s: %w", op, *r.Err, backend.ErrUnauthorized)
		}
		return fmt.Errorf("%s: %s: %w", op, *r.Err, backend.ErrRejected)
	}
	if out == nil || len(r.Ok) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Ok, out); err != nil {
		return fmt.Errorf("%s: decode result: %v: %w", op, err, backend.ErrTransport)
	}
	return nil
}

// query is a read: transient failures are retried within the retry window.
func (c *Client) query(ctx context.Context, caller entities.Caller, op string, args interface{}, out interface{}) error {
	if !c.readiness.Ready() {
		return backend.ErrNotReady
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode %s args: %w", op, err)
	}

	attempt := func() error {
		err := c.do(ctx, caller, op, payload, out)
		var transient *transientError
		if err != nil && !errors.As(err, &transient) {
			return backoff.Permanent(err)
		}
		return err
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.retryWindow
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("actor read failed, retrying", zap.String("op", op), zap.Error(err), zap.Duration("wait", wait))
	}
	return backoff.RetryNotify(attempt, backoff.WithContext(b, ctx), notify)
}

// update is a write: exactly one attempt.
func (c *Client) update(ctx context.Context, caller entities.Caller, op string, args interface{}, out interface{}) error {
	if !c.readiness.Ready() {
		return backend.ErrNotReady
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode %s args: %w", op, err)
	}
	return c.do(ctx, caller, op, payload, out)
}

func (c *Client) CreateServiceRequest(ctx context.Context, caller entities.Caller, in backend.NewServiceRequest) (uint64, error) {
	var id uint64
	if err := c.update(ctx, caller, "createServiceRequest", in, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Client) GetServiceRequest(ctx context.Context, caller entities.Caller, id uint64) (*entities.PublicServiceRequest, error) {
	var out *entities.PublicServiceRequest
	if err := c.query(ctx, caller, "getServiceRequest", map[string]interface{}{"requestId": id}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFullServiceRequest(ctx context.Context, caller entities.Caller, id uint64) (*entities.ServiceRequest, error) {
	var out *entities.ServiceRequest
	if err := c.query(ctx, caller, "getFullServiceRequest", map[string]interface{}{"requestId": id}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAllServiceRequests(ctx context.Context, caller entities.Caller) ([]entities.ServiceRequest, error) {
	out := []entities.ServiceRequest{}
	if err := c.query(ctx, caller, "getAllServiceRequests", struct{}{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetServiceRequestsByStatus(ctx context.Context, caller entities.Caller, status entities.RequestStatus) ([]entities.ServiceRequest, error) {
	out := []entities.ServiceRequest{}
	if err := c.query(ctx, caller, "getServiceRequestsByStatus", map[string]interface{}{"status": status}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateRequestStatus(ctx context.Context, caller entities.Caller, id uint64, status entities.RequestStatus) error {
	return c.update(ctx, caller, "updateRequestStatus", map[string]interface{}{
		"requestId": id,
		"newStatus": status,
	}, nil)
}

func (c *Client) AddNote(ctx context.Context, caller entities.Caller, id uint64, dest entities.NoteDestination, author, message string) error {
	return c.update(ctx, caller, "addNote", map[string]interface{}{
		"requestId": id,
		"noteType":  dest,
		"author":    author,
		"message":   message,
	}, nil)
}

func (c *Client) GetCallerUserProfile(ctx context.Context, caller entities.Caller) (*entities.UserProfile, error) {
	var out *entities.UserProfile
	if err := c.query(ctx, caller, "getCallerUserProfile", struct{}{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveCallerUserProfile(ctx context.Context, caller entities.Caller, profile entities.UserProfile) error {
	return c.update(ctx, caller, "saveCallerUserProfile", map[string]interface{}{"profile": profile}, nil)
}

func (c *Client) GetUserProfile(ctx context.Context, caller entities.Caller, user entities.Principal) (*entities.UserProfile, error) {
	var out *entities.UserProfile
	if err := c.query(ctx, caller, "getUserProfile", map[string]interface{}{"user": user}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) IsCallerAdmin(ctx context.Context, caller entities.Caller) (bool, error) {
	var out bool
	if err := c.query(ctx, caller, "isCallerAdmin", struct{}{}, &out); err != nil {
		return false, err
	}
	return out, nil
}

func (c *Client) GetCallerUserRole(ctx context.Context, caller entities.Caller) (entities.UserRole, error) {
	var out entities.UserRole
	if err := c.query(ctx, caller, "getCallerUserRole", struct{}{}, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (c *Client) AssignCallerUserRole(ctx context.Context, caller entities.Caller, user entities.Principal, role entities.UserRole) error {
	return c.update(ctx, caller, "assignCallerUserRole", map[string]interface{}{
		"user": user,
		"role": role,
	}, nil)
}

var _ backend.Actor = (*Client)(nil)
