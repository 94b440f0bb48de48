package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/entities"
)

// idleActor never becomes ready; any call past the readiness check panics
// through the nil embedded interface.
type idleActor struct {
	backend.Actor
	readiness *backend.Readiness
}

func (a *idleActor) Session() *backend.Readiness { return a.readiness }

func TestRepositories_FailFastWhenNotReady(t *testing.T) {
	actor := &idleActor{readiness: backend.NewReadiness()}
	requests := NewServiceRequestRepository(actor, zap.NewNop())
	users := NewUserRepository(actor, zap.NewNop())
	ctx := context.Background()
	caller := entities.Caller{Principal: "p"}

	_, err := requests.Create(ctx, caller, backend.NewServiceRequest{})
	assert.ErrorIs(t, err, backend.ErrNotReady)
	_, err = requests.FindPublic(ctx, caller, 1)
	assert.ErrorIs(t, err, backend.ErrNotReady)
	_, err = requests.FindAll(ctx, caller)
	assert.ErrorIs(t, err, backend.ErrNotReady)
	assert.ErrorIs(t, requests.UpdateStatus(ctx, caller, 1, entities.StatusAccepted), backend.ErrNotReady)
	assert.ErrorIs(t, requests.AddNote(ctx, caller, 1, entities.NoteDisplay, "Admin", "hi"), backend.ErrNotReady)

	_, err = users.IsCallerAdmin(ctx, caller)
	assert.ErrorIs(t, err, backend.ErrNotReady)
	assert.ErrorIs(t, users.SaveCallerProfile(ctx, caller, entities.UserProfile{Name: "x"}), backend.ErrNotReady)
}
