package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-desk/internal/backend"
	"repair-desk/internal/entities"
)

var (
	admin    = entities.Caller{Principal: "admin-principal"}
	customer = entities.Caller{Principal: "customer-principal"}
)

func newActor(t *testing.T, opts ...Option) *Actor {
	t.Helper()
	opts = append([]Option{WithAdmins(string(admin.Principal))}, opts...)
	a, err := New(zap.NewNop(), opts...)
	require.NoError(t, err)
	return a
}

func createSample(t *testing.T, a *Actor, name string) uint64 {
	t.Helper()
	id, err := a.CreateServiceRequest(context.Background(), entities.AnonymousCaller(), backend.NewServiceRequest{
		CustomerName:       name,
		ContactInfo:        "Email: " + name + "@example.com",
		ServicesRequested:  []string{"Custom paint"},
		TotalPriceEstimate: "$15",
		Description:        "Platform: Xbox\n\npaint it red",
	})
	require.NoError(t, err)
	return id
}

func TestCreate_InitialState(t *testing.T) {
	a := newActor(t)
	assert.True(t, a.Session().Ready())

	id := createSample(t, a, "ana")
	assert.Equal(t, uint64(1), id)
	assert.Equal(t, uint64(2), createSample(t, a, "bo"))

	req, err := a.GetFullServiceRequest(context.Background(), admin, id)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, entities.StatusSubmitted, req.Status)
	require.Len(t, req.StatusHistory, 1)
	assert.Equal(t, entities.StatusSubmitted, req.StatusHistory[0].Status)
	assert.Equal(t, req.SubmittedTime, req.LastUpdatedTime)
	assert.Empty(t, req.InternalNotes)
	assert.Empty(t, req.PublicNotes)
	assert.Equal(t, "$15", req.TotalPriceEstimate)
}

func TestUpdateStatus_AppendsOneEntryAndBumpsTime(t *testing.T) {
	fixed := time.Unix(1_700_000_000, 0)
	a := newActor(t, WithClock(func() time.Time { return fixed }))
	ctx := context.Background()
	id := createSample(t, a, "ana")

	for _, s := range []entities.RequestStatus{entities.StatusInReview, entities.StatusAccepted, entities.StatusAccepted, entities.StatusCancelled} {
		before, err := a.GetFullServiceRequest(ctx, admin, id)
		require.NoError(t, err)

		require.NoError(t, a.UpdateRequestStatus(ctx, admin, id, s))

		after, err := a.GetFullServiceRequest(ctx, admin, id)
		require.NoError(t, err)
		assert.Len(t, after.StatusHistory, len(before.StatusHistory)+1)
		assert.Equal(t, s, after.StatusHistory[len(after.StatusHistory)-1].Status)
		assert.Equal(t, s, after.Status)
		assert.Greater(t, after.LastUpdatedTime, before.LastUpdatedTime)
		assert.Equal(t, before.SubmittedTime, after.SubmittedTime)
	}
}

func TestAddNote_Partition(t *testing.T) {
	a := newActor(t)
	ctx := context.Background()
	id := createSample(t, a, "ana")

	require.NoError(t, a.AddNote(ctx, admin, id, entities.NoteInternal, "Admin", "check solder joints"))
	require.NoError(t, a.AddNote(ctx, admin, id, entities.NoteDisplay, "Admin", "we received your controller"))

	full, err := a.GetFullServiceRequest(ctx, admin, id)
	require.NoError(t, err)
	require.Len(t, full.InternalNotes, 1)
	require.Len(t, full.PublicNotes, 1)
	assert.Equal(t, "check solder joints", full.InternalNotes[0].Message)
	assert.Equal(t, "we received your controller", full.PublicNotes[0].Message)

	pub, err := a.GetServiceRequest(ctx, entities.AnonymousCaller(), id)
	require.NoError(t, err)
	require.Len(t, pub.PublicNotes, 1)
	for _, n := range pub.PublicNotes {
		assert.NotEqual(t, "check solder joints", n.Message)
	}
}

func TestPublicProjection_MatchesFull(t *testing.T) {
	a := newActor(t)
	ctx := context.Background()
	id := createSample(t, a, "ana")
	require.NoError(t, a.UpdateRequestStatus(ctx, admin, id, entities.StatusInProgress))

	full, err := a.GetFullServiceRequest(ctx, admin, id)
	require.NoError(t, err)
	pub, err := a.GetServiceRequest(ctx, customer, id)
	require.NoError(t, err)
	assert.Equal(t, full.Public(), pub)
}

func TestUnknownID_IsAbsent(t *testing.T) {
	a := newActor(t)
	pub, err := a.GetServiceRequest(context.Background(), customer, 404)
	require.NoError(t, err)
	assert.Nil(t, pub)

	full, err := a.GetFullServiceRequest(context.Background(), admin, 404)
	require.NoError(t, err)
	assert.Nil(t, full)
}

func TestAdminOnlyOperations(t *testing.T) {
	a := newActor(t)
	ctx := context.Background()
	id := createSample(t, a, "ana")

	_, err := a.GetAllServiceRequests(ctx, customer)
	assert.ErrorIs(t, err, backend.ErrUnauthorized)
	_, err = a.GetFullServiceRequest(ctx, customer, id)
	assert.ErrorIs(t, err, backend.ErrUnauthorized)
	assert.ErrorIs(t, a.UpdateRequestStatus(ctx, customer, id, entities.StatusAccepted), backend.ErrUnauthorized)
	assert.ErrorIs(t, a.AddNote(ctx, customer, id, entities.NoteDisplay, "x", "y"), backend.ErrUnauthorized)
	assert.ErrorIs(t, a.AssignCallerUserRole(ctx, customer, customer.Principal, entities.RoleAdmin), backend.ErrUnauthorized)
}

func TestByStatus(t *testing.T) {
	a := newActor(t)
	ctx := context.Background()
	first := createSample(t, a, "ana")
	createSample(t, a, "bo")
	require.NoError(t, a.UpdateRequestStatus(ctx, admin, first, entities.StatusShipped))

	shipped, err := a.GetServiceRequestsByStatus(ctx, admin, entities.StatusShipped)
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, first, shipped[0].ID)

	submitted, err := a.GetServiceRequestsByStatus(ctx, admin, entities.StatusSubmitted)
	require.NoError(t, err)
	require.Len(t, submitted, 1)

	all, err := a.GetAllServiceRequests(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint64(1), all[0].ID)
}

func TestProfilesAndRoles(t *testing.T) {
	a := newActor(t)
	ctx := context.Background()

	profile, err := a.GetCallerUserProfile(ctx, customer)
	require.NoError(t, err)
	assert.Nil(t, profile)

	role, err := a.GetCallerUserRole(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleGuest, role)

	require.NoError(t, a.SaveCallerUserProfile(ctx, customer, entities.UserProfile{Name: "Cy"}))
	profile, err = a.GetCallerUserProfile(ctx, customer)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Cy", profile.Name)
	assert.False(t, profile.Email.Valid)

	role, err = a.GetCallerUserRole(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleUser, role)

	require.NoError(t, a.AssignCallerUserRole(ctx, admin, customer.Principal, entities.RoleAdmin))
	isAdmin, err := a.IsCallerAdmin(ctx, customer)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	other, err := a.GetUserProfile(ctx, admin, customer.Principal)
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, "Cy", other.Name)

	assert.ErrorIs(t, a.SaveCallerUserProfile(ctx, entities.AnonymousCaller(), entities.UserProfile{Name: "x"}), backend.ErrUnauthorized)
}
