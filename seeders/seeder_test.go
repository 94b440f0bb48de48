package seeders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-desk/internal/backend/memory"
	"repair-desk/internal/entities"
)

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	admin := entities.Caller{Principal: "seed-admin"}
	actor, err := memory.New(zap.NewNop(), memory.WithAdmins(string(admin.Principal)))
	require.NoError(t, err)

	ids, err := SeedDemo(ctx, actor, admin, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, ids, len(demoRequests))

	all, err := actor.GetAllServiceRequests(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, len(demoRequests))

	sam, err := actor.GetFullServiceRequest(ctx, admin, ids[2])
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInProgress, sam.Status)
	assert.Len(t, sam.StatusHistory, 6)
	assert.Equal(t, "$65", sam.TotalPriceEstimate)
	require.Len(t, sam.InternalNotes, 1)
	assert.Equal(t, demoAuthor, sam.InternalNotes[0].Author)

	rae, err := actor.GetServiceRequest(ctx, entities.AnonymousCaller(), ids[3])
	require.NoError(t, err)
	assert.Equal(t, "$0", rae.TotalPriceEstimate)
	assert.Equal(t, "Platform: Other\n\nNot sure what is wrong, the controller will not charge.", rae.Description)
}

func TestSeedDemo_RequiresAdmin(t *testing.T) {
	actor, err := memory.New(zap.NewNop())
	require.NoError(t, err)

	ids, err := SeedDemo(context.Background(), actor, entities.Caller{Principal: "nobody"}, zap.NewNop())
	assert.Error(t, err)
	assert.Len(t, ids, 2, "the first request has no status steps; the second fails on its first one")
}
