package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadiness_WaitTimesOutAsNotReady(t *testing.T) {
	r := NewReadiness()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.False(t, r.Ready())
	assert.ErrorIs(t, r.Wait(ctx), ErrNotReady)
}

func TestReadiness_WaitReleasesOnReady(t *testing.T) {
	r := NewReadiness()
	done := make(chan error, 1)
	go func() { done <- r.Wait(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	r.MarkReady()
	r.MarkReady()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait did not return after MarkReady")
	}
	assert.True(t, r.Ready())
}
