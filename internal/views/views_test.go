package views

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-desk/internal/entities"
)

func TestTimeline_SortedNewestFirst(t *testing.T) {
	history := []entities.StatusChange{
		{Status: entities.StatusSubmitted, ChangedTime: 100},
		{Status: entities.StatusInReview, ChangedTime: 300},
		{Status: entities.StatusAccepted, ChangedTime: 200},
	}

	got := Timeline(entities.StatusInReview, history)

	require.Len(t, got, 3)
	assert.Equal(t, entities.StatusInReview, got[0].Status)
	assert.Equal(t, entities.StatusAccepted, got[1].Status)
	assert.Equal(t, entities.StatusSubmitted, got[2].Status)
	assert.True(t, got[0].Current)
	assert.False(t, got[1].Current)
	assert.Equal(t, "In Review", got[0].Label)
	assert.Equal(t, int64(100), history[0].ChangedTime, "input left untouched")
}

func TestTimeline_RandomHistoryIsOrdered(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	history := make([]entities.StatusChange, 50)
	for i := range history {
		history[i] = entities.StatusChange{
			Status:      entities.AllStatuses[r.Intn(len(entities.AllStatuses))],
			ChangedTime: r.Int63n(1000),
		}
	}
	got := Timeline(entities.StatusShipped, history)
	require.Len(t, got, len(history))
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].ChangedAt.After(got[i-1].ChangedAt))
	}
	for _, e := range got {
		assert.Equal(t, e.Status == entities.StatusShipped, e.Current)
	}
}

func TestTimeline_RevisitedStatusMarksEveryMatch(t *testing.T) {
	history := []entities.StatusChange{
		{Status: entities.StatusSubmitted, ChangedTime: 1},
		{Status: entities.StatusInProgress, ChangedTime: 2},
		{Status: entities.StatusWaitingForParts, ChangedTime: 3},
		{Status: entities.StatusInProgress, ChangedTime: 4},
	}

	all := Timeline(entities.StatusInProgress, history)
	assert.True(t, all[0].Current)
	assert.True(t, all[2].Current)

	latest := Timeline(entities.StatusInProgress, history, LatestOnly())
	assert.True(t, latest[0].Current)
	assert.False(t, latest[2].Current)
}

func TestTimeline_TiesKeepRecordedOrder(t *testing.T) {
	history := []entities.StatusChange{
		{Status: entities.StatusSubmitted, ChangedTime: 5},
		{Status: entities.StatusInReview, ChangedTime: 5},
	}
	got := Timeline(entities.StatusInReview, history)
	assert.Equal(t, entities.StatusSubmitted, got[0].Status)
	assert.Equal(t, entities.StatusInReview, got[1].Status)
}

func TestNotes_PartitionAndOrder(t *testing.T) {
	public := []entities.Note{{Author: "Admin", Message: "b", Timestamp: 2}, {Author: "Admin", Message: "a", Timestamp: 1}}
	internal := []entities.Note{{Author: "Tech", Message: "check joints", Timestamp: 3}}

	notes := Notes(public, internal)
	require.Len(t, notes.Public, 2)
	assert.Equal(t, "b", notes.Public[0].Message)
	assert.Equal(t, "a", notes.Public[1].Message)
	require.Len(t, notes.Internal, 1)
	assert.Equal(t, "check joints", notes.Internal[0].Message)

	raw, err := json.Marshal(CustomerNotes(public))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "internal")
}

func TestPriceEstimate(t *testing.T) {
	for _, hidden := range []string{"", "$0"} {
		_, show := PriceEstimate(hidden)
		assert.False(t, show, hidden)
	}
	display, show := PriceEstimate("$20")
	assert.True(t, show)
	assert.Equal(t, "$20", display)
}

func TestPublicRequest_HidesInternalNotes(t *testing.T) {
	full := &entities.ServiceRequest{
		ID:                 4,
		CustomerName:       "Rae",
		ServicesRequested:  []string{"Custom paint"},
		TotalPriceEstimate: "$0",
		Status:             entities.StatusCancelled,
		StatusHistory:      []entities.StatusChange{{Status: entities.StatusCancelled, ChangedTime: 9}},
		InternalNotes:      []entities.Note{{Author: "Tech", Message: "secret"}},
		PublicNotes:        []entities.Note{{Author: "Admin", Message: "sorry"}},
	}

	view := PublicRequest(full.Public())
	assert.False(t, view.ShowPrice)
	assert.Empty(t, view.PriceEstimate)
	assert.Equal(t, entities.VariantDestructive, view.Status.Variant)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	admin := AdminRequest(full)
	assert.Len(t, admin.StatusOptions, len(entities.AllStatuses))
	require.Len(t, admin.Notes.Internal, 1)
}

func TestDashboard_NewestFirst(t *testing.T) {
	rows := Dashboard([]entities.ServiceRequest{
		{ID: 1, SubmittedTime: 10, TotalPriceEstimate: "$15", Status: entities.StatusSubmitted},
		{ID: 2, SubmittedTime: 20, TotalPriceEstimate: "$0", Status: entities.StatusAccepted},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, uint64(2), rows[0].ID)
	assert.Empty(t, rows[0].PriceEstimate)
	assert.Equal(t, "$15", rows[1].PriceEstimate)
}

func TestSummarize(t *testing.T) {
	var requests []entities.ServiceRequest
	for i := 1; i <= 7; i++ {
		status := entities.StatusSubmitted
		if i%3 == 0 {
			status = entities.StatusShipped
		}
		requests = append(requests, entities.ServiceRequest{
			ID:              uint64(i),
			Status:          status,
			SubmittedTime:   int64(i),
			LastUpdatedTime: int64(100 - i),
		})
	}

	s := Summarize(requests)
	assert.Equal(t, 7, s.Total)
	require.Len(t, s.CountByStatus, len(entities.AllStatuses))
	assert.Equal(t, entities.StatusSubmitted, s.CountByStatus[0].Status.Value)
	assert.Equal(t, 5, s.CountByStatus[0].Count)
	assert.Equal(t, 0, s.CountByStatus[1].Count)
	require.Len(t, s.LastActivity, 5)
	assert.Equal(t, uint64(1), s.LastActivity[0].ID, "most recently updated first")
}
