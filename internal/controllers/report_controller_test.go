package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-desk/internal/entities"
	"repair-desk/internal/views"
)

func TestBuildWorkbook(t *testing.T) {
	rows := []views.RequestRow{{
		ID:            7,
		CustomerName:  "Ana",
		ContactInfo:   "Email: ana@example.com",
		Services:      2,
		PriceEstimate: "$25",
		Status:        views.Badge(entities.StatusInProgress),
		SubmittedAt:   time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		LastUpdatedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
	}}

	f, err := BuildWorkbook(rows)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, reportHeaders, got[0])
	assert.Equal(t, []string{"7", "Ana", "Email: ana@example.com", "2", "$25", "In Progress", "2024-03-01 10:30", "2024-03-02 09:00"}, got[1])
}
