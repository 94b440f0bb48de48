package views

import (
	"sort"

	"repair-desk/internal/entities"
)

const lastActivityLimit = 5

type StatusCount struct {
	Status StatusBadge `json:"status"`
	Count  int         `json:"count"`
}

// Summary backs the admin stats panel.
type Summary struct {
	Total         int           `json:"total"`
	CountByStatus []StatusCount `json:"countByStatus"`
	LastActivity  []RequestRow  `json:"lastActivity"`
}

// Summarize counts requests per status in display order, zero counts
// included, and lists the most recently updated ones.
func Summarize(requests []entities.ServiceRequest) Summary {
	counts := make(map[entities.RequestStatus]int, len(entities.AllStatuses))
	for _, r := range requests {
		counts[r.Status]++
	}
	byStatus := make([]StatusCount, 0, len(entities.AllStatuses))
	for _, s := range entities.AllStatuses {
		byStatus = append(byStatus, StatusCount{Status: Badge(s), Count: counts[s]})
	}

	rows := Dashboard(requests)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].LastUpdatedAt.After(rows[j].LastUpdatedAt)
	})
	if len(rows) > lastActivityLimit {
		rows = rows[:lastActivityLimit]
	}

	return Summary{Total: len(requests), CountByStatus: byStatus, LastActivity: rows}
}
