// Package views turns backend records into the shapes the pages render.
package views

import (
	"sort"
	"time"

	"repair-desk/internal/entities"
)

type TimelineEntry struct {
	Status    entities.RequestStatus `json:"status"`
	Label     string                 `json:"label"`
	Variant   entities.StatusVariant `json:"variant"`
	ChangedAt time.Time              `json:"changedAt"`
	Current   bool                   `json:"current"`
}

type TimelineOption func(*timelineOptions)

type timelineOptions struct {
	latestOnly bool
}

// LatestOnly marks only the newest entry matching the current status. By
// default every matching entry is marked, so a status revisited twice shows
// two current markers.
func LatestOnly() TimelineOption {
	return func(o *timelineOptions) { o.latestOnly = true }
}

// Timeline orders history newest first; entries with equal times keep their
// recorded order.
func Timeline(current entities.RequestStatus, history []entities.StatusChange, opts ...TimelineOption) []TimelineEntry {
	var o timelineOptions
	for _, opt := range opts {
		opt(&o)
	}

	sorted := append([]entities.StatusChange(nil), history...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChangedTime > sorted[j].ChangedTime
	})

	out := make([]TimelineEntry, len(sorted))
	marked := false
	for i, change := range sorted {
		isCurrent := change.Status == current
		if o.latestOnly {
			isCurrent = isCurrent && !marked
		}
		marked = marked || isCurrent
		out[i] = TimelineEntry{
			Status:    change.Status,
			Label:     change.Status.Label(),
			Variant:   change.Status.Variant(),
			ChangedAt: fromNanos(change.ChangedTime),
			Current:   isCurrent,
		}
	}
	return out
}

type NoteView struct {
	Author  string    `json:"author"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// AdminNotes is the two-list view; internal notes never leave the admin pages.
type AdminNotes struct {
	Public   []NoteView `json:"public"`
	Internal []NoteView `json:"internal"`
}

// PublicNotes has no internal field at all.
type PublicNotes struct {
	Public []NoteView `json:"public"`
}

func noteViews(notes []entities.Note) []NoteView {
	out := make([]NoteView, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteView{Author: n.Author, Message: n.Message, At: fromNanos(n.Timestamp)})
	}
	return out
}

// Notes keeps both lists in the order received.
func Notes(public, internal []entities.Note) AdminNotes {
	return AdminNotes{Public: noteViews(public), Internal: noteViews(internal)}
}

func CustomerNotes(public []entities.Note) PublicNotes {
	return PublicNotes{Public: noteViews(public)}
}

// PriceEstimate hides a zero or empty estimate.
func PriceEstimate(total string) (string, bool) {
	if total == "" || total == "$0" {
		return "", false
	}
	return total, true
}

func fromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
