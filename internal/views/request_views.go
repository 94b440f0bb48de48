package views

import (
	"sort"
	"time"

	"repair-desk/internal/entities"
)

type StatusBadge struct {
	Value   entities.RequestStatus `json:"value"`
	Label   string                 `json:"label"`
	Variant entities.StatusVariant `json:"variant"`
}

func Badge(s entities.RequestStatus) StatusBadge {
	return StatusBadge{Value: s, Label: s.Label(), Variant: s.Variant()}
}

// PublicRequestView backs the confirmation and status lookup pages.
type PublicRequestView struct {
	ID                uint64          `json:"id"`
	CustomerName      string          `json:"customerName"`
	ContactInfo       string          `json:"contactInfo"`
	Description       string          `json:"description"`
	ServicesRequested []string        `json:"servicesRequested"`
	PriceEstimate     string          `json:"priceEstimate,omitempty"`
	ShowPrice         bool            `json:"showPrice"`
	Status            StatusBadge     `json:"status"`
	SubmittedAt       time.Time       `json:"submittedAt"`
	LastUpdatedAt     time.Time       `json:"lastUpdatedAt"`
	Timeline          []TimelineEntry `json:"timeline"`
	Notes             PublicNotes     `json:"notes"`
}

func PublicRequest(r *entities.PublicServiceRequest, opts ...TimelineOption) PublicRequestView {
	price, show := PriceEstimate(r.TotalPriceEstimate)
	return PublicRequestView{
		ID:                r.ID,
		CustomerName:      r.CustomerName,
		ContactInfo:       r.ContactInfo,
		Description:       r.Description,
		ServicesRequested: nonNil(r.ServicesRequested),
		PriceEstimate:     price,
		ShowPrice:         show,
		Status:            Badge(r.Status),
		SubmittedAt:       fromNanos(r.SubmittedTime),
		LastUpdatedAt:     fromNanos(r.LastUpdatedTime),
		Timeline:          Timeline(r.Status, r.StatusHistory, opts...),
		Notes:             CustomerNotes(r.PublicNotes),
	}
}

// AdminRequestView backs the admin detail page.
type AdminRequestView struct {
	ID                uint64                     `json:"id"`
	CustomerName      string                     `json:"customerName"`
	ContactInfo       string                     `json:"contactInfo"`
	Description       string                     `json:"description"`
	ServicesRequested []string                   `json:"servicesRequested"`
	PriceEstimate     string                     `json:"priceEstimate,omitempty"`
	ShowPrice         bool                       `json:"showPrice"`
	Status            StatusBadge                `json:"status"`
	StatusOptions     []StatusBadge              `json:"statusOptions"`
	SubmittedAt       time.Time                  `json:"submittedAt"`
	LastUpdatedAt     time.Time                  `json:"lastUpdatedAt"`
	Timeline          []TimelineEntry            `json:"timeline"`
	Notes             AdminNotes                 `json:"notes"`
	NoteDestinations  []entities.NoteDestination `json:"noteDestinations"`
}

func AdminRequest(r *entities.ServiceRequest, opts ...TimelineOption) AdminRequestView {
	price, show := PriceEstimate(r.TotalPriceEstimate)
	options := make([]StatusBadge, 0, len(entities.AllStatuses))
	for _, s := range entities.AllStatuses {
		options = append(options, Badge(s))
	}
	return AdminRequestView{
		ID:                r.ID,
		CustomerName:      r.CustomerName,
		ContactInfo:       r.ContactInfo,
		Description:       r.Description,
		ServicesRequested: nonNil(r.ServicesRequested),
		PriceEstimate:     price,
		ShowPrice:         show,
		Status:            Badge(r.Status),
		StatusOptions:     options,
		SubmittedAt:       fromNanos(r.SubmittedTime),
		LastUpdatedAt:     fromNanos(r.LastUpdatedTime),
		Timeline:          Timeline(r.Status, r.StatusHistory, opts...),
		Notes:             Notes(r.PublicNotes, r.InternalNotes),
		NoteDestinations:  []entities.NoteDestination{entities.NoteInternal, entities.NoteDisplay},
	}
}

// RequestRow is one line of the admin dashboard.
type RequestRow struct {
	ID            uint64      `json:"id"`
	CustomerName  string      `json:"customerName"`
	ContactInfo   string      `json:"contactInfo"`
	Services      int         `json:"servicesCount"`
	PriceEstimate string      `json:"priceEstimate,omitempty"`
	Status        StatusBadge `json:"status"`
	SubmittedAt   time.Time   `json:"submittedAt"`
	LastUpdatedAt time.Time   `json:"lastUpdatedAt"`
}

// Dashboard lists requests newest first.
func Dashboard(requests []entities.ServiceRequest) []RequestRow {
	rows := make([]RequestRow, 0, len(requests))
	for _, r := range requests {
		price, _ := PriceEstimate(r.TotalPriceEstimate)
		rows = append(rows, RequestRow{
			ID:            r.ID,
			CustomerName:  r.CustomerName,
			ContactInfo:   r.ContactInfo,
			Services:      len(r.ServicesRequested),
			PriceEstimate: price,
			Status:        Badge(r.Status),
			SubmittedAt:   fromNanos(r.SubmittedTime),
			LastUpdatedAt: fromNanos(r.LastUpdatedTime),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SubmittedAt.After(rows[j].SubmittedAt)
	})
	return rows
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
