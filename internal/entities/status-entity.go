package entities

import (
	"fmt"
)

// RequestStatus is one of the eight lifecycle states of a service request.
// Transition rules live in the backend; nothing here orders statuses.
type RequestStatus string

const (
	StatusSubmitted       RequestStatus = "submitted"
	StatusInReview        RequestStatus = "inReview"
	StatusAccepted        RequestStatus = "accepted"
	StatusInProgress      RequestStatus = "inProgress"
	StatusWaitingForParts RequestStatus = "waitingForParts"
	StatusCompleted       RequestStatus = "completed"
	StatusShipped         RequestStatus = "shipped"
	StatusCancelled       RequestStatus = "cancelled"
)

// StatusVariant is the rendering emphasis of a status badge.
type StatusVariant string

const (
	VariantDefault     StatusVariant = "default"
	VariantSecondary   StatusVariant = "secondary"
	VariantDestructive StatusVariant = "destructive"
	VariantOutline     StatusVariant = "outline"
)

// AllStatuses lists the vocabulary in display order.
var AllStatuses = []RequestStatus{
	StatusSubmitted,
	StatusInReview,
	StatusAccepted,
	StatusInProgress,
	StatusWaitingForParts,
	StatusCompleted,
	StatusShipped,
	StatusCancelled,
}

var statusLabels = map[RequestStatus]string{
	StatusSubmitted:       "Submitted",
	StatusInReview:        "In Review",
	StatusAccepted:        "Accepted",
	StatusInProgress:      "In Progress",
	StatusWaitingForParts: "Waiting for Parts",
	StatusCompleted:       "Completed",
	StatusShipped:         "Shipped",
	StatusCancelled:       "Cancelled",
}

var statusVariants = map[RequestStatus]StatusVariant{
	StatusSubmitted:       VariantSecondary,
	StatusInReview:        VariantSecondary,
	StatusAccepted:        VariantDefault,
	StatusInProgress:      VariantDefault,
	StatusWaitingForParts: VariantOutline,
	StatusCompleted:       VariantDefault,
	StatusShipped:         VariantDefault,
	StatusCancelled:       VariantDestructive,
}

func (s RequestStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s RequestStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Unknown"
}

func (s RequestStatus) Variant() StatusVariant {
	if v, ok := statusVariants[s]; ok {
		return v
	}
	return VariantSecondary
}

// ParseStatus accepts either the canonical value or its label.
func ParseStatus(raw string) (RequestStatus, error) {
	if s := RequestStatus(raw); s.Valid() {
		return s, nil
	}
	for s, label := range statusLabels {
		if label == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown request status %q", raw)
}
