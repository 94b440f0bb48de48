package seeders

import (
	"repair-desk/internal/dto"
	"repair-desk/internal/entities"
)

type demoNote struct {
	Destination entities.NoteDestination
	Message     string
}

type demoRequest struct {
	Form dto.CreateServiceRequestDTO
	// Statuses are applied in order after creation.
	Statuses []entities.RequestStatus
	Notes    []demoNote
}

var demoRequests = []demoRequest{
	{
		Form: dto.CreateServiceRequestDTO{
			CustomerName:      "Maya Ortiz",
			ContactMethod:     "Email",
			ContactInfo:       "maya@example.com",
			Platform:          "PlayStation 5",
			ServicesRequested: []string{"Analog stick drift repair", "Controller cleaning"},
			Description:       "Left stick drifts up and to the right.",
		},
	},
	{
		Form: dto.CreateServiceRequestDTO{
			CustomerName:      "Dev Patel",
			ContactMethod:     "Phone",
			ContactInfo:       "555-0102",
			Platform:          "Xbox Series X/S",
			ServicesRequested: []string{"LED lighting mods", "Custom paint"},
			Description:       "Matte black shell with red LEDs please.",
		},
		Statuses: []entities.RequestStatus{entities.StatusInReview, entities.StatusAccepted},
		Notes: []demoNote{
			{Destination: entities.NoteDisplay, Message: "Paint colour confirmed, starting next week."},
			{Destination: entities.NoteInternal, Message: "Order red LED strip from supplier."},
		},
	},
	{
		Form: dto.CreateServiceRequestDTO{
			CustomerName:      "Sam Lee",
			ContactMethod:     "SMS",
			ContactInfo:       "555-0199",
			Platform:          "Nintendo Switch Pro",
			ServicesRequested: []string{"Full performance"},
			Description:       "Competitive setup for fighting games.",
		},
		Statuses: []entities.RequestStatus{
			entities.StatusInReview, entities.StatusAccepted, entities.StatusInProgress,
			entities.StatusWaitingForParts, entities.StatusInProgress,
		},
		Notes: []demoNote{
			{Destination: entities.NoteInternal, Message: "Back paddles backordered."},
		},
	},
	{
		Form: dto.CreateServiceRequestDTO{
			CustomerName:  "Rae Kim",
			ContactMethod: "Email",
			ContactInfo:   "rae@example.com",
			Platform:      "Other",
			Description:   "Not sure what is wrong, the controller will not charge.",
		},
		Statuses: []entities.RequestStatus{entities.StatusInReview, entities.StatusCancelled},
		Notes: []demoNote{
			{Destination: entities.NoteDisplay, Message: "Unfortunately we cannot service this model."},
		},
	},
}
