package dto

import (
	"strings"

	"github.com/aarondl/null/v8"
)

// Contact methods and platforms offered by the request form.
var (
	ContactMethods = []string{"Email", "Phone", "SMS"}
	Platforms      = []string{
		"Xbox Series X/S",
		"Xbox One",
		"PlayStation 5",
		"PlayStation 4",
		"Nintendo Switch Pro",
		"Nintendo Switch Joy-Con",
		"PC/Generic",
		"Other",
	}
)

type CreateServiceRequestDTO struct {
	CustomerName      string   `json:"customerName" validate:"notblank"`
	ContactMethod     string   `json:"contactMethod" validate:"notblank,contact_method"`
	ContactInfo       string   `json:"contactInfo" validate:"notblank"`
	Platform          string   `json:"platform" validate:"notblank,platform"`
	ServicesRequested []string `json:"servicesRequested" validate:"omitempty,dive,catalog_item"`
	Description       string   `json:"description" validate:"notblank"`
}

// Services returns the selection without duplicates, first occurrence wins.
func (d CreateServiceRequestDTO) Services() []string {
	seen := make(map[string]struct{}, len(d.ServicesRequested))
	out := make([]string, 0, len(d.ServicesRequested))
	for _, s := range d.ServicesRequested {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// FormattedContactInfo is stored as "<method>: <info>".
func (d CreateServiceRequestDTO) FormattedContactInfo() string {
	return d.ContactMethod + ": " + d.ContactInfo
}

// FormattedDescription prefixes the free text with the platform and, when
// any were picked, the selected services.
func (d CreateServiceRequestDTO) FormattedDescription() string {
	var b strings.Builder
	b.WriteString("Platform: ")
	b.WriteString(d.Platform)
	b.WriteString("\n\n")
	if services := d.Services(); len(services) > 0 {
		b.WriteString("Selected Services:\n")
		for i, s := range services {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(s)
		}
		b.WriteString("\n\n")
	}
	b.WriteString(d.Description)
	return b.String()
}

type CreatedServiceRequestDTO struct {
	ID                 uint64 `json:"id"`
	TotalPriceEstimate string `json:"totalPriceEstimate"`
	Redirect           string `json:"redirect"`
}

type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required,request_status"`
}

type AddNoteDTO struct {
	Destination string `json:"destination" validate:"required,note_destination"`
	Message     string `json:"message" validate:"notblank"`
}

type SaveProfileDTO struct {
	Name  string      `json:"name" validate:"notblank"`
	Email null.String `json:"email" validate:"omitempty,custom_email"`
}

type AssignRoleDTO struct {
	Principal string `json:"principal" validate:"notblank"`
	Role      string `json:"role" validate:"required,oneof=admin user guest"`
}
