package validation

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-desk/internal/dto"
	apperrors "repair-desk/pkg/errors"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	return validationErr.Fields
}

func TestServiceRequestForm(t *testing.T) {
	v := New()

	fields := fieldErrors(t, v.Validate(&dto.CreateServiceRequestDTO{CustomerName: "   "}))
	assert.Equal(t, map[string]string{
		"customerName":  "Name is required",
		"contactMethod": "Contact method is required",
		"contactInfo":   "Contact information is required",
		"platform":      "Controller platform is required",
		"description":   "Service description is required",
	}, fields)

	valid := dto.CreateServiceRequestDTO{
		CustomerName:      "Rae",
		ContactMethod:     "SMS",
		ContactInfo:       "555-0100",
		Platform:          "PlayStation 5",
		ServicesRequested: []string{"Custom paint"},
		Description:       "paint it",
	}
	assert.NoError(t, v.Validate(&valid))

	valid.ServicesRequested = nil
	assert.NoError(t, v.Validate(&valid), "no services is fine")

	valid.ServicesRequested = []string{"Gold plating"}
	valid.Platform = "Dreamcast"
	fields = fieldErrors(t, v.Validate(&valid))
	assert.Equal(t, "Unknown service: Gold plating", fields["servicesRequested[0]"])
	assert.Equal(t, "Unknown controller platform", fields["platform"])
}

func TestAdminForms(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&dto.UpdateStatusDTO{Status: "waitingForParts"}))
	fields := fieldErrors(t, v.Validate(&dto.UpdateStatusDTO{Status: "lost"}))
	assert.Equal(t, "Unknown status", fields["status"])

	fields = fieldErrors(t, v.Validate(&dto.AddNoteDTO{Destination: "internal", Message: " "}))
	assert.Equal(t, "Note cannot be empty", fields["message"])
	fields = fieldErrors(t, v.Validate(&dto.AddNoteDTO{Destination: "everyone", Message: "hi"}))
	assert.Equal(t, "Unknown note destination", fields["destination"])

	fields = fieldErrors(t, v.Validate(&dto.AssignRoleDTO{Principal: "p", Role: "root"}))
	assert.Contains(t, fields["role"], "admin user guest")
}

func TestProfileForm(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&dto.SaveProfileDTO{Name: "Cy"}))
	assert.NoError(t, v.Validate(&dto.SaveProfileDTO{Name: "Cy", Email: null.StringFrom("cy@example.com")}))

	fields := fieldErrors(t, v.Validate(&dto.SaveProfileDTO{Name: "", Email: null.StringFrom("nope")}))
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Invalid email address", fields["email"])
}
