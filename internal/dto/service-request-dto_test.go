package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormattedFields(t *testing.T) {
	d := CreateServiceRequestDTO{
		CustomerName:      "Rae",
		ContactMethod:     "Email",
		ContactInfo:       "rae@example.com",
		Platform:          "Xbox One",
		ServicesRequested: []string{"Analog stick drift repair", "Trigger repair", "Analog stick drift repair"},
		Description:       "left stick drifts",
	}

	assert.Equal(t, "Email: rae@example.com", d.FormattedContactInfo())
	assert.Equal(t, "Platform: Xbox One\n\nSelected Services:\n- Analog stick drift repair\n- Trigger repair\n\nleft stick drifts", d.FormattedDescription())

	d.ServicesRequested = nil
	assert.Equal(t, "Platform: Xbox One\n\nleft stick drifts", d.FormattedDescription())
}
