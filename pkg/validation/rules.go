package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"repair-desk/internal/catalog"
	"repair-desk/internal/dto"
	"repair-desk/internal/entities"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"notblank":         isNotBlank,
		"custom_email":     isGoodEmailFormat,
		"catalog_item":     isCatalogItem,
		"request_status":   isRequestStatus,
		"note_destination": isNoteDestination,
		"contact_method":   oneOfList(dto.ContactMethods),
		"platform":         oneOfList(dto.Platforms),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isCatalogItem(fl validator.FieldLevel) bool {
	_, ok := catalog.Lookup(fl.Field().String())
	return ok
}

func isRequestStatus(fl validator.FieldLevel) bool {
	return entities.RequestStatus(fl.Field().String()).Valid()
}

func isNoteDestination(fl validator.FieldLevel) bool {
	return entities.NoteDestination(fl.Field().String()).Valid()
}

func oneOfList(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, a := range allowed {
			if a == value {
				return true
			}
		}
		return false
	}
}

// requiredMessages are the form's wording for missing fields.
var requiredMessages = map[string]string{
	"customerName":  "Name is required",
	"contactMethod": "Contact method is required",
	"contactInfo":   "Contact information is required",
	"platform":      "Controller platform is required",
	"description":   "Service description is required",
	"name":          "Name is required",
	"message":       "Note cannot be empty",
	"principal":     "Principal is required",
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		if m, ok := requiredMessages[fe.Field()]; ok {
			return m
		}
		return "This field is required"
	case "catalog_item":
		return fmt.Sprintf("Unknown service: %v", fe.Value())
	case "contact_method":
		return "Unknown contact method"
	case "platform":
		return "Unknown controller platform"
	case "request_status":
		return "Unknown status"
	case "note_destination":
		return "Unknown note destination"
	case "custom_email":
		return "Invalid email address"
	case "oneof":
		return "Must be one of: " + fe.Param()
	}
	return "Invalid value"
}
