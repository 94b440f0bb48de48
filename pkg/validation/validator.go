package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "repair-desk/pkg/errors"
)

// CustomValidator plugs go-playground/validator into echo and turns its
// errors into per-field messages.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = message(fe)
		}
	}
	return apperrors.NewValidationError(fields)
}

func New() *CustomValidator {
	v := validator.New()

	// Report fields under their JSON names, as the form knows them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	registerNullTypes(v)

	if err := registerRules(v); err != nil {
		panic("validation rules: " + err.Error())
	}
	return &CustomValidator{validator: v}
}
