package validation

import (
	"reflect"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

// registerNullTypes lets rules see through null.String; an invalid value is
// nil so omitempty skips it.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})
}
