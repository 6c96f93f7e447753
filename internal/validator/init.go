package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report config failures by the environment variable name rather than
	// the Go field name.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("env"), ",")
		if name == "" {
			return field.Name
		}
		return name
	})
}

func GetValidator() *validator.Validate {
	return validate
}
