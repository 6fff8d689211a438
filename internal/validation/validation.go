// Package validation builds the validator used by the admin page forms.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// unitPattern matches an integer with a px or % suffix.
var unitPattern = regexp.MustCompile(`^(\d+)(px|%)$`)

// New returns a validator that reports fields by their form name and knows the "unit" tag.
//
// unit=<suffix> <min> <max> accepts strings like "12px" whose suffix matches and whose number is within [min, max].
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	if err := v.RegisterValidation("unit", validateUnit); err != nil {
		panic(err)
	}

	return v
}

func validateUnit(fl validator.FieldLevel) bool {
	params := strings.Fields(fl.Param())
	if len(params) != 3 { //nolint:mnd
		return false
	}

	m := unitPattern.FindStringSubmatch(fl.Field().String())
	if m == nil || m[2] != params[0] {
		return false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}

	lower, errLower := strconv.Atoi(params[1])
	upper, errUpper := strconv.Atoi(params[2])

	if errLower != nil || errUpper != nil {
		return false
	}

	return n >= lower && n <= upper
}

// Messages turns a validation error into one line per failed field.
func Messages(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	out := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		out[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
	}

	return out
}

// FieldErrors maps the form name of every failed field to a readable message.
// Slice elements (heroBanners[2]) are reported under the slice name.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return out
	}

	for _, ve := range validationErrors {
		field, _, _ := strings.Cut(ve.Field(), "[")
		if _, ok := out[field]; !ok {
			out[field] = message(ve)
		}
	}

	return out
}

func message(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Please enter a valid email address"
	case "numeric":
		return "Only digits are allowed"
	case "hexcolor":
		return "Please enter a hex color like #1A73E8"
	case "url":
		return "Please enter a valid URL"
	case "oneof":
		return "Please choose one of " + ve.Param()
	case "unit":
		p := strings.Fields(ve.Param())
		if len(p) == 3 { //nolint:mnd
			return "Please enter a value between " + p[1] + p[0] + " and " + p[2] + p[0]
		}
	case "max":
		if ve.Kind() == reflect.Slice {
			return "At most " + ve.Param() + " entries are allowed"
		}

		return "Must be at most " + ve.Param() + " characters"
	case "min":
		return "Must be at least " + ve.Param() + " characters"
	}

	return "Field failed validation tag '" + ve.Tag() + "'"
}
