// Package validation covers the statically-shaped inputs of the checkout
// flow: customer contact data validated with go-playground/validator, and
// the remapping of backend validation-error keys onto this system's field
// vocabulary.
package validation

import (
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"svc-forge/internal/model"
)

// New returns the configured validator instance. Validation rules live as
// struct tags on the model types.
func New() *validatorv10.Validate {
	return validatorv10.New(validatorv10.WithRequiredStructEnabled())
}

// Contact validates customer contact data. It returns nil when the data is
// acceptable, otherwise a field→message map keyed by the wire names of the
// contact fields.
func Contact(v *validatorv10.Validate, info model.CustomerInfo) map[string]string {
	err := v.Struct(info)
	if err == nil {
		return nil
	}

	out := make(map[string]string)
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		out["contact"] = err.Error()
		return out
	}

	for _, fe := range ve {
		key := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[key] = "is required"
		case "email":
			out[key] = "must be a valid email address"
		default:
			out[key] = "is invalid"
		}
	}
	return out
}
