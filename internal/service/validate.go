package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Shared validator instance; tag rules live on the model structs.
var validate = validator.New(validator.WithRequiredStructEnabled())

// tagViolations runs the tag-level rules of v and converts the outcome
// into FieldErrors. Cross-field date rules are appended by the callers.
func tagViolations(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: tagMessage(fe)})
	}
	return fields
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
