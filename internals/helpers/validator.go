package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator.v10 on a request DTO and returns the field
// errors keyed by lowercased field name, or nil when the DTO is valid.
func ValidateStruct(s interface{}) map[string][]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"_": {"invalid input"}}
	}

	fieldErrors := make(map[string][]string, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		fieldErrors[field] = append(fieldErrors[field], fe.Tag())
	}
	return fieldErrors
}
