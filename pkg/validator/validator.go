package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError describes one failed struct validation rule.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

var validate = validator.New()

func init() {
	// uuid.Nil passes "required" on uuid.UUID fields, so enforce it explicitly.
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
}

// ValidateStruct runs tag validation and returns every failed field.
func ValidateStruct(data interface{}) []FieldError {
	var fieldErrors []FieldError
	if err := validate.Struct(data); err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			fieldErrors = append(fieldErrors, FieldError{
				Field: e.StructNamespace(),
				Tag:   e.Tag(),
				Param: e.Param(),
			})
		}
	}
	return fieldErrors
}

// FirstError returns a formatted message for the first failed rule, or ""
// when the struct is valid. Services use it to fail fast with one clear
// message per request.
func FirstError(data interface{}) string {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: field '%s' failed on rule '%s'", errs[0].Field, errs[0].Tag)
}
