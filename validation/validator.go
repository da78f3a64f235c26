// Package validation validates decoded query descriptors. It wraps go-playground/validator
// with the sql_dialect and sql_operator rules and readable field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	dbtypes "github.com/reddwarf-io/reddwarf/database/types"
)

// Validator wraps go-playground/validator with the rules of this module.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the custom rules registered. Field names in
// errors follow the yaml tag, then the json tag, of each field.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("sql_dialect", validateDialect); err != nil {
		return nil
	}
	if err := v.RegisterValidation("sql_operator", validateOperator); err != nil {
		return nil
	}

	return &Validator{validate: v}
}

// GetValidator returns the underlying validator instance.
func (v *Validator) GetValidator() *validator.Validate {
	return v.validate
}

// Validate validates a struct and returns a *ValidationError for field failures.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(validationErrors)
		}
		return err
	}
	return nil
}

// ValidationError lists every failed field.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError is the failure of one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// NewValidationError converts go-playground/validator errors into a ValidationError.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fieldErrors := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Namespace(),
			Message: getErrorMessage(err),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}

	return &ValidationError{Errors: fieldErrors}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
	default:
		msgs := make([]string, len(ve.Errors))
		for i, fe := range ve.Errors {
			msgs[i] = fe.Message
		}
		return fmt.Sprintf("validation failed: %d errors: %s", len(ve.Errors), strings.Join(msgs, "; "))
	}
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map || fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must have at least %s entries", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "sql_dialect":
		return fmt.Sprintf("%s must be a supported sql dialect (%s, %s)", fe.Field(), dbtypes.MySQL, dbtypes.ClickHouse)
	case "sql_operator":
		return fmt.Sprintf("%s must be one of %v", fe.Field(), dbtypes.Operators())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// validateDialect accepts an empty value, which selects the default dialect.
func validateDialect(fl validator.FieldLevel) bool {
	_, err := dbtypes.ParseDialect(fl.Field().String())
	return err == nil
}

func validateOperator(fl validator.FieldLevel) bool {
	_, err := dbtypes.ParseOperator(fl.Field().String())
	return err == nil
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"yaml", "json"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
