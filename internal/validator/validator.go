package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campus-hub/learning-platform/internal/models"
)

// Validator wraps go-playground validation with the platform's custom rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	validate := validator.New()

	// Report json tag names instead of Go field names in errors.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerCustomRules()
	return v
}

// Validate validates any struct and returns structured field errors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (v *Validator) registerCustomRules() {
	_ = v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		switch models.UserRole(fl.Field().String()) {
		case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
			return true
		}
		return false
	})

	_ = v.validate.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		switch models.QuestionType(fl.Field().String()) {
		case models.SingleChoice, models.MultipleChoice, models.TrueFalse:
			return true
		}
		return false
	})

	_ = v.validate.RegisterValidation("enrollment_status", func(fl validator.FieldLevel) bool {
		switch models.EnrollmentStatus(fl.Field().String()) {
		case models.EnrollmentActive, models.EnrollmentCompleted,
			models.EnrollmentDropped, models.EnrollmentSuspended:
			return true
		}
		return false
	})

	// Percentages: 0..100 inclusive.
	_ = v.validate.RegisterValidation("percentage", func(fl validator.FieldLevel) bool {
		val := fl.Field().Int()
		return val >= 0 && val <= 100
	})
}

// ValidationError describes a single failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationErrors aggregates field failures for one request.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve))
	for i, e := range ve {
		parts[i] = e.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ToValidationErrors converts go-playground errors into the API shape.
func ToValidationErrors(err error) ValidationErrors {
	var out ValidationErrors

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Message: err.Error()}}
	}

	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "user_role":
		return fmt.Sprintf("%s must be one of STUDENT, TEACHER, ADMIN", fe.Field())
	case "question_type":
		return fmt.Sprintf("%s must be one of SINGLE_CHOICE, MULTIPLE_CHOICE, TRUE_FALSE", fe.Field())
	case "enrollment_status":
		return fmt.Sprintf("%s must be a valid enrollment status", fe.Field())
	case "percentage":
		return fmt.Sprintf("%s must be between 0 and 100", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
