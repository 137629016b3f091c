package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sahilchouksey/thats-my-college/model"
)

// phonePattern accepts an optional leading + and 10 to 15 digits
var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field names in errors are
// taken from json tags so they match the request body.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.IsValidRole(fl.Field().String())
	})
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return model.IsValidGender(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("admission_status", func(fl validator.FieldLevel) bool {
		return model.IsValidAdmissionStatus(fl.Field().String())
	})

	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return out
	}

	for _, e := range validationErrs {
		field := fieldPath(e.Namespace())
		switch e.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", e.Field())
		case "email":
			out[field] = "Invalid email format"
		case "min":
			if e.Kind() == reflect.Slice {
				out[field] = fmt.Sprintf("%s must contain at least %s items", e.Field(), e.Param())
			} else {
				out[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
			}
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		case "gte":
			out[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
		case "lte":
			out[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
		case "role":
			out[field] = fmt.Sprintf("%s must be one of USER, ADMIN, SUPER_ADMIN", e.Field())
		case "gender":
			out[field] = fmt.Sprintf("%s must be one of MALE, FEMALE, OTHER", e.Field())
		case "phone":
			out[field] = "Invalid phone number format"
		case "strong_password":
			out[field] = fmt.Sprintf("%s must have at least %d characters with an uppercase letter, a number and a symbol", e.Field(), PasswordMinLength)
		case "admission_status":
			out[field] = fmt.Sprintf("%s is not a valid admission status", e.Field())
		default:
			out[field] = fmt.Sprintf("%s is invalid", e.Field())
		}
	}

	return out
}

// PasswordMinLength is the minimum password length
const PasswordMinLength = 8

// IsStrongPassword requires the minimum length plus at least one uppercase
// letter, one digit and one symbol
func IsStrongPassword(password string) bool {
	if len(password) < PasswordMinLength {
		return false
	}

	var hasUpper, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= '0' && char <= '9':
			hasNumber = true
		case strings.ContainsRune("!@#$%^&*()_+-=[]{}|;:,.<>?/~`'\"\\", char):
			hasSpecial = true
		}
	}
	return hasUpper && hasNumber && hasSpecial
}

// fieldPath drops the top-level struct name, "loginRequest.email" -> "email"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
