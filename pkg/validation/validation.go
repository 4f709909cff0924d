package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"tenniscourts/pkg/logger"
	"tenniscourts/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details flattens the errors into a field -> message map for API responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// Validator wraps go-playground's validator with the rules shared across
// domains and reports errors using JSON field names.
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

func New(log *logger.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("phone9", validatePhone); err != nil {
		log.Fatal("Failed to register 'phone9' validator", "error", err)
	}
	if err := v.RegisterValidation("maxbytes", validateMaxBytes); err != nil {
		log.Fatal("Failed to register 'maxbytes' validator", "error", err)
	}

	return &Validator{validate: v, messages: map[string]string{}}
}

// Register adds a domain specific rule. message is reported for failures of
// the rule and may contain one %s for the field name.
func (v *Validator) Register(tag string, fn validator.Func, message string) error {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		return err
	}
	v.messages[tag] = message
	return nil
}

func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *Validator) Var(field any, tag string) error {
	return v.validate.Var(field, tag)
}

func validatePhone(fl validator.FieldLevel) bool {
	return sanitizer.IsValidPhone(fl.Field().String())
}

// validateMaxBytes bounds the UTF-8 encoded length, unlike max which counts runes.
func validateMaxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func (v *Validator) translate(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match the layout %s", err.Field(), err.Param())
		case "maxbytes":
			message = fmt.Sprintf("%s must be at most %s bytes", err.Field(), err.Param())
		case "phone9":
			message = fmt.Sprintf("%s must have exactly %d digits", err.Field(), sanitizer.PeruMobileDigits)
		default:
			if custom, ok := v.messages[err.Tag()]; ok {
				if strings.Contains(custom, "%s") {
					message = fmt.Sprintf(custom, err.Field())
				} else {
					message = custom
				}
			}
		}

		out = append(out, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return out
}
