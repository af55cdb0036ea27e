package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// iptables limits chain names to 28 characters.
	chainNameRegexp = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,28}$`)
	// Debian, Arch and systemd unit names share this character set.
	packageNameRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9+._@-]*$`)
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "chain_name":
		return "must be 1-28 characters of letters, digits, '_', '.' or '-'"
	case "package_name":
		return "must be a valid package or unit name"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	FieldPath string // Dot-notation field path (e.g., "general.chain", "arch.rules_file")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("chain_name", validateChainName); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("package_name", validatePackageName); err != nil {
		panic(err)
	}

	// Report field names as they appear in the TOML file
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateChainName(fl validator.FieldLevel) bool {
	return chainNameRegexp.MatchString(fl.Field().String())
}

func validatePackageName(fl validator.FieldLevel) bool {
	return packageNameRegexp.MatchString(fl.Field().String())
}

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	if err := validate.Struct(c); err != nil {
		return convertValidatorErrors(err)
	}
	return nil
}

// convertValidatorErrors flattens validator errors into ValidationErrors.
func convertValidatorErrors(err error) error {
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	validationErrors := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		// Namespace is "Config.general.chain"; drop the root struct name
		path := fe.Namespace()
		if idx := strings.Index(path, "."); idx != -1 {
			path = path[idx+1:]
		}
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: path,
			Message:   getValidationMessage(fe),
		})
	}
	return validationErrors
}
