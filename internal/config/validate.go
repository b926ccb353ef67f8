package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mvp-joe/docgen/internal/source"
)

var (
	// ErrInvalidDocument indicates an unusable document section
	ErrInvalidDocument = errors.New("invalid document settings")

	// ErrInvalidPatterns indicates missing or malformed input patterns
	ErrInvalidPatterns = errors.New("invalid input patterns")

	// ErrInvalidOutput indicates a missing output path
	ErrInvalidOutput = errors.New("invalid output")

	// ErrInvalidLog indicates an unknown log level or format
	ErrInvalidLog = errors.New("invalid log settings")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// sectionErrors maps top-level config sections to their sentinel errors.
var sectionErrors = map[string]error{
	"Document": ErrInvalidDocument,
	"Input":    ErrInvalidPatterns,
	"Output":   ErrInvalidOutput,
	"Log":      ErrInvalidLog,
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
	}

	if err := source.ValidatePatterns(cfg.Input.Include); err != nil {
		errs = append(errs, fmt.Errorf("%w: include: %v", ErrInvalidPatterns, err))
	}
	if err := source.ValidatePatterns(cfg.Input.Ignore); err != nil {
		errs = append(errs, fmt.Errorf("%w: ignore: %v", ErrInvalidPatterns, err))
	}

	return joinErrors(errs)
}

// fieldError turns a validator failure into a sentinel-wrapped error naming
// the config key, e.g. "invalid log settings: log.level must be one of ...".
func fieldError(fe validator.FieldError) error {
	// Namespace is "Config.Log.Level"
	parts := strings.Split(fe.Namespace(), ".")
	sentinel := errors.New("invalid configuration")
	if len(parts) > 1 {
		if s, ok := sectionErrors[parts[1]]; ok {
			sentinel = s
		}
	}
	key := strings.ToLower(strings.Join(parts[1:], "."))

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", sentinel, key)
	case "min":
		return fmt.Errorf("%w: %s needs at least %s entries", sentinel, key, fe.Param())
	case "oneof":
		return fmt.Errorf("%w: %s must be one of [%s], got %q", sentinel, key, fe.Param(), fe.Value())
	default:
		return fmt.Errorf("%w: %s failed %s", sentinel, key, fe.Tag())
	}
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	format := "validation failed:" + strings.Repeat("\n  - %w", len(errs))
	args := make([]any, len(errs))
	for i, err := range errs {
		args[i] = err
	}
	return fmt.Errorf(format, args...)
}
