// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/queryware/sqlgate/internal/errors"
)

var (
	// identifierRegex matches safe identifiers (template IDs, subject names).
	identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// ValidateIdentifier checks a standalone value against the Identifier rule.
// Used for path parameters that never pass through a request DTO.
func ValidateIdentifier(value string) error {
	return validation.Validate(value, validation.Required, Identifier)
}

// Identifier validates that a string is a safe identifier consisting of
// letters, digits, underscores and hyphens.
var Identifier = validation.NewStringRuleWithError(
	func(s string) bool {
		return identifierRegex.MatchString(s)
	},
	validation.NewError(
		"validation_identifier",
		"must contain only letters, digits, underscores and hyphens",
	),
)
