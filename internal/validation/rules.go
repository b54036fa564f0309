// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/securevault/internal/errors"
)

// MaxSecretNameLength bounds secret names so they fit the vault's uint16 name length.
const MaxSecretNameLength = 255

var (
	// secretNameRegex allows path-like names such as "db/password" or "api.token-2".
	secretNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/\-]*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// SecretName validates the characters of a secret name. Combine with Required and
// Length(1, MaxSecretNameLength).
var SecretName = validation.NewStringRuleWithError(
	func(s string) bool {
		return utf8.ValidString(s) && secretNameRegex.MatchString(s) && !strings.Contains(s, "//")
	},
	validation.NewError(
		"validation_secret_name",
		"must start with a letter or digit and contain only letters, digits, '.', '_', '-' or '/'",
	),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// OneOf validates that a string is one of the allowed values.
func OneOf(values ...string) validation.Rule {
	allowed := make([]interface{}, 0, len(values))
	for _, v := range values {
		allowed = append(allowed, v)
	}
	return validation.In(allowed...).Error("must be one of: " + strings.Join(values, ", "))
}
