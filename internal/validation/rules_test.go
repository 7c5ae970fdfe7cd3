package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/queryware/sqlgate/internal/errors"
)

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "non-blank string", value: "hello", shouldErr: false},
		// String rules skip empty values; emptiness is validation.Required's job.
		{name: "empty string skipped", value: "", shouldErr: false},
		{name: "whitespace only", value: "   \t\n", shouldErr: true},
		{name: "leading whitespace", value: "  hello", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("token-value"))
	assert.Error(t, NoWhitespace.Validate(" token-value"))
	assert.Error(t, NoWhitespace.Validate("token-value "))
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "letters and digits", value: "basic_select01", shouldErr: false},
		{name: "hyphenated", value: "count-records", shouldErr: false},
		{name: "contains space", value: "basic select", shouldErr: true},
		{name: "contains sql", value: "id; DROP TABLE", shouldErr: true},
		// Skipped by the rule; Required rejects it, as TestValidateIdentifier shows.
		{name: "empty skipped", value: "", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Identifier.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("surveys"))
	assert.Error(t, ValidateIdentifier(""))
	assert.Error(t, ValidateIdentifier("surveys; DROP TABLE x"))
}

func TestWrapValidationError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}
