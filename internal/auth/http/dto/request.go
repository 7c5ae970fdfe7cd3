// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	customValidation "github.com/queryware/sqlgate/internal/validation"
)

// IssueTokenRequest contains the parameters for issuing a signed token.
type IssueTokenRequest struct {
	Subject      string   `json:"subject"`
	Capabilities []string `json:"capabilities"`
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Subject,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
		validation.Field(&r.Capabilities,
			validation.Required,
			validation.Length(1, 0), // At least one capability
			validation.Each(validation.By(validateCapabilityName)),
		),
	)
}

// validateCapabilityName rejects names outside the closed capability set.
func validateCapabilityName(value interface{}) error {
	name, ok := value.(string)
	if !ok {
		return validation.NewError("validation_capability_type", "must be a string")
	}
	if _, err := authDomain.ParseCapability(name); err != nil {
		return validation.NewError("validation_capability_unknown", err.Error())
	}
	return nil
}
