package domain

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/posrecovery/internal/validation"
)

// RegisterTerminalInput contains the data required to register a terminal.
type RegisterTerminalInput struct {
	ID           string
	Name         string
	Address      string
	Port         int
	Capabilities []string
	APIKey       string
}

// Validate checks the registration input.
func (r *RegisterTerminalInput) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.ID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 64),
		),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Address,
			validation.Required,
			customValidation.HostAddress,
		),
		validation.Field(&r.Port,
			validation.Required,
			validation.Min(1),
			validation.Max(65535),
		),
		validation.Field(&r.Capabilities,
			validation.Each(validation.Required, customValidation.NoWhitespace),
		),
		validation.Field(&r.APIKey,
			validation.Required,
			customValidation.NotBlank,
		),
	)
	return customValidation.WrapValidationError(err)
}
