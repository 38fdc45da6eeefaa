// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/reportgate/internal/validation"
)

// RegisterTenantRequest registers a new tenant scope.
type RegisterTenantRequest struct {
	Scope string `json:"scope"`
}

// Validate checks if the register tenant request is valid.
func (r *RegisterTenantRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Scope, validation.Required, customValidation.NotBlank, customValidation.ScopeName),
	)
}

// RegisterClientRequest registers a report recipient under a tenant.
type RegisterClientRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Validate checks if the register client request is valid.
func (r *RegisterClientRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required, customValidation.NotBlank, customValidation.ScopeName),
		validation.Field(&r.Name, validation.Length(0, 255)),
	)
}
