// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
	customValidation "github.com/allisson/reportgate/internal/validation"
)

// SendReportRequest asks for a report to be delivered to a client. The tenant
// scope comes from the caller's credentials; the idempotency key travels in
// the Idempotency-Key header, not the body.
type SendReportRequest struct {
	ClientID   string `json:"client_id"`
	ReportName string `json:"report_name"`
}

// Validate checks if the send request is valid.
func (r *SendReportRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientID, validation.Required, customValidation.NotBlank, customValidation.NoWhitespace),
		validation.Field(&r.ReportName, validation.Required, customValidation.NotBlank,
			customValidation.ResourceName,
			customValidation.FileExtension(tokenDomain.AllowedExtensions...)),
	)
}
