package dto

import (
	"time"

	reportDomain "github.com/allisson/reportgate/internal/report/domain"
)

// ReportReceiptResponse is returned for both fresh sends and replays.
type ReportReceiptResponse struct {
	Scope      string    `json:"scope"`
	ClientID   string    `json:"client_id"`
	ReportName string    `json:"report_name"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
	SentAt     time.Time `json:"sent_at"`
	Replayed   bool      `json:"replayed"`
}

// MapReceiptToResponse converts a domain receipt to a response DTO.
func MapReceiptToResponse(receipt *reportDomain.Receipt) ReportReceiptResponse {
	return ReportReceiptResponse{
		Scope:      receipt.Scope,
		ClientID:   receipt.ClientID,
		ReportName: receipt.ReportName,
		URL:        receipt.URL,
		ExpiresAt:  receipt.ExpiresAt,
		SentAt:     receipt.SentAt,
		Replayed:   receipt.Replayed,
	}
}
