// Package service provides the delivery channel for report notifications.
package service

import (
	"context"
	"log/slog"
	"time"
)

// Delivery is a notification that a report is ready for download.
type Delivery struct {
	Scope      string
	ClientID   string
	ReportName string
	URL        string
	ExpiresAt  time.Time
}

// Sender delivers report notifications to clients. Implementations decide the
// channel (email, webhook); delivery failures abort the send so the
// idempotency ledger never records an unsent report.
type Sender interface {
	Send(ctx context.Context, delivery Delivery) error
}

type logSender struct {
	logger *slog.Logger
}

// NewLogSender creates a Sender that records deliveries in the structured
// log. Used in development and as the default until a real channel is
// configured.
func NewLogSender(logger *slog.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(ctx context.Context, delivery Delivery) error {
	s.logger.Info("Report delivery",
		slog.String("scope", delivery.Scope),
		slog.String("client_id", delivery.ClientID),
		slog.String("report_name", delivery.ReportName),
		slog.String("url", delivery.URL),
		slog.Time("expires_at", delivery.ExpiresAt))
	return nil
}
