package usecase

import (
	"context"
	"time"

	"github.com/allisson/reportgate/internal/metrics"
	reportDomain "github.com/allisson/reportgate/internal/report/domain"
)

// useCaseWithMetrics decorates UseCase with metrics instrumentation. Each
// terminal send status is recorded distinctly so replay, conflict, and
// rate-limit rates are visible alongside plain successes.
type useCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps a report UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &useCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Send records metrics for report delivery.
func (u *useCaseWithMetrics) Send(ctx context.Context, input SendInput) (*reportDomain.SendResult, error) {
	start := time.Now()
	result, err := u.next.Send(ctx, input)

	status := "error"
	if err == nil && result != nil {
		status = result.Status.String()
	}

	u.metrics.RecordOperation(ctx, "report", "report_send", status)
	u.metrics.RecordDuration(ctx, "report", "report_send", time.Since(start), status)

	return result, err
}
