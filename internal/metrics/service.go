package metrics

import (
	"context"

	"invoicer/internal/events"
	"invoicer/kit/broker"
	"invoicer/kit/observability"
)

type Service struct {
	m *observability.Metrics
}

func NewService(m *observability.Metrics) *Service {
	return &Service{m: m}
}

func (s *Service) Snapshot() map[string]int64 {
	if s.m == nil {
		return map[string]int64{}
	}
	return map[string]int64{
		"invoices_created":  s.m.InvoicesCreated.Load(),
		"invoices_paid":     s.m.InvoicesPaid.Load(),
		"invoices_expired":  s.m.InvoicesExpired.Load(),
		"invoices_failed":   s.m.InvoicesFailed.Load(),
		"webhooks_received": s.m.WebhooksReceived.Load(),
	}
}

// WebhookReceived counts an authenticated callback delivery, whatever its
// outcome.
func (s *Service) WebhookReceived() {
	if s.m == nil {
		return
	}
	s.m.WebhooksReceivedAdd(1)
}

// HandleEvent counts invoice lifecycle events off the bus.
func (s *Service) HandleEvent(ctx context.Context, evt broker.Event) error {
	if s.m == nil {
		return nil
	}

	switch evt.(type) {
	case events.InvoiceCreated:
		s.m.InvoicesCreatedAdd(1)
	case events.InvoicePaid:
		s.m.InvoicesPaidAdd(1)
	case events.InvoiceExpired:
		s.m.InvoicesExpiredAdd(1)
	case events.InvoiceFailed:
		s.m.InvoicesFailedAdd(1)
	}
	return nil
}
