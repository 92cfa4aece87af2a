package notification

import (
	"context"
	"fmt"

	"invoicer/internal/events"
	"invoicer/kit/broker"
	"invoicer/kit/observability"
)

// Service tells the payer about terminal invoice outcomes. Delivery is a log
// line for now; the contract is what webhook consumers depend on.
type Service struct {
	logger *observability.Logger
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) Notify(ctx context.Context, payerEmail string, msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info("notify", "payer_email", payerEmail, "msg", msg)
}

func (s *Service) HandleInvoicePaid(ctx context.Context, evt broker.Event) error {
	e, ok := evt.(events.InvoicePaid)
	if !ok {
		return fmt.Errorf("unexpected event type: %T", evt)
	}
	s.Notify(ctx, e.PayerEmail, "invoice paid")
	return nil
}

func (s *Service) HandleInvoiceExpired(ctx context.Context, evt broker.Event) error {
	e, ok := evt.(events.InvoiceExpired)
	if !ok {
		return fmt.Errorf("unexpected event type: %T", evt)
	}
	s.Notify(ctx, e.PayerEmail, "invoice expired")
	return nil
}

func (s *Service) HandleInvoiceFailed(ctx context.Context, evt broker.Event) error {
	e, ok := evt.(events.InvoiceFailed)
	if !ok {
		return fmt.Errorf("unexpected event type: %T", evt)
	}
	s.Notify(ctx, e.PayerEmail, "invoice payment failed")
	return nil
}
