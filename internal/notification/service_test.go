package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"invoicer/internal/events"
	"invoicer/kit/broker"
	"invoicer/kit/observability"
)

func TestService_Handlers(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name      string
		handle    func(svc *Service, evt broker.Event) error
		evt       broker.Event
		expectErr bool
	}{
		{
			name:   "paid",
			handle: func(svc *Service, evt broker.Event) error { return svc.HandleInvoicePaid(ctx, evt) },
			evt:    events.InvoicePaid{ExternalID: "ext-1", PayerEmail: "payer@example.com"},
		},
		{
			name:   "expired",
			handle: func(svc *Service, evt broker.Event) error { return svc.HandleInvoiceExpired(ctx, evt) },
			evt:    events.InvoiceExpired{ExternalID: "ext-1", PayerEmail: "payer@example.com"},
		},
		{
			name:   "failed",
			handle: func(svc *Service, evt broker.Event) error { return svc.HandleInvoiceFailed(ctx, evt) },
			evt:    events.InvoiceFailed{ExternalID: "ext-1", PayerEmail: "payer@example.com"},
		},
		{
			name:      "wrong event type",
			handle:    func(svc *Service, evt broker.Event) error { return svc.HandleInvoicePaid(ctx, evt) },
			evt:       events.InvoiceExpired{ExternalID: "ext-1"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewService(observability.NewNopLogger())
			err := tt.handle(svc, tt.evt)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
