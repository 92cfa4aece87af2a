package payment_gateway

import (
	"context"
	"fmt"
	"time"
)

// FakeGateway answers creation calls locally. Err, when set, is returned
// instead of a success payload; Delay simulates upstream latency.
type FakeGateway struct {
	Err   error
	Delay time.Duration
}

func NewFakeGateway() *FakeGateway { return &FakeGateway{} }

func (g *FakeGateway) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	if g.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.Delay):
		}
	}
	if g.Err != nil {
		return nil, g.Err
	}

	now := time.Now().UTC()
	return &Invoice{
		ID:          fmt.Sprintf("inv_%s", req.ExternalID),
		ExternalID:  req.ExternalID,
		Amount:      req.Amount,
		PayerEmail:  req.PayerEmail,
		Description: req.Description,
		InvoiceURL:  fmt.Sprintf("https://checkout.example.test/%s", req.ExternalID),
		Status:      "PENDING",
		Created:     now,
		Updated:     now,
	}, nil
}
