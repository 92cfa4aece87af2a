package payment_gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerGateway_OpensAfterFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &FakeGateway{Err: ErrTimeout}
	gw := NewCircuitBreakerGateway(fake, CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      50 * time.Millisecond,
	})

	for i := 0; i < 3; i++ {
		_, err := gw.CreateInvoice(ctx, CreateInvoiceRequest{ExternalID: "ext-1", Amount: 50000})
		require.ErrorIs(t, err, ErrTimeout)
	}

	// threshold reached, next call is rejected without touching the gateway
	_, err := gw.CreateInvoice(ctx, CreateInvoiceRequest{ExternalID: "ext-1", Amount: 50000})
	require.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerGateway_RecoversAfterOpenTimeout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &FakeGateway{Err: ErrTimeout}
	gw := NewCircuitBreakerGateway(fake, CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		OpenTimeout:      20 * time.Millisecond,
	})

	_, err := gw.CreateInvoice(ctx, CreateInvoiceRequest{ExternalID: "ext-1", Amount: 50000})
	require.ErrorIs(t, err, ErrTimeout)
	_, err = gw.CreateInvoice(ctx, CreateInvoiceRequest{ExternalID: "ext-1", Amount: 50000})
	require.ErrorIs(t, err, ErrCircuitOpen)

	time.Sleep(30 * time.Millisecond)
	fake.Err = nil

	// half-open probe succeeds and closes the breaker
	inv, err := gw.CreateInvoice(ctx, CreateInvoiceRequest{ExternalID: "ext-1", Amount: 50000})
	require.NoError(t, err)
	require.Equal(t, "ext-1", inv.ExternalID)

	inv, err = gw.CreateInvoice(ctx, CreateInvoiceRequest{ExternalID: "ext-2", Amount: 25000})
	require.NoError(t, err)
	require.Equal(t, "ext-2", inv.ExternalID)
}

func TestCircuitBreakerGateway_IgnoresClientErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &FakeGateway{Err: &Error{Code: "INVALID_API_KEY", Message: "API key is invalid", Status: 401}}
	gw := NewCircuitBreakerGateway(fake, CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		OpenTimeout:      time.Second,
	})

	// 4xx responses are the caller's problem, not a gateway outage
	for i := 0; i < 5; i++ {
		_, err := gw.CreateInvoice(ctx, CreateInvoiceRequest{ExternalID: "ext-1", Amount: 50000})
		gwErr, ok := AsError(err)
		require.True(t, ok)
		require.Equal(t, 401, gwErr.Status)
	}
}
