package invoice

import (
	"context"

	"invoicer/kit/broker"
	"invoicer/kit/payment_gateway"
)

// RepositoryContract define invoice repository responsibility.
type RepositoryContract interface {
	Save(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, externalID string) (*Invoice, error)
	ListAll(ctx context.Context) ([]Invoice, error)
}

// ServiceContract define invoice service responsibility.
type ServiceContract interface {
	Create(ctx context.Context, req CreateRequest) (*Invoice, error)
	Reconcile(ctx context.Context, externalID string, next Status) (*Invoice, error)
	Get(ctx context.Context, externalID string) (*Invoice, error)
	ListAll(ctx context.Context) ([]Invoice, error)
}

// GatewayContract define the upstream invoice-creation responsibility.
type GatewayContract interface {
	CreateInvoice(ctx context.Context, req payment_gateway.CreateInvoiceRequest) (*payment_gateway.Invoice, error)
}

// PublisherContract define publish responsibility (broker).
type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}

// StoreContract define append responsibility (event journal).
type StoreContract interface {
	Append(ctx context.Context, externalID string, evt broker.Event) error
}
