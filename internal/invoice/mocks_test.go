package invoice

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicer/kit/broker"
	"invoicer/kit/payment_gateway"
)

type RepositoryMock struct {
	mock.Mock
	RepositoryContract
}

func (m *RepositoryMock) Save(ctx context.Context, inv *Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *RepositoryMock) Get(ctx context.Context, externalID string) (*Invoice, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Invoice), args.Error(1)
}

func (m *RepositoryMock) ListAll(ctx context.Context) ([]Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Invoice), args.Error(1)
}

type GatewayMock struct {
	mock.Mock
	GatewayContract
}

func (m *GatewayMock) CreateInvoice(ctx context.Context, req payment_gateway.CreateInvoiceRequest) (*payment_gateway.Invoice, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment_gateway.Invoice), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
	PublisherContract
}

func (m *PublisherMock) Publish(ctx context.Context, evt broker.Event) []error {
	args := m.Called(ctx, evt)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]error)
}

type StoreMock struct {
	mock.Mock
	StoreContract
}

func (m *StoreMock) Append(ctx context.Context, externalID string, evt broker.Event) error {
	args := m.Called(ctx, externalID, evt)
	return args.Error(0)
}
