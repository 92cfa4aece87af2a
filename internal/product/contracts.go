package product

import "context"

// RepositoryContract define product repository responsibility.
type RepositoryContract interface {
	Get(ctx context.Context, id string) (*Product, error)
	Save(ctx context.Context, p *Product) error
}

// ServiceContract define product service responsibility.
type ServiceContract interface {
	Get(ctx context.Context, id string) (*Product, error)
}
