package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicer/kit/db"
)

type RepositoryMock struct {
	mock.Mock
	RepositoryContract
}

func (m *RepositoryMock) Get(ctx context.Context, id string) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *RepositoryMock) Save(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func TestProductService_Get(t *testing.T) {
	ctx := context.Background()

	var tests = []struct {
		name        string
		id          string
		service     func() *Service
		expected    *Product
		expectedErr error
	}{
		{
			name: "empty id",
			id:   "",
			service: func() *Service {
				return NewService(new(RepositoryMock))
			},
			expectedErr: db.ErrInvalid,
		},
		{
			name: "not found",
			id:   "prod-1",
			service: func() *Service {
				repo := new(RepositoryMock)
				repo.On("Get", ctx, "prod-1").Return(nil, db.ErrNotFound)
				return NewService(repo)
			},
			expectedErr: db.ErrNotFound,
		},
		{
			name: "success",
			id:   "prod-1",
			service: func() *Service {
				repo := new(RepositoryMock)
				repo.On("Get", ctx, "prod-1").Return(&Product{ID: "prod-1", Name: "Internet Plan", Price: 50000}, nil)
				return NewService(repo)
			},
			expected: &Product{ID: "prod-1", Name: "Internet Plan", Price: 50000},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := tt.service()
			p, err := svc.Get(ctx, tt.id)
			if tt.expectedErr != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, p)
		})
	}
}
