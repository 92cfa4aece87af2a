package product

import (
	"context"
	"errors"
	"log"

	"invoicer/kit/db"
)

var ErrInvalidRequest = errors.New("invalid product request")

type Service struct {
	repo RepositoryContract
}

func NewService(repo RepositoryContract) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		log.Printf("layer=service component=product method=Get id=%s err=%v", id, ErrInvalidRequest)
		return nil, errors.Join(db.ErrInvalid, ErrInvalidRequest)
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Printf("layer=service component=product method=Get id=%s err=%v", id, err)
		return nil, err
	}
	return p, nil
}
