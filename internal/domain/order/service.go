package order

import (
	"context"
	"fmt"
)

// Service serves order reads to buyers and vendors.
type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetOrderByID(ctx context.Context, id string) (Order, error) {
	return GetOrderByID(ctx, s.repo, id)
}

func GetOrderByID(ctx context.Context, repo TxRepo, id string) (Order, error) {
	query, _ := NewOrdersQueryBuilder().
		WithIDs(id).
		Build()

	orders, err := repo.GetOrders(ctx, query)
	if err != nil {
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	if len(orders) == 0 {
		return Order{}, ErrNotFound
	}
	return orders[0], nil
}

func (s *Service) GetOrders(ctx context.Context, query *OrdersQuery) ([]Order, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, err.Error())
	}
	orders, err := s.repo.GetOrders(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("filter orders: %w", err)
	}
	return orders, nil
}
