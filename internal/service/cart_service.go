package service

import (
	"context"

	"github.com/spec-kit/dine-service/internal/domain"
	"github.com/spec-kit/dine-service/internal/repository"
)

// CartService manages cart items. The email on an item is trusted as sent.
type CartService struct {
	carts repository.Collection[domain.CartItem]
}

// NewCartService builds the service.
func NewCartService(carts repository.Collection[domain.CartItem]) *CartService {
	return &CartService{carts: carts}
}

// ListByEmail returns the cart items whose email equals email exactly. An
// empty email matches nothing.
func (s *CartService) ListByEmail(ctx context.Context, email string) ([]domain.CartItem, error) {
	if email == "" {
		return []domain.CartItem{}, nil
	}
	return s.carts.Find(ctx, repository.Filter{"email": email})
}

// Add inserts the item as given.
func (s *CartService) Add(ctx context.Context, item domain.CartItem) (*repository.InsertResult, error) {
	item.ID = nil
	return s.carts.InsertOne(ctx, &item)
}

// Remove deletes the item with the given id.
func (s *CartService) Remove(ctx context.Context, rawID string) (*repository.DeleteResult, error) {
	id, err := parseID(s.carts, rawID)
	if err != nil {
		return nil, err
	}
	return s.carts.DeleteOne(ctx, repository.ByID(id))
}
