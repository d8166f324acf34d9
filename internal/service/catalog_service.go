package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/dine-service/internal/domain"
	"github.com/spec-kit/dine-service/internal/events"
	"github.com/spec-kit/dine-service/internal/repository"
)

// CatalogService serves the menu and customer reviews.
type CatalogService struct {
	menu       repository.Collection[domain.MenuItem]
	reviews    repository.Collection[domain.Review]
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCatalogService builds the service. A nil dispatcher disables events.
func NewCatalogService(menu repository.Collection[domain.MenuItem], reviews repository.Collection[domain.Review], dispatcher events.Dispatcher, logger *zap.Logger) *CatalogService {
	return &CatalogService{menu: menu, reviews: reviews, dispatcher: dispatcher, logger: logger}
}

// ListMenu returns every menu item in store order.
func (s *CatalogService) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.menu.Find(ctx, nil)
}

// CreateMenuItem inserts the item as given.
func (s *CatalogService) CreateMenuItem(ctx context.Context, actor string, item domain.MenuItem) (*repository.InsertResult, error) {
	item.ID = nil
	res, err := s.menu.InsertOne(ctx, &item)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventMenuItemCreated, repository.MenuCollection,
		res.InsertedID, actor, events.MenuItemPayload{Name: item.Name, Category: item.Category, Price: item.Price}))
	return res, nil
}

// DeleteMenuItem removes the item with the given id.
func (s *CatalogService) DeleteMenuItem(ctx context.Context, actor, rawID string) (*repository.DeleteResult, error) {
	id, err := parseID(s.menu, rawID)
	if err != nil {
		return nil, err
	}
	res, err := s.menu.DeleteOne(ctx, repository.ByID(id))
	if err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventMenuItemDeleted, repository.MenuCollection,
		id, actor, events.CountPayload{Affected: res.DeletedCount}))
	return res, nil
}

// ListReviews returns every review in store order.
func (s *CatalogService) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return s.reviews.Find(ctx, nil)
}
