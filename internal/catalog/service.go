package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zamato/zamato/internal/models"
)

var ErrValidation = errors.New("validation")

type PatchMenuItemRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Image         *string          `json:"image"`
	Category      *string          `json:"category"`
	IsVegetarian  *bool            `json:"is_vegetarian"`
	IsRecommended *bool            `json:"is_recommended"`
	IsAvailable   *bool            `json:"is_available"`
}

// MenuCategory groups a restaurant's items the way the customer UI renders
// them.
type MenuCategory struct {
	Name  string            `json:"name"`
	Items []models.MenuItem `json:"items"`
}

type Service struct {
	Repo *GormRepo
}

func (s *Service) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	return s.Repo.GetRestaurant(ctx, id)
}

func (s *Service) GetRestaurants(ctx context.Context, offset, limit int) (int64, []models.Restaurant, error) {
	return s.Repo.GetRestaurants(ctx, offset, limit)
}

func (s *Service) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	if restaurant.Name == "" {
		return fmt.Errorf("restaurant name is required: %w", ErrValidation)
	}
	return s.Repo.CreateRestaurant(ctx, restaurant)
}

// GetMenuItem is the lookup the cart service depends on.
func (s *Service) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	return s.Repo.GetMenuItem(ctx, id)
}

func (s *Service) GetMenu(ctx context.Context, restaurantID uuid.UUID) ([]MenuCategory, error) {
	items, err := s.Repo.GetMenu(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	categories := make([]MenuCategory, 0)
	for _, item := range items {
		name := item.Category
		if name == "" {
			name = "Other"
		}
		if n := len(categories); n > 0 && categories[n-1].Name == name {
			categories[n-1].Items = append(categories[n-1].Items, item)
			continue
		}
		categories = append(categories, MenuCategory{Name: name, Items: []models.MenuItem{item}})
	}
	return categories, nil
}

func (s *Service) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if item.Name == "" {
		return fmt.Errorf("menu item name is required: %w", ErrValidation)
	}
	if item.RestaurantID == uuid.Nil {
		return fmt.Errorf("restaurant id is required: %w", ErrValidation)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	return s.Repo.CreateMenuItem(ctx, item)
}

func (s *Service) PatchMenuItem(ctx context.Context, req PatchMenuItemRequest, id uuid.UUID) (*models.MenuItem, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	return s.Repo.PatchMenuItem(ctx, req, id)
}

func (s *Service) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return s.Repo.DeleteMenuItem(ctx, id)
}
