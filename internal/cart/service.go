package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zamato/zamato/internal/models"
)

var (
	ErrValidation         = errors.New("validation")
	ErrItemNotFound       = errors.New("cart item not found")
	ErrItemUnavailable    = errors.New("menu item unavailable")
	ErrRestaurantMismatch = errors.New("cart belongs to another restaurant")
)

// Catalog is the read-only menu lookup the cart consumes. The catalog
// service satisfies it; tests substitute a stub.
type Catalog interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

// Service owns the single draft order of each customer. Mutations for the
// same user are serialized through a per-user mutex; different users never
// share a lock.
type Service struct {
	Repo    *GormRepo
	Catalog Catalog

	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

// userLock is reference counted so the map entry can be dropped once the
// last holder releases it, keeping the map bounded by in-flight requests
// rather than by every customer ever seen.
type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(repo *GormRepo, catalog Catalog) *Service {
	return &Service{
		Repo:    repo,
		Catalog: catalog,
		locks:   make(map[uuid.UUID]*userLock),
	}
}

func (s *Service) lockUser(userID uuid.UUID) *userLock {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return l
}

func (s *Service) unlockUser(userID uuid.UUID, l *userLock) {
	l.mu.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, userID)
	}
	s.mu.Unlock()
}

func emptyCart(userID uuid.UUID) *models.Cart {
	c := &models.Cart{UserID: userID, Items: []models.CartItem{}}
	computeTotals(c)
	return c
}

func (s *Service) reload(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload cart: %w", err)
	}
	computeTotals(cart)
	return cart, nil
}

// GetCart returns the current cart, or the empty cart when the user has
// never added anything. Read-only.
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return emptyCart(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	computeTotals(cart)
	return cart, nil
}

// AddItem appends a line or merges into an existing line for the same menu
// item. The cart is created lazily on the first add. Adding from a different
// restaurant than the cart's current one fails with ErrRestaurantMismatch
// and leaves the cart untouched; clearing and retrying is the caller's
// decision, never done here.
func (s *Service) AddItem(ctx context.Context, userID, restaurantID uuid.UUID, restaurantName string, menuItemID uuid.UUID, quantity int, specialInstructions string) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	if restaurantID == uuid.Nil || menuItemID == uuid.Nil {
		return nil, fmt.Errorf("restaurant and menu item ids are required: %w", ErrValidation)
	}

	menuItem, err := s.Catalog.GetMenuItem(ctx, menuItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("menu item %s: %w", menuItemID, ErrItemNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup menu item: %w", err)
	}
	if !menuItem.IsAvailable {
		return nil, fmt.Errorf("menu item %q: %w", menuItem.Name, ErrItemUnavailable)
	}
	if menuItem.RestaurantID != restaurantID {
		return nil, fmt.Errorf("menu item belongs to another restaurant: %w", ErrValidation)
	}

	l := s.lockUser(userID)
	defer s.unlockUser(userID, l)

	cart, err := s.Repo.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart, err = s.Repo.CreateForUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	if len(cart.Items) > 0 && (cart.RestaurantID == nil || *cart.RestaurantID != restaurantID) {
		return nil, fmt.Errorf("cart holds items from %q: %w", derefName(cart.RestaurantName), ErrRestaurantMismatch)
	}

	if existing := findByMenuItem(cart.Items, menuItemID); existing != nil {
		existing.Quantity += quantity
		if specialInstructions != "" {
			existing.SpecialInstructions = specialInstructions
		}
		if err := s.Repo.UpdateItem(ctx, existing); err != nil {
			return nil, fmt.Errorf("update cart item: %w", err)
		}
		return s.reload(ctx, userID)
	}

	line := models.CartItem{
		CartID:              cart.ID,
		MenuItemID:          menuItem.ID,
		Name:                menuItem.Name,
		UnitPrice:           menuItem.Price,
		Image:               menuItem.Image,
		Quantity:            quantity,
		SpecialInstructions: specialInstructions,
	}

	if len(cart.Items) == 0 {
		if err := s.Repo.InsertFirstItem(ctx, cart.ID, restaurantID, restaurantName, &line); err != nil {
			return nil, fmt.Errorf("insert cart item: %w", err)
		}
		return s.reload(ctx, userID)
	}

	if err := s.Repo.InsertItem(ctx, &line); err != nil {
		return nil, fmt.Errorf("insert cart item: %w", err)
	}
	return s.reload(ctx, userID)
}

// UpdateItemQuantity sets a line's quantity absolutely. A quantity of zero or
// below removes the line; removing a line that is already gone is a no-op.
// Updating an absent line to a positive quantity fails with ErrItemNotFound.
// A nil specialInstructions keeps the stored value.
func (s *Service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, newQuantity int, specialInstructions *string) (*models.Cart, error) {
	l := s.lockUser(userID)
	defer s.unlockUser(userID, l)

	cart, err := s.Repo.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if newQuantity >= 1 {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrItemNotFound)
		}
		return emptyCart(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	line := findByID(cart.Items, itemID)
	if line == nil {
		if newQuantity >= 1 {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrItemNotFound)
		}
		computeTotals(cart)
		return cart, nil
	}

	if newQuantity <= 0 {
		if err := s.Repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
			return nil, fmt.Errorf("delete cart item: %w", err)
		}
		return s.reload(ctx, userID)
	}

	line.Quantity = newQuantity
	if specialInstructions != nil {
		line.SpecialInstructions = *specialInstructions
	}
	if err := s.Repo.UpdateItem(ctx, line); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return s.reload(ctx, userID)
}

// RemoveItem deletes a line. Missing lines are ignored, so the call is
// idempotent.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	return s.UpdateItemQuantity(ctx, userID, itemID, 0, nil)
}

// ClearCart resets the cart to the empty state unconditionally.
func (s *Service) ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	l := s.lockUser(userID)
	defer s.unlockUser(userID, l)

	cart, err := s.Repo.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return emptyCart(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	if err := s.Repo.Clear(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	return s.reload(ctx, userID)
}

func findByMenuItem(items []models.CartItem, menuItemID uuid.UUID) *models.CartItem {
	for i := range items {
		if items[i].MenuItemID == menuItemID {
			return &items[i]
		}
	}
	return nil
}

func findByID(items []models.CartItem, itemID uuid.UUID) *models.CartItem {
	for i := range items {
		if items[i].ID == itemID {
			return &items[i]
		}
	}
	return nil
}

func derefName(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
