package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zamato/zamato/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := models.Cart{UserID: userID}
	if err := r.DB.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) InsertItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

// InsertFirstItem claims the restaurant and writes the first line in one
// transaction. A failed insert rolls the restaurant columns back, so an empty
// cart can never end up holding a restaurant.
func (r *GormRepo) InsertFirstItem(ctx context.Context, cartID, restaurantID uuid.UUID, restaurantName string, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Cart{}).
			Where("id = ?", cartID).
			Updates(map[string]any{
				"restaurant_id":   restaurantID,
				"restaurant_name": restaurantName,
			}).Error; err != nil {
			return err
		}
		return tx.Create(item).Error
	})
}

func (r *GormRepo) UpdateItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"quantity":             item.Quantity,
			"special_instructions": item.SpecialInstructions,
		}).Error
}

// DeleteItem removes a line and resets the cart's restaurant columns in the
// same transaction when the line was the last one.
func (r *GormRepo) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND cart_id = ?", itemID, cartID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&models.CartItem{}).
			Where("cart_id = ?", cartID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}

		return tx.Model(&models.Cart{}).
			Where("id = ?", cartID).
			Updates(map[string]any{"restaurant_id": nil, "restaurant_name": nil}).Error
	})
}

func (r *GormRepo) Clear(ctx context.Context, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).
			Where("id = ?", cartID).
			Updates(map[string]any{"restaurant_id": nil, "restaurant_name": nil}).Error
	})
}
