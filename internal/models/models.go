package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"      json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Name         string    `gorm:"not null"        json:"name"`
	PasswordHash string    `gorm:"not null"        json:"-"`
	Role         string    `gorm:"not null"        json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uuid.UUID `gorm:"index;not null"  json:"user_id"`
	JTI       string    `gorm:"uniqueIndex"     json:"jti"`
	ExpiresAt int64     `gorm:"not null"        json:"expires_at"`
	Revoked   bool      `gorm:"default:false"   json:"revoked"`
}

type Restaurant struct {
	ID             uuid.UUID `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null"   json:"name"`
	Image          string    `json:"image"`
	Cuisine        string    `json:"cuisine"`
	Rating         float64   `json:"rating"`
	DeliveryTime   int       `json:"delivery_time"`
	PriceRange     string    `json:"price_range"`
	IsPromoted     bool      `gorm:"default:false" json:"is_promoted"`
	IsFastDelivery bool      `gorm:"default:false" json:"is_fast_delivery"`
	IsTopRated     bool      `gorm:"default:false" json:"is_top_rated"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type MenuItem struct {
	ID            uuid.UUID       `gorm:"primaryKey"                  json:"id"`
	RestaurantID  uuid.UUID       `gorm:"index;not null"              json:"restaurant_id"`
	Name          string          `gorm:"not null"                    json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Image         string          `json:"image"`
	Category      string          `json:"category"`
	IsVegetarian  bool            `gorm:"default:false" json:"is_vegetarian"`
	IsRecommended bool            `gorm:"default:false" json:"is_recommended"`
	IsAvailable   bool            `gorm:"default:true"  json:"is_available"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Cart is the single draft order of one customer. RestaurantID and
// RestaurantName are null exactly when the cart has no items. The monetary
// fields are derived from Items on every read and never stored.
type Cart struct {
	ID             uuid.UUID  `gorm:"primaryKey"           json:"-"`
	UserID         uuid.UUID  `gorm:"uniqueIndex;not null" json:"user_id"`
	RestaurantID   *uuid.UUID `json:"restaurant_id"`
	RestaurantName *string    `json:"restaurant_name"`
	Items          []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`

	Subtotal    decimal.Decimal `gorm:"-" json:"subtotal"`
	Tax         decimal.Decimal `gorm:"-" json:"tax"`
	DeliveryFee decimal.Decimal `gorm:"-" json:"delivery_fee"`
	Total       decimal.Decimal `gorm:"-" json:"total"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CartItem keeps a snapshot of the menu item taken at add time, so a later
// catalog price change does not move an existing cart's totals.
type CartItem struct {
	ID                  uuid.UUID       `gorm:"primaryKey"                              json:"id"`
	CartID              uuid.UUID       `gorm:"uniqueIndex:idx_cart_menu_item;not null" json:"-"`
	MenuItemID          uuid.UUID       `gorm:"uniqueIndex:idx_cart_menu_item;not null" json:"menu_item_id"`
	Name                string          `gorm:"not null"                    json:"name"`
	UnitPrice           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Image               string          `json:"image"`
	Quantity            int             `gorm:"not null;check:quantity>0" json:"quantity"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	CreatedAt           time.Time       `json:"-"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}
