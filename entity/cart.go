package entity

import (
	"github.com/shopspring/decimal"
)

// CartLine is one (user, product, quantity) tuple pending purchase.
// A user has at most one line per product; re-adding replaces the quantity.
type CartLine struct {
	CartID    uint  `gorm:"primaryKey" json:"cart_id"`
	UserID    int64 `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint  `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int   `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (CartLine) TableName() string { return "cart" }

// Subtotal is the line price at current product pricing.
func (l *CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
