package entity

import (
	"github.com/shopspring/decimal"
)

// Category owns zero or more products; deleting a category cascades to them.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name" validate:"required"`

	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ProductID   uint            `gorm:"primaryKey" json:"product_id"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	Name        string          `gorm:"not null" json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	PhotoID     string          `json:"photo_id"`
	Quantity    int             `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`

	CartLines []CartLine  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Items     []OrderItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites []Favorite  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews   []Review    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string { return "products" }

// InStock reports whether the requested quantity can currently be sold.
func (p *Product) InStock(quantity int) bool {
	return quantity > 0 && quantity <= p.Quantity
}
