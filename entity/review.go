package entity

import "time"

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// Favorite marks one product as saved by one user.
type Favorite struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    int64 `gorm:"not null;uniqueIndex:idx_fav_user_product" json:"user_id"`
	ProductID uint  `gorm:"not null;uniqueIndex:idx_fav_user_product" json:"product_id"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (Favorite) TableName() string { return "favorites" }

// Review is a user's rating and optional text for a product. Ratings are
// averaged per product on demand, never cached.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string { return "reviews" }

// ValidRating reports whether r is inside the allowed 1..5 range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
