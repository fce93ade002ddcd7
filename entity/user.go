package entity

import (
	"time"
)

// Language codes persisted on the user row.
const (
	LangEN = "en"
	LangRU = "ru"
)

// User is the identity row created on first contact with the bot.
// Username and first name are refreshed on every contact.
type User struct {
	UserID        int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Username      string    `json:"username"`
	FirstName     string    `json:"first_name"`
	RegDate       time.Time `gorm:"autoCreateTime" json:"reg_date"`
	IsAdmin       bool      `gorm:"default:false" json:"is_admin"`
	Language      string    `gorm:"default:en" json:"language"`
	Notifications bool      `gorm:"default:true" json:"notifications"`

	Profile      *UserProfile       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CartLines    []CartLine         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders       []Order            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites    []Favorite         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews      []Review           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Transactions []StarsTransaction `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

func NewUser(userID int64, username, firstName string) *User {
	return &User{
		UserID:        userID,
		Username:      username,
		FirstName:     firstName,
		RegDate:       time.Now(),
		Language:      LangEN,
		Notifications: true,
	}
}

// UserProfile holds the registration data collected by the registration
// workflow. Its presence is the registration predicate.
type UserProfile struct {
	UserID      int64    `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Name        string   `json:"name" validate:"required,min=2"`
	PhoneNumber string   `json:"phone_number" validate:"required"`
	Email       string   `json:"email" validate:"omitempty,email"`
	LocationLat *float64 `json:"location_lat"`
	LocationLon *float64 `json:"location_lon"`
	Age         int      `json:"age" validate:"gte=0"`
	PhotoID     string   `json:"photo_id"`
}

func (UserProfile) TableName() string { return "user_profiles" }

// HasLocation reports whether the profile carries a shared geolocation.
func (p *UserProfile) HasLocation() bool {
	return p.LocationLat != nil && p.LocationLon != nil
}
