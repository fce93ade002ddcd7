package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopbot/entity"
)

// UpsertUser creates the user row on first contact and refreshes the
// username and display name on every later one. Preference fields are left
// untouched for existing rows.
func (s *Storage) UpsertUser(ctx context.Context, user *entity.User) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name"}),
	}).Create(user).Error
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, userID int64) (*entity.User, error) {
	var user entity.User
	err := s.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if err != nil {
		return nil, findError(err)
	}
	return &user, nil
}

// SetAdmin flips the stored admin flag. Used by the super-admin panel.
func (s *Storage) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	res := s.db.WithContext(ctx).Model(&entity.User{}).
		Where("user_id = ?", userID).
		Update("is_admin", isAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAdmins lists users flagged as admin in storage.
func (s *Storage) GetAdmins(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := s.db.WithContext(ctx).Where("is_admin = ?", true).Order("user_id").Find(&users).Error
	return users, err
}

func (s *Storage) UpdateNotifications(ctx context.Context, userID int64, enabled bool) error {
	res := s.db.WithContext(ctx).Model(&entity.User{}).
		Where("user_id = ?", userID).
		Update("notifications", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Storage) UpdateLanguage(ctx context.Context, userID int64, lang string) error {
	res := s.db.WithContext(ctx).Model(&entity.User{}).
		Where("user_id = ?", userID).
		Update("language", lang)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UsersWithNotifications lists users that opted in to broadcasts.
func (s *Storage) UsersWithNotifications(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := s.db.WithContext(ctx).Where("notifications = ?", true).Find(&users).Error
	return users, err
}

// CreateProfile persists a registration. Fails with ErrAlreadyRegistered
// when a profile row already exists; registration must not overwrite one.
func (s *Storage) CreateProfile(ctx context.Context, profile *entity.UserProfile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.UserProfile
		err := tx.First(&existing, "user_id = ?", profile.UserID).Error
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(profile).Error
	})
}

func (s *Storage) GetProfile(ctx context.Context, userID int64) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if err != nil {
		return nil, findError(err)
	}
	return &profile, nil
}

// IsRegistered is the registration predicate: a profile row exists.
func (s *Storage) IsRegistered(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.UserProfile{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// Per-field profile updates. A closed set of named operations instead of
// update-by-field-name keeps the writes typed.

func (s *Storage) UpdateProfileName(ctx context.Context, userID int64, name string) error {
	return s.updateProfileColumn(ctx, userID, "name", name)
}

func (s *Storage) UpdateProfilePhone(ctx context.Context, userID int64, phone string) error {
	return s.updateProfileColumn(ctx, userID, "phone_number", phone)
}

func (s *Storage) UpdateProfileEmail(ctx context.Context, userID int64, email string) error {
	return s.updateProfileColumn(ctx, userID, "email", email)
}

func (s *Storage) UpdateProfileAge(ctx context.Context, userID int64, age int) error {
	return s.updateProfileColumn(ctx, userID, "age", age)
}

func (s *Storage) UpdateProfilePhoto(ctx context.Context, userID int64, photoID string) error {
	return s.updateProfileColumn(ctx, userID, "photo_id", photoID)
}

func (s *Storage) UpdateProfileLocation(ctx context.Context, userID int64, lat, lon float64) error {
	res := s.db.WithContext(ctx).Model(&entity.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"location_lat": lat, "location_lon": lon})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Storage) updateProfileColumn(ctx context.Context, userID int64, column string, value any) error {
	res := s.db.WithContext(ctx).Model(&entity.UserProfile{}).
		Where("user_id = ?", userID).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the user row; profile, cart, orders, favorites and
// reviews go with it through the cascades.
func (s *Storage) DeleteUser(ctx context.Context, userID int64) error {
	res := s.db.WithContext(ctx).Delete(&entity.User{}, "user_id = ?", userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
