package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shopbot/entity"
)

// ToggleFavorite flips the favorite mark on a product for the user and
// reports the resulting state: true when the product is now a favorite.
func (s *Storage) ToggleFavorite(ctx context.Context, userID int64, productID uint) (bool, error) {
	var favored bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fav entity.Favorite
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			First(&fav).Error
		switch {
		case err == nil:
			favored = false
			return tx.Delete(&fav).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			favored = true
			return tx.Create(&entity.Favorite{
				UserID:    userID,
				ProductID: productID,
			}).Error
		default:
			return err
		}
	})
	return favored, err
}

// IsFavorite reports whether the user marked the product as favorite.
func (s *Storage) IsFavorite(ctx context.Context, userID int64, productID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entity.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// UserFavorites lists the user's favorite products.
func (s *Storage) UserFavorites(ctx context.Context, userID int64) ([]entity.Product, error) {
	var products []entity.Product
	err := s.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.product_id = products.product_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.id").
		Find(&products).Error
	return products, err
}

// AddReview stores a product review. The rating must be within the
// 1..5 scale.
func (s *Storage) AddReview(ctx context.Context, review *entity.Review) error {
	if !entity.ValidRating(review.Rating) {
		return fmt.Errorf("%w: %d", ErrInvalidRating, review.Rating)
	}
	return s.db.WithContext(ctx).Create(review).Error
}

// ProductReviews lists reviews for one product, newest first.
func (s *Storage) ProductReviews(ctx context.Context, productID uint) ([]entity.Review, error) {
	var reviews []entity.Review
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		Find(&reviews).Error
	return reviews, err
}

// AverageRating returns the mean rating of a product, zero when it has
// no reviews yet.
func (s *Storage) AverageRating(ctx context.Context, productID uint) (float64, error) {
	var avg *float64
	err := s.db.WithContext(ctx).
		Model(&entity.Review{}).
		Select("AVG(rating)").
		Where("product_id = ?", productID).
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
