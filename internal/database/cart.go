package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shopbot/entity"
)

// UpsertCartLine adds a product to the user's cart or replaces the quantity
// of an existing line. Re-adding does not accumulate. The quantity is
// checked against current stock inside the same transaction.
func (s *Storage) UpsertCartLine(ctx context.Context, userID int64, productID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInsufficientStock)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product entity.Product
		if err := tx.First(&product, "product_id = ?", productID).Error; err != nil {
			return findError(err)
		}
		if quantity > product.Quantity {
			return fmt.Errorf("%w: available %d, requested %d",
				ErrInsufficientStock, product.Quantity, quantity)
		}

		var line entity.CartLine
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			First(&line).Error
		switch {
		case err == nil:
			return tx.Model(&line).Update("quantity", quantity).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&entity.CartLine{
				UserID:    userID,
				ProductID: productID,
				Quantity:  quantity,
			}).Error
		default:
			return err
		}
	})
}

// GetCart returns the user's cart lines in insertion order with products
// preloaded. An empty cart is an empty slice, not an error.
func (s *Storage) GetCart(ctx context.Context, userID int64) ([]entity.CartLine, error) {
	var lines []entity.CartLine
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("cart_id").
		Find(&lines).Error
	return lines, err
}

// CartLineQuantity returns the quantity of one line, zero when absent.
func (s *Storage) CartLineQuantity(ctx context.Context, userID int64, productID uint) (int, error) {
	var line entity.CartLine
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return line.Quantity, nil
}

// RemoveCartLine deletes one line. Removing a line that does not exist is
// not an error.
func (s *Storage) RemoveCartLine(ctx context.Context, userID int64, productID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&entity.CartLine{}).Error
}

// ClearCart removes every line for the user. Idempotent.
func (s *Storage) ClearCart(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.CartLine{}).Error
}
