package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"shopbot/entity"
)

func (s *Storage) AddCategory(ctx context.Context, category *entity.Category) error {
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("creating category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category; its products and their cart lines are
// removed by the cascade chain.
func (s *Storage) DeleteCategory(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Storage) GetCategory(ctx context.Context, id uint) (*entity.Category, error) {
	var category entity.Category
	err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		return nil, findError(err)
	}
	return &category, nil
}

func (s *Storage) GetCategories(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (s *Storage) AddProduct(ctx context.Context, product *entity.Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("creating product: %w", err)
	}
	return nil
}

func (s *Storage) GetProduct(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	err := s.db.WithContext(ctx).First(&product, "product_id = ?", id).Error
	if err != nil {
		return nil, findError(err)
	}
	return &product, nil
}

func (s *Storage) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&entity.Product{}, "product_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Storage) ProductsByCategory(ctx context.Context, categoryID uint) ([]entity.Product, error) {
	var products []entity.Product
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name").
		Find(&products).Error
	return products, err
}

// SearchProducts matches the query against product names and descriptions.
func (s *Storage) SearchProducts(ctx context.Context, query string) ([]entity.Product, error) {
	var products []entity.Product
	pattern := "%" + query + "%"
	err := s.db.WithContext(ctx).
		Where("name LIKE ? OR description LIKE ?", pattern, pattern).
		Order("name").
		Find(&products).Error
	return products, err
}

// Product sort orders for the catalog filter screen.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
	SortRating    = "rating"
)

// ProductsSorted lists a category's products in the requested order.
// Rating order is computed from reviews on demand.
func (s *Storage) ProductsSorted(ctx context.Context, categoryID uint, sortBy string) ([]entity.Product, error) {
	db := s.db.WithContext(ctx).Where("products.category_id = ?", categoryID)
	var products []entity.Product

	switch sortBy {
	case SortPriceAsc:
		db = db.Order("price")
	case SortPriceDesc:
		db = db.Order("price DESC")
	case SortRating:
		db = db.
			Joins("LEFT JOIN reviews ON reviews.product_id = products.product_id").
			Group("products.product_id").
			Order("COALESCE(AVG(reviews.rating), 0) DESC")
	default:
		db = db.Order("name")
	}

	err := db.Find(&products).Error
	return products, err
}

// Per-field product updates, mirroring the profile update set.

func (s *Storage) UpdateProductName(ctx context.Context, id uint, name string) error {
	return s.updateProductColumn(ctx, id, "name", name)
}

func (s *Storage) UpdateProductDescription(ctx context.Context, id uint, description string) error {
	return s.updateProductColumn(ctx, id, "description", description)
}

func (s *Storage) UpdateProductPrice(ctx context.Context, id uint, price decimal.Decimal) error {
	return s.updateProductColumn(ctx, id, "price", price)
}

func (s *Storage) UpdateProductQuantity(ctx context.Context, id uint, quantity int) error {
	if quantity < 0 {
		return ErrInsufficientStock
	}
	return s.updateProductColumn(ctx, id, "quantity", quantity)
}

func (s *Storage) UpdateProductPhoto(ctx context.Context, id uint, photoID string) error {
	return s.updateProductColumn(ctx, id, "photo_id", photoID)
}

func (s *Storage) UpdateProductCategory(ctx context.Context, id, categoryID uint) error {
	return s.updateProductColumn(ctx, id, "category_id", categoryID)
}

func (s *Storage) updateProductColumn(ctx context.Context, id uint, column string, value any) error {
	res := s.db.WithContext(ctx).Model(&entity.Product{}).
		Where("product_id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
