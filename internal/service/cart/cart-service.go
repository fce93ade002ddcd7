package cart

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"shopbot/entity"
	"shopbot/internal/lib/sl"
)

// Repository defines the storage operations the cart service needs.
type Repository interface {
	GetProduct(ctx context.Context, productID uint) (*entity.Product, error)
	UpsertCartLine(ctx context.Context, userID int64, productID uint, quantity int) error
	GetCart(ctx context.Context, userID int64) ([]entity.CartLine, error)
	CartLineQuantity(ctx context.Context, userID int64, productID uint) (int, error)
	RemoveCartLine(ctx context.Context, userID int64, productID uint) error
	ClearCart(ctx context.Context, userID int64) error
}

// Summary is a cart snapshot with the computed total.
type Summary struct {
	Lines []entity.CartLine
	Total decimal.Decimal
}

// IsEmpty reports whether the cart has no lines.
func (s Summary) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Count returns the total number of units across all lines.
func (s Summary) Count() int {
	n := 0
	for _, line := range s.Lines {
		n += line.Quantity
	}
	return n
}

type Service struct {
	repository Repository
	log        *slog.Logger
}

func NewCartService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		log:        logger.With(sl.Module("cart-service")),
	}
}

// AddProduct puts the product in the user's cart with the given quantity.
// Adding a product that is already in the cart replaces the stored
// quantity instead of accumulating.
func (s *Service) AddProduct(ctx context.Context, userID int64, productID uint, quantity int) error {
	if err := s.repository.UpsertCartLine(ctx, userID, productID, quantity); err != nil {
		return err
	}
	s.log.Debug("cart line set",
		slog.Int64("user_id", userID),
		slog.Uint64("product_id", uint64(productID)),
		slog.Int("quantity", quantity),
	)
	return nil
}

// Quantity returns the stored quantity for one product, zero when the
// product is not in the cart.
func (s *Service) Quantity(ctx context.Context, userID int64, productID uint) (int, error) {
	return s.repository.CartLineQuantity(ctx, userID, productID)
}

// RemoveProduct drops a product from the cart. Removing an absent
// product is a no-op.
func (s *Service) RemoveProduct(ctx context.Context, userID int64, productID uint) error {
	return s.repository.RemoveCartLine(ctx, userID, productID)
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.repository.ClearCart(ctx, userID)
}

// GetSummary loads the cart and computes the total from current product
// prices. Order items snapshot the price at checkout; until then the cart
// always shows live prices.
func (s *Service) GetSummary(ctx context.Context, userID int64) (Summary, error) {
	lines, err := s.repository.GetCart(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}

	return Summary{Lines: lines, Total: total}, nil
}
