package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopbot/entity"
)

// OrderParams carries the checkout details collected by the order workflow.
type OrderParams struct {
	DeliveryAddress string
	DeliveryMethod  entity.DeliveryMethod
	PaymentMethod   entity.PaymentMethod
	Status          entity.OrderStatus
	PaymentRef      string
	Stars           *StarsCharge
}

// StarsCharge records the Telegram Stars side of a paid order so the
// ledger rows land in the same transaction as the order itself.
type StarsCharge struct {
	Amount   int64
	ChargeID string
}

// CreateOrder turns the user's cart into an order atomically. Stock is
// decremented with a guarded update so two concurrent checkouts can never
// oversell a product. On success the cart is cleared and, for Stars
// payments, the ledger rows are written. Any failure rolls the whole
// thing back.
func (s *Storage) CreateOrder(ctx context.Context, userID int64, params OrderParams) (*entity.Order, error) {
	var order *entity.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []entity.CartLine
		if err := tx.Preload("Product").
			Where("user_id = ?", userID).
			Order("cart_id").
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		items := make([]entity.OrderItem, 0, len(lines))
		for _, line := range lines {
			res := tx.Model(&entity.Product{}).
				Where("product_id = ? AND quantity >= ?", line.ProductID, line.Quantity).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: product %d", ErrInsufficientStock, line.ProductID)
			}

			items = append(items, entity.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price,
			})
			total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		status := params.Status
		if status == "" {
			status = entity.OrderStatusPending
		}

		order = &entity.Order{
			UserID:          userID,
			Status:          status,
			TotalAmount:     total,
			PaymentMethod:   params.PaymentMethod,
			DeliveryMethod:  params.DeliveryMethod,
			DeliveryAddress: params.DeliveryAddress,
			PaymentRef:      params.PaymentRef,
			Items:           items,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).
			Delete(&entity.CartLine{}).Error; err != nil {
			return err
		}

		if params.Stars != nil {
			rows := []entity.StarsTransaction{
				{
					OrderID:     order.OrderID,
					UserID:      userID,
					StarsAmount: params.Stars.Amount,
					AmountFiat:  total,
					Status:      entity.StarsStatusCompleted,
					ChargeID:    params.Stars.ChargeID,
				},
				{
					// Loyalty rebate credited after the refund, one Star
					// per whole unit of the order total.
					OrderID:     order.OrderID,
					UserID:      userID,
					StarsAmount: total.IntPart(),
					AmountFiat:  total,
					Status:      entity.StarsStatusReturned,
					ChargeID:    params.Stars.ChargeID,
				},
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder loads one order with its items and their products.
func (s *Storage) GetOrder(ctx context.Context, orderID uint) (*entity.Order, error) {
	var order entity.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, "order_id = ?", orderID).Error
	if err != nil {
		return nil, findError(err)
	}
	return &order, nil
}

// UserOrders lists the user's orders, newest first.
func (s *Storage) UserOrders(ctx context.Context, userID int64) ([]entity.Order, error) {
	var orders []entity.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_id DESC").
		Find(&orders).Error
	return orders, err
}

// OrderItems returns the item snapshots of one order with products preloaded.
func (s *Storage) OrderItems(ctx context.Context, orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("order_id = ?", orderID).
		Order("id").
		Find(&items).Error
	return items, err
}

// UpdateOrderStatus moves an order to a new status.
func (s *Storage) UpdateOrderStatus(ctx context.Context, orderID uint, status entity.OrderStatus) error {
	res := s.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("order_id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// OrdersByStatus lists orders in one status across all users, oldest first.
// Used by the admin panel to work through the pending queue.
func (s *Storage) OrdersByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error) {
	var orders []entity.Order
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("order_id").
		Find(&orders).Error
	return orders, err
}
