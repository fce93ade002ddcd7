package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"shopbot/entity"
	"shopbot/internal/config"
	repository "shopbot/internal/database"
	"shopbot/internal/lib/sl"
)

// Repository defines the storage operations the order service needs.
type Repository interface {
	CreateOrder(ctx context.Context, userID int64, params repository.OrderParams) (*entity.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*entity.Order, error)
	UserOrders(ctx context.Context, userID int64) ([]entity.Order, error)
	OrderItems(ctx context.Context, orderID uint) ([]entity.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status entity.OrderStatus) error
	OrdersByStatus(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error)
	AddStarsTransaction(ctx context.Context, txn *entity.StarsTransaction) error
	StarsHistory(ctx context.Context, userID int64) ([]entity.StarsTransaction, error)
}

type Service struct {
	repository Repository
	conf       *config.Config
	log        *slog.Logger
}

func NewOrderService(repository Repository, conf *config.Config, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		conf:       conf,
		log:        logger.With(sl.Module("order-service")),
	}
}

// StarsPrice converts a fiat total into a Stars invoice amount. The total
// is divided by the configured rate and rounded up, then clamped to the
// configured minimum so the invoice is always accepted by Telegram.
func (s *Service) StarsPrice(total decimal.Decimal) int64 {
	rate := decimal.NewFromFloat(s.conf.Stars.Rate)
	stars := total.Div(rate).Ceil().IntPart()
	if stars < s.conf.Stars.MinAmount {
		stars = s.conf.Stars.MinAmount
	}
	return stars
}

// CheckoutCard creates a pending order paid by card transfer. The
// payment reference is the code the user quotes in the transfer; an
// admin confirms the payment later through the admin panel.
func (s *Service) CheckoutCard(ctx context.Context, userID int64, address string, delivery entity.DeliveryMethod, paymentRef string) (*entity.Order, error) {
	order, err := s.repository.CreateOrder(ctx, userID, repository.OrderParams{
		DeliveryAddress: address,
		DeliveryMethod:  delivery,
		PaymentMethod:   entity.PaymentCard,
		Status:          entity.OrderStatusPending,
		PaymentRef:      paymentRef,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("card order created",
		slog.Int64("user_id", userID),
		slog.Uint64("order_id", uint64(order.OrderID)),
		slog.String("total", order.TotalAmount.String()),
	)
	return order, nil
}

// CheckoutStars creates a completed order paid with Telegram Stars. The
// charge is refunded as a loyalty rebate right after payment, and both
// ledger rows are written with the order in one transaction.
func (s *Service) CheckoutStars(ctx context.Context, userID int64, address string, delivery entity.DeliveryMethod, starsAmount int64, chargeID string) (*entity.Order, error) {
	order, err := s.repository.CreateOrder(ctx, userID, repository.OrderParams{
		DeliveryAddress: address,
		DeliveryMethod:  delivery,
		PaymentMethod:   entity.PaymentStars,
		Status:          entity.OrderStatusCompleted,
		PaymentRef:      chargeID,
		Stars: &repository.StarsCharge{
			Amount:   starsAmount,
			ChargeID: chargeID,
		},
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stars order created",
		slog.Int64("user_id", userID),
		slog.Uint64("order_id", uint64(order.OrderID)),
		slog.Int64("stars", starsAmount),
	)
	return order, nil
}

// Order loads one order with its items.
func (s *Service) Order(ctx context.Context, orderID uint) (*entity.Order, error) {
	return s.repository.GetOrder(ctx, orderID)
}

// History lists the user's orders, newest first.
func (s *Service) History(ctx context.Context, userID int64) ([]entity.Order, error) {
	return s.repository.UserOrders(ctx, userID)
}

// Items returns the item snapshots of one order.
func (s *Service) Items(ctx context.Context, orderID uint) ([]entity.OrderItem, error) {
	return s.repository.OrderItems(ctx, orderID)
}

// PendingOrders lists orders awaiting admin action.
func (s *Service) PendingOrders(ctx context.Context) ([]entity.Order, error) {
	return s.repository.OrdersByStatus(ctx, entity.OrderStatusPending)
}

// SetStatus moves an order along the status state machine. Moves outside
// the allowed transition set are rejected.
func (s *Service) SetStatus(ctx context.Context, orderID uint, status entity.OrderStatus) error {
	order, err := s.repository.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.Status.CanTransition(status) {
		return fmt.Errorf("order %d: cannot move from %s to %s", orderID, order.Status, status)
	}

	if err := s.repository.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}

	s.log.Info("order status changed",
		slog.Uint64("order_id", uint64(orderID)),
		slog.String("from", string(order.Status)),
		slog.String("to", string(status)),
	)
	return nil
}

// StarsHistory returns the user's Stars ledger.
func (s *Service) StarsHistory(ctx context.Context, userID int64) ([]entity.StarsTransaction, error) {
	return s.repository.StarsHistory(ctx, userID)
}
