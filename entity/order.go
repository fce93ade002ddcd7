package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPickup  DeliveryMethod = "pickup"
)

type PaymentMethod string

const (
	PaymentCard  PaymentMethod = "card"
	PaymentStars PaymentMethod = "stars"
)

// orderTransitions is the closed set of allowed status moves. Terminal
// statuses have no outgoing edges.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusDelivering: {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransition reports whether an order may move from its current
// status to the target.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses the order may move to from the
// current one.
func (s OrderStatus) NextStatuses() []OrderStatus {
	return orderTransitions[s]
}

// IsTerminal reports whether the status admits no further moves.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// ParseOrderStatus validates a status token.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusConfirmed,
		OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// ParseDeliveryMethod validates a delivery method token.
func ParseDeliveryMethod(s string) (DeliveryMethod, bool) {
	switch DeliveryMethod(s) {
	case DeliveryCourier, DeliveryPickup:
		return DeliveryMethod(s), true
	}
	return "", false
}

// ParsePaymentMethod validates a payment method token.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentCard, PaymentStars:
		return PaymentMethod(s), true
	}
	return "", false
}

// Order is created at checkout confirmation. TotalAmount is the sum of the
// item price snapshots at creation time and never recomputed.
type Order struct {
	OrderID         uint            `gorm:"primaryKey" json:"order_id"`
	UserID          int64           `gorm:"index;not null" json:"user_id"`
	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_amount"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20)" json:"payment_method"`
	DeliveryMethod  DeliveryMethod  `gorm:"type:varchar(20)" json:"delivery_method"`
	DeliveryAddress string          `json:"delivery_address"`
	PaymentRef      string          `json:"payment_ref"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots the unit price at order time so later product price
// changes do not alter historical orders.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (OrderItem) TableName() string { return "order_items" }

// Subtotal is quantity times the snapshot price.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
