package checkout

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"shopbot/bot/workflow"
	"shopbot/entity"
	"shopbot/internal/config"
	cartservice "shopbot/internal/service/cart"
)

// Workflow ID
const (
	WorkflowID workflow.WorkflowID = "checkout"
)

// Step IDs
const (
	StepCheckCart      workflow.StepID = "check_cart"
	StepRequestAddress workflow.StepID = "request_address"
	StepSelectDelivery workflow.StepID = "select_delivery"
	StepSelectPayment  workflow.StepID = "select_payment"
	StepConfirm        workflow.StepID = "confirm"
)

// State data keys
const (
	KeyAddress    = "address"
	KeyDelivery   = "delivery"
	KeyPayment    = "payment"
	KeyTotal      = "total"
	KeyStars      = "stars"
	KeyAwaitStars = "await_stars"
)

// CartService provides the cart snapshot for checkout.
type CartService interface {
	GetSummary(ctx context.Context, userID int64) (cartservice.Summary, error)
}

// OrderService provides order creation and Stars pricing.
type OrderService interface {
	StarsPrice(total decimal.Decimal) int64
	CheckoutCard(ctx context.Context, userID int64, address string, delivery entity.DeliveryMethod, paymentRef string) (*entity.Order, error)
}

// CheckoutWorkflow walks the user from cart to a placed order.
type CheckoutWorkflow struct {
	steps        map[workflow.StepID]workflow.Step
	cartService  CartService
	orderService OrderService
	conf         *config.Config
	log          *slog.Logger
}

// NewCheckoutWorkflow creates a new checkout workflow.
func NewCheckoutWorkflow(cartService CartService, orderService OrderService, conf *config.Config, log *slog.Logger) *CheckoutWorkflow {
	w := &CheckoutWorkflow{
		steps:        make(map[workflow.StepID]workflow.Step),
		cartService:  cartService,
		orderService: orderService,
		conf:         conf,
		log:          log,
	}

	w.registerSteps()

	return w
}

// ID returns the workflow ID.
func (w *CheckoutWorkflow) ID() workflow.WorkflowID {
	return WorkflowID
}

// InitialStep returns the first step.
func (w *CheckoutWorkflow) InitialStep() workflow.StepID {
	return StepCheckCart
}

// GetStep returns a step by ID.
func (w *CheckoutWorkflow) GetStep(id workflow.StepID) (workflow.Step, bool) {
	step, ok := w.steps[id]
	return step, ok
}

// Steps returns all steps.
func (w *CheckoutWorkflow) Steps() []workflow.Step {
	steps := make([]workflow.Step, 0, len(w.steps))
	for _, step := range w.steps {
		steps = append(steps, step)
	}
	return steps
}

func (w *CheckoutWorkflow) registerSteps() {
	w.steps[StepCheckCart] = NewCheckCartStep(w.cartService)
	w.steps[StepRequestAddress] = NewRequestAddressStep()
	w.steps[StepSelectDelivery] = NewSelectDeliveryStep()
	w.steps[StepSelectPayment] = NewSelectPaymentStep()
	w.steps[StepConfirm] = NewConfirmStep(w.cartService, w.orderService, w.conf)
}
