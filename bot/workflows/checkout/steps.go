package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shopbot/bot/workflow"
	"shopbot/bot/workflow/ui"
	"shopbot/entity"
	"shopbot/internal/config"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// BaseStep provides common functionality for all steps.
type BaseStep struct {
	id workflow.StepID
}

func (s *BaseStep) ID() workflow.StepID {
	return s.id
}

func (s *BaseStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandleContact(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandleLocation(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

func (s *BaseStep) HandlePhoto(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	return workflow.StepResult{}
}

// CheckCartStep - Refuse checkout on an empty cart
type CheckCartStep struct {
	BaseStep
	cartService CartService
}

func NewCheckCartStep(cartService CartService) *CheckCartStep {
	return &CheckCartStep{
		BaseStep:    BaseStep{id: StepCheckCart},
		cartService: cartService,
	}
}

func (s *CheckCartStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	summary, err := s.cartService.GetSummary(ctx, state.UserID)
	if err != nil {
		return workflow.StepResult{Error: err}
	}

	if summary.IsEmpty() {
		b.SendMessage(state.ChatID, "🛒 Your cart is empty. Add something from /catalog first.", nil)
		return workflow.StepResult{Complete: true}
	}

	var sb strings.Builder
	sb.WriteString("<b>Your order:</b>\n\n")
	for _, line := range summary.Lines {
		sb.WriteString(fmt.Sprintf("📦 %s x %d = %s\n",
			line.Product.Name, line.Quantity, line.Subtotal().StringFixed(2)))
	}
	sb.WriteString(fmt.Sprintf("\n💰 Total: %s", summary.Total.StringFixed(2)))

	_, err = b.SendMessage(state.ChatID, sb.String(), &tgbotapi.SendMessageOpts{
		ParseMode: "HTML",
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}

	return workflow.StepResult{
		NextStep:    StepRequestAddress,
		UpdateState: map[string]any{KeyTotal: summary.Total.String()},
	}
}

// RequestAddressStep - Collect the delivery address
type RequestAddressStep struct {
	BaseStep
}

func NewRequestAddressStep() *RequestAddressStep {
	return &RequestAddressStep{BaseStep: BaseStep{id: StepRequestAddress}}
}

func (s *RequestAddressStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	_, err := b.SendMessage(state.ChatID, "🏠 Enter the delivery address:", nil)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *RequestAddressStep) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState) workflow.StepResult {
	address := strings.TrimSpace(c.EffectiveMessage.Text)
	if len([]rune(address)) < 5 {
		b.SendMessage(state.ChatID, "❌ The address looks too short. Please enter the full address.", nil)
		return workflow.StepResult{}
	}

	return workflow.StepResult{
		NextStep:    StepSelectDelivery,
		UpdateState: map[string]any{KeyAddress: address},
	}
}

// SelectDeliveryStep - Choose courier or pickup
type SelectDeliveryStep struct {
	BaseStep
}

func NewSelectDeliveryStep() *SelectDeliveryStep {
	return &SelectDeliveryStep{BaseStep: BaseStep{id: StepSelectDelivery}}
}

func (s *SelectDeliveryStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	keyboard := ui.SelectionKeyboard([]ui.SelectableItem{
		{ID: string(entity.DeliveryCourier), Text: "🚚 Courier"},
		{ID: string(entity.DeliveryPickup), Text: "🏬 Pickup"},
	})
	_, err := b.SendMessage(state.ChatID, "Choose a delivery method:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *SelectDeliveryStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return workflow.StepResult{}
	}

	method, ok := entity.ParseDeliveryMethod(cb.SelectedID())
	if !ok {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return workflow.StepResult{
		NextStep:    StepSelectPayment,
		UpdateState: map[string]any{KeyDelivery: string(method)},
	}
}

// SelectPaymentStep - Choose card transfer or Telegram Stars
type SelectPaymentStep struct {
	BaseStep
}

func NewSelectPaymentStep() *SelectPaymentStep {
	return &SelectPaymentStep{BaseStep: BaseStep{id: StepSelectPayment}}
}

func (s *SelectPaymentStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	keyboard := ui.SelectionKeyboard([]ui.SelectableItem{
		{ID: string(entity.PaymentCard), Text: "💳 Card transfer"},
		{ID: string(entity.PaymentStars), Text: "⭐ Telegram Stars"},
	})
	_, err := b.SendMessage(state.ChatID, "Choose a payment method:", &tgbotapi.SendMessageOpts{
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *SelectPaymentStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil || !cb.IsSelect() {
		return workflow.StepResult{}
	}

	method, ok := entity.ParsePaymentMethod(cb.SelectedID())
	if !ok {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	return workflow.StepResult{
		NextStep:    StepConfirm,
		UpdateState: map[string]any{KeyPayment: string(method)},
	}
}

// ConfirmStep - Final review, then place the order or send the invoice
type ConfirmStep struct {
	BaseStep
	cartService  CartService
	orderService OrderService
	conf         *config.Config
}

func NewConfirmStep(cartService CartService, orderService OrderService, conf *config.Config) *ConfirmStep {
	return &ConfirmStep{
		BaseStep:     BaseStep{id: StepConfirm},
		cartService:  cartService,
		orderService: orderService,
		conf:         conf,
	}
}

func (s *ConfirmStep) Enter(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	summary, err := s.cartService.GetSummary(ctx, state.UserID)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	if summary.IsEmpty() {
		b.SendMessage(state.ChatID, "🛒 Your cart is empty now. Checkout cancelled.", nil)
		return workflow.StepResult{Complete: true}
	}

	var sb strings.Builder
	sb.WriteString("<b>Confirm your order:</b>\n\n")
	for _, line := range summary.Lines {
		sb.WriteString(fmt.Sprintf("📦 %s x %d\n", line.Product.Name, line.Quantity))
	}
	sb.WriteString(fmt.Sprintf("\n💰 Total: %s\n", summary.Total.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("🏠 Address: %s\n", state.GetString(KeyAddress)))
	sb.WriteString(fmt.Sprintf("🚚 Delivery: %s\n", state.GetString(KeyDelivery)))
	sb.WriteString(fmt.Sprintf("💳 Payment: %s\n", state.GetString(KeyPayment)))

	_, err = b.SendMessage(state.ChatID, sb.String(), &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: ui.ConfirmCancelKeyboard("✅ Place order", "❌ Cancel"),
	})
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	return workflow.StepResult{}
}

func (s *ConfirmStep) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, state *workflow.UserState, data string) workflow.StepResult {
	cb := workflow.ParseCallback(data)
	if cb == nil {
		return workflow.StepResult{}
	}
	c.CallbackQuery.Answer(b, nil)

	switch {
	case cb.IsCancel():
		b.SendMessage(state.ChatID, "Checkout cancelled. Your cart is untouched.", nil)
		return workflow.StepResult{Complete: true}

	case cb.IsConfirm():
		payment, _ := entity.ParsePaymentMethod(state.GetString(KeyPayment))
		switch payment {
		case entity.PaymentStars:
			return s.sendStarsInvoice(ctx, b, state)
		default:
			return s.placeCardOrder(ctx, b, state)
		}
	}

	return workflow.StepResult{}
}

// placeCardOrder creates a pending order and sends the transfer
// instructions with the reference code an admin matches later.
func (s *ConfirmStep) placeCardOrder(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	delivery, _ := entity.ParseDeliveryMethod(state.GetString(KeyDelivery))
	ref := uuid.NewString()[:8]

	order, err := s.orderService.CheckoutCard(ctx, state.UserID, state.GetString(KeyAddress), delivery, ref)
	if err != nil {
		b.SendMessage(state.ChatID, "❌ Could not place the order: some items may be out of stock.", nil)
		return workflow.StepResult{Complete: true, Error: err}
	}

	msg := fmt.Sprintf(
		"💳 <b>Card transfer</b>\n\n"+
			"Amount due: %s\n\n"+
			"Transfer the amount:\n"+
			"💳 To card: %s\n"+
			"📱 Or by phone: %s\n\n"+
			"❗️ Include this code in the transfer comment: <code>%s</code>\n\n"+
			"🆔 Order #%d is pending until an admin confirms the payment.",
		order.TotalAmount.StringFixed(2),
		s.conf.Payment.CardNumber,
		s.conf.Payment.Phone,
		ref,
		order.OrderID,
	)
	b.SendMessage(state.ChatID, msg, &tgbotapi.SendMessageOpts{ParseMode: "HTML"})
	return workflow.StepResult{Complete: true}
}

// sendStarsInvoice issues the XTR invoice. The workflow stays alive until
// the successful payment update arrives and finishes the order.
func (s *ConfirmStep) sendStarsInvoice(ctx context.Context, b *tgbotapi.Bot, state *workflow.UserState) workflow.StepResult {
	summary, err := s.cartService.GetSummary(ctx, state.UserID)
	if err != nil {
		return workflow.StepResult{Error: err}
	}
	if summary.IsEmpty() {
		b.SendMessage(state.ChatID, "🛒 Your cart is empty now. Checkout cancelled.", nil)
		return workflow.StepResult{Complete: true}
	}

	stars := s.orderService.StarsPrice(summary.Total)

	var items []string
	for _, line := range summary.Lines {
		items = append(items, fmt.Sprintf("📦 %s x %d", line.Product.Name, line.Quantity))
	}

	_, err = b.SendInvoice(state.ChatID,
		"Order payment",
		"Items:\n"+strings.Join(items, "\n"),
		"stars_payment",
		"XTR",
		[]tgbotapi.LabeledPrice{{Label: "Order total", Amount: stars}},
		&tgbotapi.SendInvoiceOpts{
			StartParameter: "stars_payment",
			ProtectContent: true,
		},
	)
	if err != nil {
		return workflow.StepResult{Error: err}
	}

	// Wait in this step for the payment update
	return workflow.StepResult{
		UpdateState: map[string]any{
			KeyStars:      stars,
			KeyAwaitStars: true,
		},
	}
}
