package bot

import (
	"context"
	"fmt"
	"log/slog"

	"shopbot/bot/workflows/checkout"
	"shopbot/entity"
	"shopbot/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// handlePreCheckout approves every pre-checkout query. Stock was already
// reserved when the invoice was built and is re-checked at order
// creation, so there is nothing to reject here.
func (b *UserBot) handlePreCheckout(bot *tgbotapi.Bot, ctx *ext.Context) error {
	_, err := ctx.PreCheckoutQuery.Answer(bot, true, nil)
	return err
}

// handleSuccessfulPayment finalizes a Stars checkout. The charge is
// refunded right away as the loyalty rebate, then the order is created
// from the checkout state that was parked awaiting this update.
func (b *UserBot) handleSuccessfulPayment(bot *tgbotapi.Bot, ctx *ext.Context) error {
	userID := ctx.EffectiveUser.Id
	chatID := ctx.EffectiveChat.Id
	payment := ctx.EffectiveMessage.SuccessfulPayment

	b.log.Info("stars payment received",
		slog.Int64("user_id", userID),
		slog.Int64("amount", payment.TotalAmount),
		slog.String("charge_id", payment.TelegramPaymentChargeId),
	)

	if _, err := bot.RefundStarPayment(userID, payment.TelegramPaymentChargeId, nil); err != nil {
		b.log.Error("refunding star payment", slog.Int64("user_id", userID), sl.Err(err))
	}

	state, err := b.workflowEngine.GetState(context.Background(), userID)
	if err != nil {
		b.log.Error("loading checkout state", slog.Int64("user_id", userID), sl.Err(err))
		return err
	}
	if state == nil || state.WorkflowID != checkout.WorkflowID || !state.GetBool(checkout.KeyAwaitStars) {
		b.log.Warn("payment without awaiting checkout", slog.Int64("user_id", userID))
		_, err := bot.SendMessage(chatID, "⭐ Payment received, but the checkout dialog was lost. Your Stars were refunded.", nil)
		return err
	}

	delivery, _ := entity.ParseDeliveryMethod(state.GetString(checkout.KeyDelivery))
	address := state.GetString(checkout.KeyAddress)
	stars := payment.TotalAmount

	order, err := b.orderService.CheckoutStars(context.Background(), userID, address, delivery, stars, payment.TelegramPaymentChargeId)
	if err != nil {
		b.log.Error("stars checkout", slog.Int64("user_id", userID), sl.Err(err))
		_, serr := bot.SendMessage(chatID, "❌ Could not finalize the order. Your Stars were refunded, please try again.", nil)
		if serr != nil {
			return serr
		}
		return b.workflowEngine.ClearState(context.Background(), userID)
	}

	if err := b.workflowEngine.ClearState(context.Background(), userID); err != nil {
		b.log.Error("clearing checkout state", slog.Int64("user_id", userID), sl.Err(err))
	}

	rebate := order.TotalAmount.IntPart()
	text := fmt.Sprintf(
		"🎉 <b>Order #%d is paid!</b>\n\n"+
			"⭐ Charged: %d Stars\n"+
			"↩️ Rebate: %d Stars returned to you\n\n"+
			"Track it in 📋 My orders.",
		order.OrderID, stars, rebate)
	if _, err := bot.SendMessage(chatID, text, &tgbotapi.SendMessageOpts{ParseMode: "HTML"}); err != nil {
		return err
	}

	if b.conf.Stars.ChannelId != 0 {
		notice := fmt.Sprintf("⭐ New Stars order #%d from %d: %s (%d Stars)",
			order.OrderID, userID, formatMoney(order.TotalAmount), stars)
		if _, err := bot.SendMessage(b.conf.Stars.ChannelId, notice, nil); err != nil {
			b.log.Error("notifying stars channel", sl.Err(err))
		}
	}

	return nil
}
