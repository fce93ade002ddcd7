package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shopbot/entity"
	repository "shopbot/internal/database"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// sendOrders lists the user's orders, newest first.
func (b *UserBot) sendOrders(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if ctx.CallbackQuery != nil {
		ctx.CallbackQuery.Answer(bot, nil)
	}
	chatID := ctx.EffectiveChat.Id

	orders, err := b.orderService.History(context.Background(), ctx.EffectiveUser.Id)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		_, err := bot.SendMessage(chatID, "📋 You have no orders yet.", nil)
		return err
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{{
			Text: fmt.Sprintf("%s #%d — %s (%s)",
				statusEmoji(o.Status), o.OrderID, formatMoney(o.TotalAmount), o.Status),
			CallbackData: "order_" + strconv.FormatUint(uint64(o.OrderID), 10),
		}})
	}

	_, err = bot.SendMessage(chatID, "📋 <b>Your orders:</b>", &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	return err
}

// sendOrderDetails shows one order with its item snapshots. Only the
// order's owner can view it.
func (b *UserBot) sendOrderDetails(bot *tgbotapi.Bot, ctx *ext.Context, orderID uint) error {
	chatID := ctx.EffectiveChat.Id

	order, err := b.orderService.Order(context.Background(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, err := bot.SendMessage(chatID, "❌ Order not found.", nil)
			return err
		}
		return err
	}
	if order.UserID != ctx.EffectiveUser.Id {
		_, err := bot.SendMessage(chatID, "❌ Order not found.", nil)
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Order #%d</b> %s\n", order.OrderID, statusEmoji(order.Status)))
	sb.WriteString(fmt.Sprintf("Status: %s\n", order.Status))
	sb.WriteString(fmt.Sprintf("Placed: %s\n\n", order.CreatedAt.Format("02.01.2006 15:04")))

	for _, item := range order.Items {
		name := item.Product.Name
		if name == "" {
			name = fmt.Sprintf("product #%d", item.ProductID)
		}
		sb.WriteString(fmt.Sprintf("📦 %s x %d = %s\n", name, item.Quantity, formatMoney(item.Subtotal())))
	}

	sb.WriteString(fmt.Sprintf("\n💰 Total: %s\n", formatMoney(order.TotalAmount)))
	sb.WriteString(fmt.Sprintf("💳 Payment: %s\n", order.PaymentMethod))
	sb.WriteString(fmt.Sprintf("🚚 Delivery: %s\n", order.DeliveryMethod))
	if order.DeliveryAddress != "" {
		sb.WriteString(fmt.Sprintf("📍 Address: %s\n", order.DeliveryAddress))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	if order.Status == entity.OrderStatusCompleted {
		for _, item := range order.Items {
			name := item.Product.Name
			if name == "" {
				continue
			}
			rows = append(rows, []tgbotapi.InlineKeyboardButton{{
				Text:         "✍️ Review " + name,
				CallbackData: "review_" + strconv.FormatUint(uint64(item.ProductID), 10),
			}})
		}
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "⬅️ My orders", CallbackData: "show_orders"},
	})

	_, err = bot.SendMessage(chatID, sb.String(), &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	return err
}

// handleStarsHistory renders the user's Stars ledger.
func (b *UserBot) handleStarsHistory(bot *tgbotapi.Bot, ctx *ext.Context) error {
	chatID := ctx.EffectiveChat.Id

	history, err := b.orderService.StarsHistory(context.Background(), ctx.EffectiveUser.Id)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		_, err := bot.SendMessage(chatID, "⭐ No Stars transactions yet.", nil)
		return err
	}

	var sb strings.Builder
	sb.WriteString("⭐ <b>Your Stars history:</b>\n\n")
	for _, txn := range history {
		switch txn.Status {
		case entity.StarsStatusReturned:
			sb.WriteString(fmt.Sprintf("↩️ +%d ⭐ rebate on order #%d (%s)\n",
				txn.StarsAmount, txn.OrderID, txn.CreatedAt.Format("02.01.2006")))
		default:
			sb.WriteString(fmt.Sprintf("💫 -%d ⭐ for order #%d, %s (%s)\n",
				txn.StarsAmount, txn.OrderID, formatMoney(txn.AmountFiat), txn.CreatedAt.Format("02.01.2006")))
		}
	}

	_, err = bot.SendMessage(chatID, sb.String(), &tgbotapi.SendMessageOpts{ParseMode: "HTML"})
	return err
}

func statusEmoji(s entity.OrderStatus) string {
	switch s {
	case entity.OrderStatusPending:
		return "🕐"
	case entity.OrderStatusProcessing:
		return "⚙️"
	case entity.OrderStatusConfirmed:
		return "✅"
	case entity.OrderStatusDelivering:
		return "🚚"
	case entity.OrderStatusCompleted:
		return "🎉"
	case entity.OrderStatusCancelled:
		return "❌"
	}
	return "❔"
}
