package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"shopbot/bot/workflow"
	"shopbot/bot/workflows/checkout"
	"shopbot/bot/workflows/profileedit"
	"shopbot/bot/workflows/review"
	"shopbot/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// handleCallback routes the storefront callbacks that live outside
// workflows: catalog navigation, cart edits, favorites, orders and
// settings.
func (b *UserBot) handleCallback(bot *tgbotapi.Bot, ctx *ext.Context) error {
	data := ctx.CallbackQuery.Data
	userID := ctx.EffectiveUser.Id
	chatID := ctx.EffectiveChat.Id

	var err error
	switch {
	case data == "show_menu":
		ctx.CallbackQuery.Answer(bot, nil)
		err = b.sendMainMenu(bot, chatID)
	case data == "show_catalog":
		err = b.sendCatalogRoot(bot, ctx)
	case data == "show_cart":
		err = b.sendCart(bot, ctx)
	case data == "show_favorites":
		err = b.sendFavorites(bot, ctx)
	case data == "show_orders":
		err = b.sendOrders(bot, ctx)
	case data == "show_settings":
		err = b.sendSettings(bot, ctx)
	case data == "show_profile":
		ctx.CallbackQuery.Answer(bot, nil)
		err = b.workflowEngine.StartWorkflow(context.Background(), bot, userID, chatID, profileedit.WorkflowID, nil)

	case data == "checkout":
		ctx.CallbackQuery.Answer(bot, nil)
		err = b.workflowEngine.StartWorkflow(context.Background(), bot, userID, chatID, checkout.WorkflowID, nil)

	case data == "cart_clear":
		err = b.clearCart(bot, ctx)

	case strings.HasPrefix(data, "category_"):
		if id, ok := parseID(strings.TrimPrefix(data, "category_")); ok {
			ctx.CallbackQuery.Answer(bot, nil)
			err = b.sendCategoryListing(bot, chatID, userID, id, "")
		}

	case strings.HasPrefix(data, "sort_"):
		parts := strings.SplitN(strings.TrimPrefix(data, "sort_"), "_", 2)
		if len(parts) == 2 {
			if id, ok := parseID(parts[0]); ok {
				ctx.CallbackQuery.Answer(bot, nil)
				err = b.sendCategoryListing(bot, chatID, userID, id, parts[1])
			}
		}

	case strings.HasPrefix(data, "product_"):
		if id, ok := parseID(strings.TrimPrefix(data, "product_")); ok {
			ctx.CallbackQuery.Answer(bot, nil)
			err = b.sendProductCard(bot, ctx, id)
		}

	case strings.HasPrefix(data, "cart_add_"):
		err = b.addToCart(bot, ctx, strings.TrimPrefix(data, "cart_add_"))

	case strings.HasPrefix(data, "cart_inc_"):
		if id, ok := parseID(strings.TrimPrefix(data, "cart_inc_")); ok {
			err = b.adjustCartLine(bot, ctx, id, 1)
		}

	case strings.HasPrefix(data, "cart_dec_"):
		if id, ok := parseID(strings.TrimPrefix(data, "cart_dec_")); ok {
			err = b.adjustCartLine(bot, ctx, id, -1)
		}

	case strings.HasPrefix(data, "cart_del_"):
		if id, ok := parseID(strings.TrimPrefix(data, "cart_del_")); ok {
			err = b.removeFromCart(bot, ctx, id)
		}

	case strings.HasPrefix(data, "fav_"):
		if id, ok := parseID(strings.TrimPrefix(data, "fav_")); ok {
			err = b.toggleFavorite(bot, ctx, id)
		}

	case strings.HasPrefix(data, "review_"):
		if id, ok := parseID(strings.TrimPrefix(data, "review_")); ok {
			ctx.CallbackQuery.Answer(bot, nil)
			err = b.workflowEngine.StartWorkflow(context.Background(), bot, userID, chatID, review.WorkflowID,
				&workflow.DeepLinkData{Type: workflow.DeepLinkTypeProduct, Code: strconv.FormatUint(uint64(id), 10)})
		}

	case strings.HasPrefix(data, "order_"):
		if id, ok := parseID(strings.TrimPrefix(data, "order_")); ok {
			ctx.CallbackQuery.Answer(bot, nil)
			err = b.sendOrderDetails(bot, ctx, id)
		}

	case strings.HasPrefix(data, "lang_"):
		err = b.setLanguage(bot, ctx, strings.TrimPrefix(data, "lang_"))

	case strings.HasPrefix(data, "notif_"):
		err = b.setNotifications(bot, ctx, strings.TrimPrefix(data, "notif_") == "on")

	default:
		ctx.CallbackQuery.Answer(bot, nil)
	}

	if err != nil {
		b.log.Error("callback error",
			slog.Int64("user_id", userID),
			slog.String("data", data),
			sl.Err(err),
		)
	}
	return err
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
