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

// handleCatalog shows the category list.
func (b *UserBot) handleCatalog(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return b.sendCatalogRoot(bot, ctx)
}

// handleSearch searches products by name and description.
func (b *UserBot) handleSearch(bot *tgbotapi.Bot, ctx *ext.Context) error {
	chatID := ctx.EffectiveChat.Id

	query := strings.TrimSpace(strings.TrimPrefix(ctx.EffectiveMessage.Text, "/search"))
	if query == "" {
		_, err := bot.SendMessage(chatID, "🔍 Usage: /search <what you are looking for>", nil)
		return err
	}

	products, err := b.catalog.SearchProducts(context.Background(), query)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		_, err := bot.SendMessage(chatID, fmt.Sprintf("🔍 Nothing found for «%s».", query), nil)
		return err
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(products))
	for _, p := range products {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%s — %s", p.Name, formatMoney(p.Price)),
			CallbackData: "product_" + strconv.FormatUint(uint64(p.ProductID), 10),
		}})
	}

	_, err = bot.SendMessage(chatID, fmt.Sprintf("🔍 Results for «%s»:", query), &tgbotapi.SendMessageOpts{
		ReplyMarkup: tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	return err
}

// sendCatalogRoot lists categories as buttons.
func (b *UserBot) sendCatalogRoot(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if ctx.CallbackQuery != nil {
		ctx.CallbackQuery.Answer(bot, nil)
	}
	chatID := ctx.EffectiveChat.Id

	categories, err := b.catalog.GetCategories(context.Background())
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		_, err := bot.SendMessage(chatID, "🛍 The catalog is empty for now. Check back later!", nil)
		return err
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{{
			Text:         cat.Name,
			CallbackData: "category_" + strconv.FormatUint(uint64(cat.ID), 10),
		}})
	}

	_, err = bot.SendMessage(chatID, "🛍 <b>Catalog</b>\nChoose a category:", &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	return err
}

// sendCategoryListing lists the products of one category with a sort row.
func (b *UserBot) sendCategoryListing(bot *tgbotapi.Bot, chatID, userID int64, categoryID uint, sort string) error {
	category, err := b.catalog.GetCategory(context.Background(), categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, err := bot.SendMessage(chatID, "❌ This category no longer exists.", nil)
			return err
		}
		return err
	}

	var products []entity.Product
	if sort == "" {
		products, err = b.catalog.ProductsByCategory(context.Background(), categoryID)
	} else {
		products, err = b.catalog.ProductsSorted(context.Background(), categoryID, sort)
	}
	if err != nil {
		return err
	}

	if len(products) == 0 {
		_, err := bot.SendMessage(chatID, fmt.Sprintf("«%s» has no products yet.", category.Name), nil)
		return err
	}

	catID := strconv.FormatUint(uint64(categoryID), 10)
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(products)+2)
	for _, p := range products {
		label := fmt.Sprintf("%s — %s", p.Name, formatMoney(p.Price))
		if p.Quantity == 0 {
			label += " (out of stock)"
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{{
			Text:         label,
			CallbackData: "product_" + strconv.FormatUint(uint64(p.ProductID), 10),
		}})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "💲↑", CallbackData: "sort_" + catID + "_" + repository.SortPriceAsc},
		{Text: "💲↓", CallbackData: "sort_" + catID + "_" + repository.SortPriceDesc},
		{Text: "🔤", CallbackData: "sort_" + catID + "_" + repository.SortName},
		{Text: "⭐", CallbackData: "sort_" + catID + "_" + repository.SortRating},
	})
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "⬅️ Categories", CallbackData: "show_catalog"},
	})

	_, err = bot.SendMessage(chatID, fmt.Sprintf("<b>%s</b>", category.Name), &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	return err
}

// sendProductCard shows one product with its photo, rating and actions.
func (b *UserBot) sendProductCard(bot *tgbotapi.Bot, ctx *ext.Context, productID uint) error {
	chatID := ctx.EffectiveChat.Id

	product, err := b.catalog.GetProduct(context.Background(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, err := bot.SendMessage(chatID, "❌ This product no longer exists.", nil)
			return err
		}
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n\n", product.Name))
	if product.Description != "" {
		sb.WriteString(product.Description + "\n\n")
	}
	sb.WriteString(fmt.Sprintf("💰 Price: %s\n", formatMoney(product.Price)))
	if product.Quantity > 0 {
		sb.WriteString(fmt.Sprintf("📦 In stock: %d\n", product.Quantity))
	} else {
		sb.WriteString("📦 Out of stock\n")
	}
	if avg, err := b.catalog.AverageRating(context.Background(), productID); err == nil && avg > 0 {
		sb.WriteString(fmt.Sprintf("⭐ Rating: %.1f\n", avg))
	}

	id := strconv.FormatUint(uint64(productID), 10)
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if product.Quantity > 0 {
		qtyRow := []tgbotapi.InlineKeyboardButton{}
		for _, q := range []int{1, 2, 3, 5} {
			if q > product.Quantity {
				break
			}
			qtyRow = append(qtyRow, tgbotapi.InlineKeyboardButton{
				Text:         fmt.Sprintf("🛒 %d", q),
				CallbackData: fmt.Sprintf("cart_add_%s_%d", id, q),
			})
		}
		if len(qtyRow) > 0 {
			rows = append(rows, qtyRow)
		}
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "❤️ Favorite", CallbackData: "fav_" + id},
		{Text: "✍️ Review", CallbackData: "review_" + id},
	})
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "🛒 Cart", CallbackData: "show_cart"},
		{Text: "⬅️ Catalog", CallbackData: "show_catalog"},
	})
	markup := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}

	if product.PhotoID != "" {
		_, err = bot.SendPhoto(chatID, tgbotapi.InputFileByID(product.PhotoID), &tgbotapi.SendPhotoOpts{
			Caption:     sb.String(),
			ParseMode:   "HTML",
			ReplyMarkup: markup,
		})
		return err
	}

	_, err = bot.SendMessage(chatID, sb.String(), &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: markup,
	})
	return err
}

// addToCart sets the cart quantity for a product. The payload is
// "<productID>_<quantity>".
func (b *UserBot) addToCart(bot *tgbotapi.Bot, ctx *ext.Context, payload string) error {
	parts := strings.SplitN(payload, "_", 2)
	if len(parts) != 2 {
		return nil
	}
	productID, ok := parseID(parts[0])
	if !ok {
		return nil
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil || qty <= 0 {
		return nil
	}

	err = b.cartService.AddProduct(context.Background(), ctx.EffectiveUser.Id, productID, qty)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			ctx.CallbackQuery.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{
				Text:      "❌ Not enough stock for that quantity.",
				ShowAlert: true,
			})
			return nil
		}
		return err
	}

	ctx.CallbackQuery.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{
		Text: fmt.Sprintf("🛒 In cart: %d pcs.", qty),
	})
	return nil
}

// adjustCartLine bumps the stored quantity by delta. Dropping to zero
// removes the line; going past the stock leaves it unchanged.
func (b *UserBot) adjustCartLine(bot *tgbotapi.Bot, ctx *ext.Context, productID uint, delta int) error {
	userID := ctx.EffectiveUser.Id

	qty, err := b.cartService.Quantity(context.Background(), userID, productID)
	if err != nil {
		return err
	}
	if qty == 0 {
		ctx.CallbackQuery.Answer(bot, nil)
		return nil
	}

	next := qty + delta
	if next <= 0 {
		if err := b.cartService.RemoveProduct(context.Background(), userID, productID); err != nil {
			return err
		}
		return b.sendCart(bot, ctx)
	}

	if err := b.cartService.AddProduct(context.Background(), userID, productID, next); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			ctx.CallbackQuery.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{
				Text: "❌ No more stock for this product.",
			})
			return nil
		}
		return err
	}
	return b.sendCart(bot, ctx)
}

// removeFromCart drops one line and re-renders the cart.
func (b *UserBot) removeFromCart(bot *tgbotapi.Bot, ctx *ext.Context, productID uint) error {
	if err := b.cartService.RemoveProduct(context.Background(), ctx.EffectiveUser.Id, productID); err != nil {
		return err
	}
	return b.sendCart(bot, ctx)
}

// clearCart empties the cart.
func (b *UserBot) clearCart(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if err := b.cartService.Clear(context.Background(), ctx.EffectiveUser.Id); err != nil {
		return err
	}
	ctx.CallbackQuery.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{Text: "🛒 Cart cleared."})
	_, err := bot.SendMessage(ctx.EffectiveChat.Id, "🛒 Your cart is empty now.", nil)
	return err
}

// sendCart renders the cart with per-line removal and checkout buttons.
func (b *UserBot) sendCart(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if ctx.CallbackQuery != nil {
		ctx.CallbackQuery.Answer(bot, nil)
	}
	chatID := ctx.EffectiveChat.Id

	summary, err := b.cartService.GetSummary(context.Background(), ctx.EffectiveUser.Id)
	if err != nil {
		return err
	}
	if summary.IsEmpty() {
		_, err := bot.SendMessage(chatID, "🛒 Your cart is empty. Add something from the catalog!", nil)
		return err
	}

	var sb strings.Builder
	sb.WriteString("<b>🛒 Your cart:</b>\n\n")
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(summary.Lines)+2)
	for _, line := range summary.Lines {
		sb.WriteString(fmt.Sprintf("📦 %s x %d = %s\n",
			line.Product.Name, line.Quantity, formatMoney(line.Subtotal())))
		id := strconv.FormatUint(uint64(line.ProductID), 10)
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			{Text: "➖", CallbackData: "cart_dec_" + id},
			{Text: fmt.Sprintf("%s: %d", line.Product.Name, line.Quantity), CallbackData: "product_" + id},
			{Text: "➕", CallbackData: "cart_inc_" + id},
			{Text: "❌", CallbackData: "cart_del_" + id},
		})
	}
	sb.WriteString(fmt.Sprintf("\n💰 Total: %s", formatMoney(summary.Total)))

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "✅ Checkout", CallbackData: "checkout"},
		{Text: "🗑 Clear", CallbackData: "cart_clear"},
	})

	_, err = bot.SendMessage(chatID, sb.String(), &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	return err
}

// toggleFavorite flips the favorite mark and reports the new state.
func (b *UserBot) toggleFavorite(bot *tgbotapi.Bot, ctx *ext.Context, productID uint) error {
	favored, err := b.catalog.ToggleFavorite(context.Background(), ctx.EffectiveUser.Id, productID)
	if err != nil {
		return err
	}

	text := "💔 Removed from favorites."
	if favored {
		text = "❤️ Added to favorites!"
	}
	ctx.CallbackQuery.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{Text: text})
	return nil
}

// sendFavorites lists the user's favorite products.
func (b *UserBot) sendFavorites(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if ctx.CallbackQuery != nil {
		ctx.CallbackQuery.Answer(bot, nil)
	}
	chatID := ctx.EffectiveChat.Id

	products, err := b.catalog.UserFavorites(context.Background(), ctx.EffectiveUser.Id)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		_, err := bot.SendMessage(chatID, "❤️ No favorites yet. Mark products you like!", nil)
		return err
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(products))
	for _, p := range products {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%s — %s", p.Name, formatMoney(p.Price)),
			CallbackData: "product_" + strconv.FormatUint(uint64(p.ProductID), 10),
		}})
	}

	_, err = bot.SendMessage(chatID, "❤️ <b>Your favorites:</b>", &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	return err
}
