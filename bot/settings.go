package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"shopbot/entity"
	"shopbot/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// handleSettings shows the settings screen.
func (b *UserBot) handleSettings(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return b.sendSettings(bot, ctx)
}

// sendSettings renders language and notification toggles reflecting the
// user's current values.
func (b *UserBot) sendSettings(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if ctx.CallbackQuery != nil {
		ctx.CallbackQuery.Answer(bot, nil)
	}
	chatID := ctx.EffectiveChat.Id

	user, err := b.authService.GetUser(context.Background(), ctx.EffectiveUser.Id)
	if err != nil {
		return err
	}

	langEN := "English"
	langRU := "Русский"
	if user.Language == entity.LangEN {
		langEN = "✅ " + langEN
	} else {
		langRU = "✅ " + langRU
	}

	notifOn := "On"
	notifOff := "Off"
	if user.Notifications {
		notifOn = "✅ " + notifOn
	} else {
		notifOff = "✅ " + notifOff
	}

	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: langEN, CallbackData: "lang_" + entity.LangEN},
				{Text: langRU, CallbackData: "lang_" + entity.LangRU},
			},
			{
				{Text: "🔔 " + notifOn, CallbackData: "notif_on"},
				{Text: "🔕 " + notifOff, CallbackData: "notif_off"},
			},
			{
				{Text: "⬅️ Menu", CallbackData: "show_menu"},
			},
		},
	}

	_, err = bot.SendMessage(chatID, "⚙️ <b>Settings</b>\nLanguage and order notifications:", &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: keyboard,
	})
	return err
}

// setLanguage stores the interface language choice.
func (b *UserBot) setLanguage(bot *tgbotapi.Bot, ctx *ext.Context, lang string) error {
	if lang != entity.LangEN && lang != entity.LangRU {
		ctx.CallbackQuery.Answer(bot, nil)
		return nil
	}

	if err := b.authService.SetLanguage(context.Background(), ctx.EffectiveUser.Id, lang); err != nil {
		return err
	}

	ctx.CallbackQuery.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{Text: "🌐 Language saved."})
	return b.sendSettings(bot, ctx)
}

// setNotifications stores the notification toggle.
func (b *UserBot) setNotifications(bot *tgbotapi.Bot, ctx *ext.Context, enabled bool) error {
	if err := b.authService.SetNotifications(context.Background(), ctx.EffectiveUser.Id, enabled); err != nil {
		return err
	}

	text := "🔕 Notifications off."
	if enabled {
		text = "🔔 Notifications on."
	}
	ctx.CallbackQuery.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{Text: text})
	return b.sendSettings(bot, ctx)
}

const superAdminUsage = "Usage: /superadmin <user_id> | /superadmin remove <user_id>"

// handleSuperAdmin manages admin rights. Bare invocation lists the current
// admins; "/superadmin <user_id>" promotes that user and
// "/superadmin remove <user_id>" demotes them.
func (b *UserBot) handleSuperAdmin(bot *tgbotapi.Bot, ctx *ext.Context) error {
	userID := ctx.EffectiveUser.Id
	chatID := ctx.EffectiveChat.Id

	if !b.authService.IsSuperAdmin(userID) {
		_, err := bot.SendMessage(chatID, "⛔ This command is for the owner only.", nil)
		return err
	}

	args := strings.Fields(strings.TrimPrefix(ctx.EffectiveMessage.Text, "/superadmin"))
	if len(args) == 0 {
		admins, err := b.authService.Admins(context.Background())
		if err != nil {
			return err
		}
		if len(admins) == 0 {
			_, err := bot.SendMessage(chatID, "No admins granted yet. "+superAdminUsage, nil)
			return err
		}

		var sb strings.Builder
		sb.WriteString("👑 <b>Admins:</b>\n")
		for _, a := range admins {
			sb.WriteString(fmt.Sprintf("• %d @%s %s\n", a.UserID, a.Username, a.FirstName))
		}
		_, err = bot.SendMessage(chatID, sb.String(), &tgbotapi.SendMessageOpts{ParseMode: "HTML"})
		return err
	}

	grant := true
	if args[0] == "remove" {
		grant = false
		args = args[1:]
	}

	if len(args) != 1 {
		_, err := bot.SendMessage(chatID, superAdminUsage, nil)
		return err
	}

	targetID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		_, err := bot.SendMessage(chatID, superAdminUsage, nil)
		return err
	}

	if err := b.authService.GrantAdmin(context.Background(), userID, targetID, grant); err != nil {
		b.log.Error("changing admin rights", sl.Err(err))
		_, err := bot.SendMessage(chatID, "❌ Could not update admin rights. The user must talk to the bot first.", nil)
		return err
	}

	msg := fmt.Sprintf("👑 User %d is now an admin.", targetID)
	if !grant {
		msg = fmt.Sprintf("User %d is no longer an admin.", targetID)
	}
	_, err = bot.SendMessage(chatID, msg, nil)
	return err
}
