package bot

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"shopbot/bot/workflow"
	"shopbot/bot/workflows/adminpanel"
	"shopbot/bot/workflows/profileedit"
	"shopbot/bot/workflows/registration"
	"shopbot/entity"
	"shopbot/internal/config"
	"shopbot/internal/lib/sl"
	cartservice "shopbot/internal/service/cart"

	"github.com/shopspring/decimal"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

// AuthService defines the account operations the bot needs.
type AuthService interface {
	EnsureUser(ctx context.Context, userID int64, username, firstName string) error
	GetUser(ctx context.Context, userID int64) (*entity.User, error)
	IsAdmin(ctx context.Context, userID int64) bool
	IsSuperAdmin(userID int64) bool
	GrantAdmin(ctx context.Context, actorID, userID int64, isAdmin bool) error
	Admins(ctx context.Context) ([]entity.User, error)
	IsRegistered(ctx context.Context, userID int64) (bool, error)
	Profile(ctx context.Context, userID int64) (*entity.UserProfile, error)
	SetLanguage(ctx context.Context, userID int64, lang string) error
	SetNotifications(ctx context.Context, userID int64, enabled bool) error
}

// CartService defines the cart operations the bot needs.
type CartService interface {
	AddProduct(ctx context.Context, userID int64, productID uint, quantity int) error
	Quantity(ctx context.Context, userID int64, productID uint) (int, error)
	RemoveProduct(ctx context.Context, userID int64, productID uint) error
	Clear(ctx context.Context, userID int64) error
	GetSummary(ctx context.Context, userID int64) (cartservice.Summary, error)
}

// OrderService defines the order operations the bot needs.
type OrderService interface {
	History(ctx context.Context, userID int64) ([]entity.Order, error)
	Order(ctx context.Context, orderID uint) (*entity.Order, error)
	CheckoutStars(ctx context.Context, userID int64, address string, delivery entity.DeliveryMethod, starsAmount int64, chargeID string) (*entity.Order, error)
	StarsHistory(ctx context.Context, userID int64) ([]entity.StarsTransaction, error)
}

// CatalogRepository defines the catalog reads the bot needs.
type CatalogRepository interface {
	GetCategories(ctx context.Context) ([]entity.Category, error)
	GetCategory(ctx context.Context, categoryID uint) (*entity.Category, error)
	GetProduct(ctx context.Context, productID uint) (*entity.Product, error)
	ProductsByCategory(ctx context.Context, categoryID uint) ([]entity.Product, error)
	ProductsSorted(ctx context.Context, categoryID uint, sort string) ([]entity.Product, error)
	SearchProducts(ctx context.Context, query string) ([]entity.Product, error)
	ToggleFavorite(ctx context.Context, userID int64, productID uint) (bool, error)
	UserFavorites(ctx context.Context, userID int64) ([]entity.Product, error)
	AverageRating(ctx context.Context, productID uint) (float64, error)
}

// UserBot is the storefront Telegram bot.
type UserBot struct {
	log            *slog.Logger
	api            *tgbotapi.Bot
	botUsername    string
	conf           *config.Config
	workflowEngine workflow.Engine
	authService    AuthService
	cartService    CartService
	orderService   OrderService
	catalog        CatalogRepository
}

// NewUserBot creates a new user bot instance.
func NewUserBot(conf *config.Config, log *slog.Logger) (*UserBot, error) {
	bot := &UserBot{
		log:         log.With(sl.Module("userbot")),
		botUsername: conf.Telegram.BotName,
		conf:        conf,
	}

	api, err := tgbotapi.NewBot(conf.Telegram.ApiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	bot.api = api

	return bot, nil
}

// SetWorkflowEngine sets the workflow engine for the bot.
func (b *UserBot) SetWorkflowEngine(engine workflow.Engine) {
	b.workflowEngine = engine
}

// SetServices wires the domain services into the bot.
func (b *UserBot) SetServices(authService AuthService, cartService CartService, orderService OrderService, catalog CatalogRepository) {
	b.authService = authService
	b.cartService = cartService
	b.orderService = orderService
	b.catalog = catalog
}

// Start begins polling for updates and handling them.
func (b *UserBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(bot *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Println("an error occurred while handling update:", err.Error())
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	// Commands
	dispatcher.AddHandler(handlers.NewCommand("start", b.handleStart))
	dispatcher.AddHandler(handlers.NewCommand("menu", b.handleMenu))
	dispatcher.AddHandler(handlers.NewCommand("help", b.handleHelp))
	dispatcher.AddHandler(handlers.NewCommand("register", b.handleRegister))
	dispatcher.AddHandler(handlers.NewCommand("profile", b.handleProfile))
	dispatcher.AddHandler(handlers.NewCommand("settings", b.handleSettings))
	dispatcher.AddHandler(handlers.NewCommand("catalog", b.handleCatalog))
	dispatcher.AddHandler(handlers.NewCommand("search", b.handleSearch))
	dispatcher.AddHandler(handlers.NewCommand("cancel", b.handleCancel))
	dispatcher.AddHandler(handlers.NewCommand("admin", b.handleAdmin))
	dispatcher.AddHandler(handlers.NewCommand("superadmin", b.handleSuperAdmin))
	dispatcher.AddHandler(handlers.NewCommand("stars_history", b.handleStarsHistory))

	// Callbacks
	dispatcher.AddHandler(handlers.NewCallback(b.workflowCallbackFilter, b.handleWorkflowCallback))
	dispatcher.AddHandler(handlers.NewCallback(nil, b.handleCallback))

	// Payments
	dispatcher.AddHandler(handlers.NewPreCheckoutQuery(nil, b.handlePreCheckout))
	dispatcher.AddHandler(handlers.NewMessage(message.SuccessfulPayment, b.handleSuccessfulPayment))

	// Messages
	dispatcher.AddHandler(handlers.NewMessage(message.Contact, b.handleContact))
	dispatcher.AddHandler(handlers.NewMessage(message.Location, b.handleLocation))
	dispatcher.AddHandler(handlers.NewMessage(message.Photo, b.handlePhoto))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, b.handleMessage))

	err := updater.StartPolling(b.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	b.log.Info("user bot started", slog.String("username", b.botUsername))

	// Idle, to keep updates coming in
	updater.Idle()

	return nil
}

// workflowCallbackFilter filters callbacks that belong to workflows.
func (b *UserBot) workflowCallbackFilter(cq *tgbotapi.CallbackQuery) bool {
	return workflow.IsWorkflowCallback(cq.Data)
}

// handleStart greets the user, records the account and routes either to
// registration or the main menu. Deep links jump straight into the
// catalog.
func (b *UserBot) handleStart(bot *tgbotapi.Bot, ctx *ext.Context) error {
	userID := ctx.EffectiveUser.Id
	chatID := ctx.EffectiveChat.Id

	if err := b.authService.EnsureUser(context.Background(), userID, ctx.EffectiveUser.Username, ctx.EffectiveUser.FirstName); err != nil {
		b.log.Error("ensuring user", slog.Int64("user_id", userID), sl.Err(err))
	}

	startParam := workflow.ExtractStartParam(ctx.EffectiveMessage.Text)
	if startParam != "" {
		deepLink := workflow.ParseDeepLink(startParam)
		b.log.Debug("parsed deep link",
			slog.Int64("user_id", userID),
			slog.String("type", deepLink.Type),
			slog.String("code", deepLink.Code),
		)
		if handled := b.handleDeepLink(bot, ctx, deepLink); handled {
			return nil
		}
	}

	registered, err := b.authService.IsRegistered(context.Background(), userID)
	if err != nil {
		b.log.Error("checking registration", slog.Int64("user_id", userID), sl.Err(err))
	}
	if !registered {
		return b.workflowEngine.StartWorkflow(context.Background(), bot, userID, chatID, registration.WorkflowID, nil)
	}

	return b.sendMainMenu(bot, chatID)
}

// handleMenu shows the main menu.
func (b *UserBot) handleMenu(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return b.sendMainMenu(bot, ctx.EffectiveChat.Id)
}

// handleHelp lists available commands.
func (b *UserBot) handleHelp(bot *tgbotapi.Bot, ctx *ext.Context) error {
	help := "ℹ️ <b>Commands:</b>\n\n" +
		"/menu — main menu\n" +
		"/catalog — browse products\n" +
		"/search &lt;query&gt; — search products\n" +
		"/register — create your profile\n" +
		"/profile — view and edit your profile\n" +
		"/settings — language and notifications\n" +
		"/stars_history — your Stars ledger\n" +
		"/cancel — abort the current dialog"
	_, err := bot.SendMessage(ctx.EffectiveChat.Id, help, &tgbotapi.SendMessageOpts{ParseMode: "HTML"})
	return err
}

// handleRegister starts the registration workflow.
func (b *UserBot) handleRegister(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return b.workflowEngine.StartWorkflow(context.Background(), bot,
		ctx.EffectiveUser.Id, ctx.EffectiveChat.Id, registration.WorkflowID, nil)
}

// handleProfile starts the profile view-and-edit workflow.
func (b *UserBot) handleProfile(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return b.workflowEngine.StartWorkflow(context.Background(), bot,
		ctx.EffectiveUser.Id, ctx.EffectiveChat.Id, profileedit.WorkflowID, nil)
}

// handleCancel aborts whatever workflow is active.
func (b *UserBot) handleCancel(bot *tgbotapi.Bot, ctx *ext.Context) error {
	userID := ctx.EffectiveUser.Id

	if err := b.workflowEngine.ClearState(context.Background(), userID); err != nil {
		b.log.Error("clearing state", slog.Int64("user_id", userID), sl.Err(err))
	}
	_, err := bot.SendMessage(ctx.EffectiveChat.Id, "Dialog cancelled. /menu", nil)
	return err
}

// handleAdmin opens the admin panel for admins.
func (b *UserBot) handleAdmin(bot *tgbotapi.Bot, ctx *ext.Context) error {
	userID := ctx.EffectiveUser.Id

	if !b.authService.IsAdmin(context.Background(), userID) {
		_, err := bot.SendMessage(ctx.EffectiveChat.Id, "⛔ This command is for admins only.", nil)
		return err
	}

	return b.workflowEngine.StartWorkflow(context.Background(), bot,
		userID, ctx.EffectiveChat.Id, adminpanel.WorkflowID, nil)
}

// handleDeepLink resolves product and category deep links into the
// catalog view. Returns false for unknown link types.
func (b *UserBot) handleDeepLink(bot *tgbotapi.Bot, ctx *ext.Context, deepLink *workflow.DeepLinkData) bool {
	switch {
	case deepLink.IsProductDeepLink() && deepLink.HasCode():
		if id, ok := parseID(deepLink.Code); ok {
			return b.sendProductCard(bot, ctx, id) == nil
		}
	case deepLink.IsCategoryDeepLink() && deepLink.HasCode():
		if id, ok := parseID(deepLink.Code); ok {
			return b.sendCategoryListing(bot, ctx.EffectiveChat.Id, ctx.EffectiveUser.Id, id, "") == nil
		}
	}
	return false
}

// handleWorkflowCallback routes wf: callbacks into the engine.
func (b *UserBot) handleWorkflowCallback(bot *tgbotapi.Bot, ctx *ext.Context) error {
	data := ctx.CallbackQuery.Data
	err := b.workflowEngine.HandleCallback(context.Background(), bot, ctx, data)
	if err != nil {
		b.log.Error("workflow callback error",
			slog.Int64("user_id", ctx.EffectiveUser.Id),
			slog.String("data", data),
			sl.Err(err),
		)
	}
	return err
}

// handleContact routes shared contacts into the active workflow.
func (b *UserBot) handleContact(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return b.routeToWorkflow(bot, ctx, b.workflowEngine.HandleContact)
}

// handleLocation routes shared locations into the active workflow.
func (b *UserBot) handleLocation(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return b.routeToWorkflow(bot, ctx, b.workflowEngine.HandleLocation)
}

// handlePhoto routes uploaded photos into the active workflow.
func (b *UserBot) handlePhoto(bot *tgbotapi.Bot, ctx *ext.Context) error {
	return b.routeToWorkflow(bot, ctx, b.workflowEngine.HandlePhoto)
}

// handleMessage routes text into the active workflow, or nudges the user
// to the menu when nothing is running.
func (b *UserBot) handleMessage(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if strings.HasPrefix(ctx.EffectiveMessage.Text, "/") {
		return nil
	}

	userID := ctx.EffectiveUser.Id

	hasWorkflow, err := b.workflowEngine.HasActiveWorkflow(context.Background(), userID)
	if err != nil {
		b.log.Error("check active workflow error", sl.Err(err))
		return err
	}
	if !hasWorkflow {
		return b.sendMainMenu(bot, ctx.EffectiveChat.Id)
	}

	err = b.workflowEngine.HandleMessage(context.Background(), bot, ctx)
	if err != nil {
		b.log.Error("workflow message error",
			slog.Int64("user_id", userID),
			sl.Err(err),
		)
	}
	return err
}

func (b *UserBot) routeToWorkflow(bot *tgbotapi.Bot, ctx *ext.Context, handle func(context.Context, *tgbotapi.Bot, *ext.Context) error) error {
	userID := ctx.EffectiveUser.Id

	hasWorkflow, err := b.workflowEngine.HasActiveWorkflow(context.Background(), userID)
	if err != nil {
		b.log.Error("check active workflow error", sl.Err(err))
		return err
	}
	if !hasWorkflow {
		return nil
	}

	err = handle(context.Background(), bot, ctx)
	if err != nil {
		b.log.Error("workflow event error",
			slog.Int64("user_id", userID),
			sl.Err(err),
		)
	}
	return err
}

// sendMainMenu shows the storefront entry keyboard.
func (b *UserBot) sendMainMenu(bot *tgbotapi.Bot, chatID int64) error {
	keyboard := tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: "🛍 Catalog", CallbackData: "show_catalog"},
				{Text: "🛒 Cart", CallbackData: "show_cart"},
			},
			{
				{Text: "❤️ Favorites", CallbackData: "show_favorites"},
				{Text: "📋 My orders", CallbackData: "show_orders"},
			},
			{
				{Text: "👤 Profile", CallbackData: "show_profile"},
				{Text: "⚙️ Settings", CallbackData: "show_settings"},
			},
		},
	}

	_, err := bot.SendMessage(chatID, "<b>🏪 Main menu</b>\nWhat would you like to do?", &tgbotapi.SendMessageOpts{
		ParseMode:   "HTML",
		ReplyMarkup: keyboard,
	})
	return err
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
