package main

import (
	"flag"
	"log/slog"

	"shopbot/bot"
	"shopbot/bot/workflow"
	"shopbot/bot/workflows/adminpanel"
	"shopbot/bot/workflows/checkout"
	"shopbot/bot/workflows/profileedit"
	"shopbot/bot/workflows/registration"
	"shopbot/bot/workflows/review"
	"shopbot/internal/config"
	repository "shopbot/internal/database"
	"shopbot/internal/lib/logger"
	"shopbot/internal/lib/sl"
	"shopbot/internal/service/auth"
	"shopbot/internal/service/cart"
	"shopbot/internal/service/order"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting shopbot", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	db, err := repository.New(conf, lg)
	if err != nil {
		lg.Error("opening database", sl.Err(err))
		return
	}
	defer db.Close()
	lg.With(
		slog.String("path", conf.Database.Path),
	).Info("database initialized")

	authService := auth.NewAuthService(db, conf, lg)
	cartService := cart.NewCartService(db, lg)
	orderService := order.NewOrderService(db, conf, lg)

	userBot, err := bot.NewUserBot(conf, lg)
	if err != nil {
		lg.Error("failed to initialize telegram bot", sl.Err(err))
		return
	}

	engine := workflow.NewWorkflowEngine(workflow.NewDBStateStorage(db), lg)
	engine.RegisterWorkflow(registration.NewRegistrationWorkflow(authService, lg))
	engine.RegisterWorkflow(profileedit.NewProfileEditWorkflow(authService, lg))
	engine.RegisterWorkflow(checkout.NewCheckoutWorkflow(cartService, orderService, conf, lg))
	engine.RegisterWorkflow(review.NewReviewWorkflow(db, lg))
	engine.RegisterWorkflow(adminpanel.NewAdminPanelWorkflow(db, orderService, lg))

	userBot.SetWorkflowEngine(engine)
	userBot.SetServices(authService, cartService, orderService, db)

	lg.With(
		slog.String("bot_name", conf.Telegram.BotName),
		sl.Secret("token", conf.Telegram.ApiKey),
	).Info("telegram bot initialized")

	// *** blocking start with long polling ***
	if err := userBot.Start(); err != nil {
		lg.Error("bot start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
