package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/r-lysenko/excursion_bot/internal/config"
	"github.com/r-lysenko/excursion_bot/internal/controller/dialog"
	"github.com/r-lysenko/excursion_bot/internal/controller/handlers"
	"github.com/r-lysenko/excursion_bot/internal/report"
	"github.com/r-lysenko/excursion_bot/internal/service"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	cfg *config.Config,
	userService *service.UserService,
	bookingService *service.BookingService,
	adminService *service.AdminService,
	logger *zap.Logger,
) *BotController {
	// Диалог бронирования поверх сервиса календаря
	flow := dialog.NewFlow(bookingService, cfg, logger)

	cmdHandlers := handlers.NewHandlers(
		cfg,
		userService,
		bookingService,
		adminService,
		flow,
		report.NewCSVExporter(),
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delete", bot.MatchTypePrefix, c.handlers.HandleDeleteBooking)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/admin", bot.MatchTypeExact, c.handlers.HandleAdminPanel)

	// Обработчик текстовых сообщений (диалог бронирования и кнопки меню)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Оформить заявку на экскурсию"},
		{Command: "mybookings", Description: "📅 Мои бронирования"},
		{Command: "delete", Description: "🗑 Отменить бронирование по ID"},
		{Command: "cancel", Description: "❌ Отменить текущий диалог"},
		{Command: "help", Description: "❓ Справка"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
