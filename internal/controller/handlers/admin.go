package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/r-lysenko/excursion_bot/internal/service"
	"go.uber.org/zap"
)

var weekdayShortRu = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// HandleAdminPanel обрабатывает команду /admin
func (h *Handlers) HandleAdminPanel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if !h.adminService.IsAdmin(ctx, update.Message.From.ID) {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ У вас нет прав доступа.")
		return
	}

	h.adminPanel(ctx, b, update.Message.Chat.ID)
}

// handleAdminButton разбирает нажатия кнопок меню.
// Возвращает false, если текст не является кнопкой.
func (h *Handlers) handleAdminButton(ctx context.Context, b *bot.Bot, update *models.Update, text string) bool {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	switch text {
	case BtnBookExcursion:
		// Админы оформляют заявку тем же диалогом
		user, err := h.userService.GetByTelegramID(ctx, telegramID)
		if err != nil || user == nil {
			h.logger.Error("Failed to get admin user", zap.Int64("telegram_id", telegramID), zap.Error(err))
			h.sendMessage(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
			return true
		}
		reply := h.flow.Start(telegramID, user.DisplayName(), update.Message.From.FirstName)
		h.sendDialogReply(ctx, b, chatID, reply)
	case BtnAdminPanel, BtnBackToAdmin:
		h.adminPanel(ctx, b, chatID)
	case BtnStats:
		h.adminStats(ctx, b, chatID)
	case BtnAllBookings:
		h.adminAllBookings(ctx, b, chatID)
	case BtnBookedDates:
		h.adminBookedDates(ctx, b, chatID)
	case BtnExport:
		h.adminExport(ctx, b, chatID)
	case BtnManageAdmins:
		h.sendWithKeyboard(ctx, b, chatID,
			"👥 Управление администраторами\n\nВыберите действие:",
			adminManagementKeyboard())
	case BtnBroadcast:
		h.setPending(telegramID, pendingBroadcast)
		h.sendWithKeyboard(ctx, b, chatID,
			"📢 Рассылка сообщения\n\nОтправьте сообщение, которое хотите разослать всем пользователям:",
			removeKeyboard())
	case BtnAddAdmin:
		h.setPending(telegramID, pendingAdminAdd)
		h.sendWithKeyboard(ctx, b, chatID,
			"Отправьте ID пользователя, которого хотите сделать администратором:",
			removeKeyboard())
	case BtnRemoveAdmin:
		h.setPending(telegramID, pendingAdminRemove)
		h.sendWithKeyboard(ctx, b, chatID,
			"Отправьте ID администратора, которого хотите удалить:",
			removeKeyboard())
	case BtnListAdmins:
		h.listAdmins(ctx, b, chatID)
	case BtnClearState:
		h.clearState(ctx, b, update)
	case BtnMainMenu:
		h.sendWithKeyboard(ctx, b, chatID, "Главное меню:", mainMenuKeyboard())
	default:
		return false
	}

	return true
}

func (h *Handlers) adminPanel(ctx context.Context, b *bot.Bot, chatID int64) {
	h.sendWithKeyboard(ctx, b, chatID,
		"⚙️ Админ-панель\n\nВыберите действие:",
		adminPanelKeyboard())
}

func (h *Handlers) adminStats(ctx context.Context, b *bot.Bot, chatID int64) {
	stats, err := h.bookingService.Stats(ctx)
	if err != nil {
		h.logger.Error("Failed to get booking stats", zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Ошибка при получении статистики.")
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"📊 Статистика бронирований\n\n"+
			"📈 Общая статистика:\n"+
			"• Всего бронирований: %d\n"+
			"• На будущее: %d\n"+
			"• Всего участников: %d\n\n"+
			"📅 По дням недели (будущие):\n%s",
		stats.Total, stats.Future, stats.TotalParticipants,
		formatWeekdayStats(h.cfg.WorkingDays, stats.PerWeekday)))
}

// formatWeekdayStats строки разбивки по рабочим дням недели.
// Дни без заявок тоже показываются, с нулём.
func formatWeekdayStats(workingDays []time.Weekday, perWeekday map[time.Weekday]int) string {
	lines := make([]string, 0, len(workingDays))
	for _, d := range workingDays {
		lines = append(lines, fmt.Sprintf("• %s: %d", weekdayShortRu[d], perWeekday[d]))
	}
	return strings.Join(lines, "\n")
}

func (h *Handlers) adminAllBookings(ctx context.Context, b *bot.Bot, chatID int64) {
	bookings, err := h.bookingService.AllUpcoming(ctx)
	if err != nil {
		h.logger.Error("Failed to get all bookings", zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Ошибка при получении данных.")
		return
	}

	if len(bookings) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 Нет активных бронирований.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Все бронирования:\n\n")
	for _, booking := range bookings {
		username := booking.Username
		if username == "" {
			username = "нет username"
		}
		fmt.Fprintf(&sb,
			"🆔 %d | %s %s\n"+
				"🏫 %s, %s (%s)\n"+
				"👤 %s (%s)\n"+
				"👥 %d чел. | 👤 %s\n\n",
			booking.ID,
			booking.ExcursionDate.Format("02.01.2006"),
			booking.ExcursionTime,
			booking.SchoolName,
			booking.ClassNumber,
			booking.ClassProfile,
			booking.ContactPerson,
			booking.ContactPhone,
			booking.ParticipantsCount,
			username)
	}

	h.sendChunked(ctx, b, chatID, sb.String())
}

func (h *Handlers) adminBookedDates(ctx context.Context, b *bot.Bot, chatID int64) {
	dates, err := h.bookingService.BookedDates(ctx)
	if err != nil {
		h.logger.Error("Failed to get booked dates", zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Ошибка.")
		return
	}

	if len(dates) == 0 {
		h.sendMessage(ctx, b, chatID, "📅 Нет занятых дат.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📅 Занятые даты:\n\n")
	for _, date := range dates {
		line := fmt.Sprintf("• %s (%s)", date.Format("02.01.2006"), weekdayShortRu[date.Weekday()])

		// На дату только одна заявка — показываем её время
		booking, err := h.bookingService.BookingForDate(ctx, date)
		if err == nil && booking != nil {
			line += ": " + booking.ExcursionTime
		}
		sb.WriteString(line + "\n")
	}

	h.sendChunked(ctx, b, chatID, sb.String())
}

func (h *Handlers) adminExport(ctx context.Context, b *bot.Bot, chatID int64) {
	bookings, err := h.bookingService.AllUpcoming(ctx)
	if err != nil {
		h.logger.Error("Failed to get bookings for export", zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Ошибка при экспорте данных.")
		return
	}

	if len(bookings) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 Нет данных для экспорта.")
		return
	}

	file, err := h.exporter.Export(bookings)
	if err != nil {
		h.logger.Error("Failed to export bookings", zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Ошибка при экспорте данных.")
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: file.Name,
			Data:     bytes.NewReader(file.Data),
		},
		Caption: fmt.Sprintf("📊 Экспорт данных (%d записей)", len(bookings)),
	})
	if err != nil {
		h.logger.Error("Failed to send export file", zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Ошибка при отправке файла.")
		return
	}

	h.logger.Info("Bookings exported",
		zap.Int("count", len(bookings)),
		zap.String("file", file.Name))
}

func (h *Handlers) listAdmins(ctx context.Context, b *bot.Bot, chatID int64) {
	admins, err := h.adminService.ListAdmins(ctx)
	if err != nil {
		h.logger.Error("Failed to list admins", zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Ошибка при получении списка администраторов.")
		return
	}

	if len(admins) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 Список администраторов пуст.")
		return
	}

	var sb strings.Builder
	sb.WriteString("👥 Список администраторов:\n\n")
	for i, id := range admins {
		fmt.Fprintf(&sb, "%d. ID: %d\n", i+1, id)
	}
	fmt.Fprintf(&sb, "\nВсего администраторов: %d", len(admins))

	h.sendMessage(ctx, b, chatID, sb.String())
}

func (h *Handlers) addAdmin(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID

	newAdminID, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "❌ ID должен быть числом.")
		h.adminPanel(ctx, b, chatID)
		return
	}

	err = h.adminService.AddAdmin(ctx, newAdminID, update.Message.From.ID)
	switch {
	case errors.Is(err, service.ErrAlreadyAdmin):
		h.sendMessage(ctx, b, chatID,
			fmt.Sprintf("❌ Пользователь с ID %d уже является администратором.", newAdminID))
	case err != nil:
		h.logger.Error("Failed to add admin", zap.Int64("new_admin_id", newAdminID), zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Ошибка при добавлении администратора.")
	default:
		h.sendMessage(ctx, b, chatID,
			fmt.Sprintf("✅ Пользователь с ID %d добавлен в список администраторов.", newAdminID))
	}

	h.adminPanel(ctx, b, chatID)
}

func (h *Handlers) removeAdmin(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID

	adminID, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "❌ ID должен быть числом.")
		h.adminPanel(ctx, b, chatID)
		return
	}

	err = h.adminService.RemoveAdmin(ctx, adminID, update.Message.From.ID)
	switch {
	case errors.Is(err, service.ErrSelfRemoval):
		h.sendMessage(ctx, b, chatID, "❌ Вы не можете удалить себя из администраторов.")
	case errors.Is(err, service.ErrNotAdmin):
		h.sendMessage(ctx, b, chatID,
			fmt.Sprintf("❌ Пользователь с ID %d не найден в списке администраторов.", adminID))
	case err != nil:
		h.logger.Error("Failed to remove admin", zap.Int64("admin_id", adminID), zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Ошибка при удалении администратора.")
	default:
		h.sendMessage(ctx, b, chatID,
			fmt.Sprintf("✅ Пользователь с ID %d удален из списка администраторов.", adminID))
	}

	h.adminPanel(ctx, b, chatID)
}

// runBroadcast рассылает сообщение всем пользователям, оставлявшим заявки
func (h *Handlers) runBroadcast(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID

	recipients, err := h.bookingService.RecipientIDs(ctx)
	if err != nil {
		h.logger.Error("Failed to get broadcast recipients", zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Ошибка при рассылке сообщений.")
		return
	}

	if len(recipients) == 0 {
		h.sendMessage(ctx, b, chatID, "📭 Нет пользователей для рассылки.")
		return
	}

	// ID рассылки связывает записи в логе между собой
	runID := uuid.New()

	h.logger.Info("Broadcast started",
		zap.String("run_id", runID.String()),
		zap.Int64("admin_id", update.Message.From.ID),
		zap.Int("recipients", len(recipients)))

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("📤 Отправка сообщения %d пользователям...", len(recipients)))

	message := "📢 Сообщение от администратора:\n\n" + text
	successCount := 0

	for _, userID := range recipients {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: userID,
			Text:   message,
		})
		if err != nil {
			h.logger.Error("Failed to deliver broadcast",
				zap.String("run_id", runID.String()),
				zap.Int64("user_id", userID),
				zap.Error(err))
			continue
		}
		successCount++
	}

	h.logger.Info("Broadcast finished",
		zap.String("run_id", runID.String()),
		zap.Int("delivered", successCount),
		zap.Int("total", len(recipients)))

	h.sendWithKeyboard(ctx, b, chatID,
		fmt.Sprintf("✅ Рассылка завершена\n\n"+
			"• Успешно отправлено: %d\n"+
			"• Всего пользователей: %d",
			successCount, len(recipients)),
		adminPanelKeyboard())
}

// clearState сбрасывает состояние диалога вызвавшего админа
func (h *Handlers) clearState(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	h.flow.Cancel(telegramID)
	h.setPending(telegramID, pendingNone)

	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID,
		"✅ Состояние полностью очищено!\n\n"+
			"Удалены все временные данные и состояния диалога.\n"+
			"Теперь можно начать заново с /start",
		removeKeyboard())

	h.logger.Info("Admin cleared state", zap.Int64("telegram_id", telegramID))
}
