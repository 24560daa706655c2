package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/r-lysenko/excursion_bot/internal/service"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start. Админы попадают в главное
// меню, обычные пользователи сразу начинают оформление заявки.
// Незавершённый диалог при этом отбрасывается.
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	user, err := h.userService.RegisterUser(ctx, from.ID, from.Username, from.FirstName, from.LastName)
	if err != nil {
		h.logger.Error("Failed to register user",
			zap.Int64("telegram_id", from.ID),
			zap.Error(err))
		h.sendMessage(ctx, b, chatID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	// Новый /start всегда сбрасывает прошлое состояние
	h.flow.Cancel(from.ID)
	h.setPending(from.ID, pendingNone)

	if h.adminService.IsAdmin(ctx, from.ID) {
		h.sendWithKeyboard(ctx, b, chatID,
			fmt.Sprintf("Здравствуйте, %s! 👋\nВы вошли как администратор.\n\nВыберите действие:", from.FirstName),
			mainMenuKeyboard())
		return
	}

	reply := h.flow.Start(from.ID, user.DisplayName(), from.FirstName)
	h.sendDialogReply(ctx, b, chatID, reply)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📋 Помощь по боту:\n\n" +
		"/start - Начать оформление заявки на экскурсию\n" +
		"/help - Показать это сообщение\n" +
		"/mybookings - Показать мои бронирования\n" +
		"/delete <ID> - Отменить бронирование\n" +
		"/cancel - Отменить текущий диалог\n\n" +
		"Важная информация:\n" +
		"• Экскурсии проводятся по вторникам, средам и четвергам\n" +
		"• Время: с 10:00 до 15:00\n" +
		"• В один день может быть только одна экскурсия\n" +
		"• Максимальная группа: 20 человек (плюс не более 2 сопровождающих)"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.setPending(telegramID, pendingNone)

	reply, ok := h.flow.Cancel(telegramID)
	if !ok {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, reply.Text, removeKeyboard())
}

// HandleMyBookings показывает будущие заявки пользователя
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	bookings, err := h.bookingService.UserBookings(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get user bookings",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		h.sendMessage(ctx, b, chatID, "⚠️ Произошла ошибка при получении данных.")
		return
	}

	if len(bookings) == 0 {
		h.sendMessage(ctx, b, chatID,
			"📭 У вас пока нет активных бронирований.\n"+
				"Чтобы создать заявку, используйте команду /start")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Ваши активные бронирования:\n\n")
	for i, booking := range bookings {
		fmt.Fprintf(&sb,
			"%d. ID: %d\n"+
				"   🏫 %s, класс %s\n"+
				"   📅 %s в %s\n"+
				"   👤 %s, 👥 %d чел.\n\n",
			i+1,
			booking.ID,
			booking.SchoolName,
			booking.ClassNumber,
			booking.ExcursionDate.Format("02.01.2006"),
			booking.ExcursionTime,
			booking.ContactPerson,
			booking.ParticipantsCount)
	}

	sb.WriteString("Чтобы отменить бронирование, отправьте /delete <ID>")

	h.sendChunked(ctx, b, chatID, sb.String())
}

// HandleDeleteBooking обрабатывает команду /delete <ID> - отмена своего
// бронирования. Чужую заявку отменить нельзя.
func (h *Handlers) HandleDeleteBooking(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/delete"))
	if arg == "" {
		h.sendMessage(ctx, b, chatID,
			"Укажите ID бронирования: /delete <ID>\n"+
				"Список своих бронирований можно посмотреть командой /mybookings")
		return
	}

	bookingID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		h.sendMessage(ctx, b, chatID, "❌ ID должен быть числом.")
		return
	}

	err = h.bookingService.CancelBooking(ctx, bookingID, telegramID)
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		h.sendMessage(ctx, b, chatID,
			fmt.Sprintf("❌ Бронирование с ID %d не найдено среди ваших заявок.", bookingID))
	case err != nil:
		h.logger.Error("Failed to cancel booking",
			zap.Int64("booking_id", bookingID),
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		h.sendMessage(ctx, b, chatID, "⚠️ Произошла ошибка. Попробуйте позже.")
	default:
		h.sendMessage(ctx, b, chatID,
			fmt.Sprintf("✅ Бронирование %d отменено. Дата снова свободна.", bookingID))
	}
}

// HandleTextMessage обрабатывает текстовые сообщения: сначала активный
// диалог бронирования, затем кнопки и ожидаемые вводы админ-панели
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := update.Message.Text

	if h.flow.Active(telegramID) {
		// ok == false, если диалог завершился, пока сообщение ждало очередь
		if reply, ok := h.flow.Handle(ctx, telegramID, text); ok {
			h.sendDialogReply(ctx, b, chatID, reply)
		}
		return
	}

	if !h.adminService.IsAdmin(ctx, telegramID) {
		// Нет ни диалога, ни прав — игнорируем
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
		return
	}

	if h.handleAdminButton(ctx, b, update, text) {
		return
	}

	switch h.takePending(telegramID) {
	case pendingBroadcast:
		h.runBroadcast(ctx, b, update, text)
	case pendingAdminAdd:
		h.addAdmin(ctx, b, update, text)
	case pendingAdminRemove:
		h.removeAdmin(ctx, b, update, text)
	}
}
