package handlers

import (
	"github.com/go-telegram/bot/models"
	"github.com/r-lysenko/excursion_bot/internal/controller/dialog"
)

// Кнопки главного меню и админ-панели
const (
	BtnBookExcursion = "📋 Забронировать экскурсию"
	BtnAdminPanel    = "⚙️ Админ-панель"

	BtnStats        = "📊 Статистика"
	BtnAllBookings  = "📋 Все бронирования"
	BtnBookedDates  = "📅 Занятые даты"
	BtnExport       = "📤 Экспорт таблицы"
	BtnManageAdmins = "👥 Управление админами"
	BtnBroadcast    = "📱 Отправить сообщение"
	BtnClearState   = "🔄 Очистить состояние"
	BtnMainMenu     = "🔙 В главное меню"

	BtnAddAdmin    = "➕ Добавить админа"
	BtnRemoveAdmin = "➖ Удалить админа"
	BtnListAdmins  = "📋 Список админов"
	BtnBackToAdmin = "🔙 Назад в админ-панель"
)

func replyKeyboard(rows ...[]string) *models.ReplyKeyboardMarkup {
	keyboard := make([][]models.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.KeyboardButton, 0, len(row))
		for _, text := range row {
			buttons = append(buttons, models.KeyboardButton{Text: text})
		}
		keyboard = append(keyboard, buttons)
	}
	return &models.ReplyKeyboardMarkup{
		Keyboard:       keyboard,
		ResizeKeyboard: true,
	}
}

// mainMenuKeyboard основное меню для админов
func mainMenuKeyboard() *models.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{BtnBookExcursion, BtnAdminPanel},
	)
}

// adminPanelKeyboard клавиатура админ-панели
func adminPanelKeyboard() *models.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{BtnStats, BtnAllBookings},
		[]string{BtnBookedDates, BtnExport},
		[]string{BtnManageAdmins, BtnBroadcast},
		[]string{BtnClearState, BtnMainMenu},
	)
}

// adminManagementKeyboard клавиатура управления админами
func adminManagementKeyboard() *models.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{BtnAddAdmin, BtnRemoveAdmin},
		[]string{BtnListAdmins, BtnBackToAdmin},
	)
}

// confirmationKeyboard клавиатура шага подтверждения заявки
func confirmationKeyboard() *models.ReplyKeyboardMarkup {
	kb := replyKeyboard(
		[]string{dialog.ButtonConfirm, dialog.ButtonCancel},
	)
	kb.OneTimeKeyboard = true
	return kb
}

func removeKeyboard() *models.ReplyKeyboardRemove {
	return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
}
