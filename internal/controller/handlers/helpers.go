package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/r-lysenko/excursion_bot/internal/controller/dialog"
	"go.uber.org/zap"
)

// Telegram ограничивает длину сообщения, длинные списки режем с запасом
const maxMessageLength = 4000

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendWithKeyboard(ctx, b, chatID, text, nil)
}

// sendWithKeyboard отправляет сообщение с клавиатурой
func (h *Handlers) sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

// sendChunked отправляет длинный текст несколькими сообщениями
func (h *Handlers) sendChunked(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	for _, chunk := range splitMessage(text) {
		h.sendMessage(ctx, b, chatID, chunk)
	}
}

// splitMessage режет текст на куски не длиннее maxMessageLength байт:
// по границе строки, чтобы не разрывать запись посередине, а если в окне
// нет переноса — по границе руны, чтобы не разрезать UTF-8 последовательность
func splitMessage(text string) []string {
	var chunks []string

	for len(text) > maxMessageLength {
		window := text[:maxMessageLength]
		if i := strings.LastIndexByte(window, '\n'); i > 0 {
			chunks = append(chunks, text[:i])
			text = text[i+1:] // перенос между кусками не нужен
			continue
		}

		cut := maxMessageLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxMessageLength
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}

	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// sendDialogReply отправляет ответ диалога с подходящей клавиатурой:
// на шаге подтверждения — кнопки Подтвердить/Отмена, иначе клавиатура убирается
func (h *Handlers) sendDialogReply(ctx context.Context, b *bot.Bot, chatID int64, reply dialog.Reply) {
	if reply.Step == dialog.StepConfirmation {
		h.sendWithKeyboard(ctx, b, chatID, reply.Text, confirmationKeyboard())
		return
	}
	h.sendWithKeyboard(ctx, b, chatID, reply.Text, removeKeyboard())
}
