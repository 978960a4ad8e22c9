// Package bot adapts the conversation machine to the Telegram Bot API:
// long-polling update intake, per-requester serialized dispatch, and
// rendering of machine replies into messages with inline keyboards.
package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/timaholls/tg-info-S3Disk/internal/conversation"
)

// backKeyboard carries the single back-navigation button.
func backKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", conversation.ChoiceBack),
		),
	)
}

// confirmKeyboard carries the final yes/no pair. "Нет" loops back to the
// department selection, hence the redo glyph.
func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да", conversation.ChoiceConfirmYes),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Нет", conversation.ChoiceConfirmNo),
		),
	)
}

// additionalKeyboard carries the additional-departments decision pair.
func additionalKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да", conversation.ChoiceAdditionalYes),
			tgbotapi.NewInlineKeyboardButtonData("❌ Нет", conversation.ChoiceAdditionalNo),
		),
	)
}

// markupFor maps a machine keyboard tag to its Telegram rendering. Returns
// nil for KeyboardNone.
func markupFor(k conversation.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	var m tgbotapi.InlineKeyboardMarkup
	switch k {
	case conversation.KeyboardBack:
		m = backKeyboard()
	case conversation.KeyboardConfirm:
		m = confirmKeyboard()
	case conversation.KeyboardAdditional:
		m = additionalKeyboard()
	default:
		return nil
	}
	return &m
}
