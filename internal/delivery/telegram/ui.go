package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
	"github.com/aliskhannn/memorise-bot/internal/quiz"
)

const (
	choicesPerRow = 2
	// Telegram rejects inline keyboards with more than 100 buttons.
	choicesPerPage = 20
)

// choicePages returns the number of keyboard pages for n choices.
func choicePages(n int) int {
	if n == 0 {
		return 1
	}
	return (n + choicesPerPage - 1) / choicesPerPage
}

// buildChoiceKeyboard builds toggle buttons for one page of choices, page
// navigation when there is more than one page, and a submit button. Toggle
// payloads carry the index into the whole pool.
func buildChoiceKeyboard(choices []string, selected *quiz.Selection, page int) tgbotapi.InlineKeyboardMarkup {
	pages := choicePages(len(choices))
	page = min(max(page, 0), pages-1)
	start := page * choicesPerPage
	end := min(start+choicesPerPage, len(choices))

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i := start; i < end; i++ {
		label := choices[i]
		if selected.Has(choices[i]) {
			label = "✅ " + choices[i]
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildChoiceToggleCallback(i)))
		if len(row) == choicesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if pages > 1 {
		var nav []tgbotapi.InlineKeyboardButton
		if page > 0 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀", buildChoicePageCallback(page-1)))
		}
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d/%d", page+1, pages), buildChoicePageCallback(page)))
		if page < pages-1 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("▶", buildChoicePageCallback(page+1)))
		}
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📨 Submit", buildChoiceSubmitCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildVerdictKeyboard builds the keyboard shown after an incorrect answer.
func buildVerdictKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👌 Accept anyway", buildVerdictCallback(verdictAccept)),
			tgbotapi.NewInlineKeyboardButtonData("▶️ Continue", buildVerdictCallback(verdictContinue)),
		),
	)
}

// buildDropKeyboard asks for confirmation before a set is deleted.
func buildDropKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", buildDropCallback(dropConfirm)),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildDropCallback(dropCancel)),
		),
	)
}

// buildReminderKeyboard builds keyboard for a study reminder.
func buildReminderKeyboard(quizData string, withQuiz bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if withQuiz {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Start quiz", quizData),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔕 Stop reminders", buildReminderDisableCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildModeKeyboard builds keyboard for choosing the default answer mode.
func buildModeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⌨️ Free text", buildModeCallback(string(entities.ModeFreeText))),
			tgbotapi.NewInlineKeyboardButtonData("🔘 Multiple choice", buildModeCallback(string(entities.ModeMultipleChoice))),
		),
	)
}

// emptyKeyboard removes inline buttons from a message.
func emptyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
}
