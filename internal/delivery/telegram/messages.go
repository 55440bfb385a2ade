// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

// Plain text messages.
const (
	msgInternalError     = "Something went wrong. Please try again later."
	msgUnknownCommand    = "Unknown command. Send /help for the list of commands."
	msgNoSets            = "You have no memory sets yet. Create one with /new."
	msgSetNotFound       = "No memory set with this name."
	msgSetExists         = "A memory set with this name already exists."
	msgDuplicateRow      = "This row already exists."
	msgRowNotFound       = "No row with this key."
	msgTestNotFound      = "No test with this id."
	msgEmptyQuiz         = "This memory set has nothing to quiz yet. Add rows with /add."
	msgQuizActive        = "A quiz is already running. Finish it or send /stop."
	msgNoActiveQuiz      = "There is no active quiz. Start one with /quiz <name>."
	msgQuizStopped       = "Quiz stopped. Results were discarded."
	msgUseButtons        = "Pick your answers with the buttons and press Submit."
	msgDecideFirst       = "Choose \"Accept anyway\" or \"Continue\" first."
	msgDropCancelled     = "Nothing was deleted."
	msgNoHistory         = "This memory set has not been tested yet."
	msgRemindersOn       = "Study reminders are on."
	msgRemindersOff      = "Study reminders are off. Turn them on again with /reminders on."
	msgAcceptedAnyway    = "Accepted as correct."
	msgCorrect           = "✅ Correct!"
	msgStaleKeyboard     = "This question is no longer active."
	msgResultSaveFailure = "The quiz is over, but the results could not be saved."
)

// Usage lines shown for malformed commands.
const (
	usageNew      = "/new <name>: <column>, <column>, ...\nSuffix a column with * to make it answer only."
	usageAdd      = "/add <name>: <value> | <value> | ..."
	usageDel      = "/del <name>: <key>"
	usageShow     = "/show <name>"
	usageDrop     = "/drop <name>"
	usageQuiz     = "/quiz <name> [text|choice]"
	usageHistory  = "/history <name>"
	usageReview   = "/review <test id>"
	usageMode     = "/mode text|choice"
	usageArchive  = "/archive <name>"
	usageRestore  = "/unarchive <name>"
	usageReminder = "/reminders on|off"
)

const helpText = `Memorise helps you learn tables of facts.

/sets lists your memory sets
/new <name>: <column>, <column>* creates a set (* marks answer only columns)
/add <name>: <value> | <value> adds a row
/del <name>: <key> deletes a row
/show <name> shows a set
/drop <name> deletes a set
/archive <name>, /unarchive <name>
/quiz <name> [text|choice] starts a quiz
/stop abandons the running quiz
/history <name> lists past tests
/review <test id> shows the answers of a test
/mode text|choice sets your default answer mode
/settings shows your settings
/reminders on|off switches study reminders`

const timeLayout = "2006-01-02 15:04"

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func code(s string) string {
	return "`" + md(s) + "`"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

func formatModeName(mode entities.AnswerMode) string {
	switch mode {
	case entities.ModeMultipleChoice:
		return "multiple choice"
	case entities.ModeFreeText:
		return "free text"
	default:
		return string(mode)
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.UTC().Format(timeLayout)
}

// formatSetList renders the memory set listing.
func formatSetList(list []entities.MemorySetSummary) string {
	var sb strings.Builder
	sb.WriteString(bold("📚 Your memory sets"))
	sb.WriteString("\n")

	for _, s := range list {
		sb.WriteString("\n")
		name := bold(s.Name)
		if s.Archived {
			name = md(s.Name + " (archived)")
		}
		sb.WriteString(name)
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("rows: %d, created: %s, last used: %s, times used: %d",
			s.RowCount,
			s.CreatedAt.UTC().Format(timeLayout),
			formatTime(s.LastUsed),
			s.TimesUsed,
		)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatColumns(cols []entities.Column) string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.AnswerOnly {
			names = append(names, c.Name+"*")
			continue
		}
		names = append(names, c.Name)
	}
	return strings.Join(names, " | ")
}

// formatSetCreated confirms a new memory set.
func formatSetCreated(set *entities.MemorySet) string {
	return fmt.Sprintf(
		"%s %s\n\n%s\n%s",
		md("Created memory set"),
		bold(set.Name),
		code(formatColumns(set.Columns)),
		md("Add rows with /add "+set.Name+": "+strings.Repeat("<value> | ", len(set.Columns)-1)+"<value>"),
	)
}

// formatTable renders a memory set with its rows.
func formatTable(set *entities.MemorySet, snap *entities.TableSnapshot) string {
	var sb strings.Builder
	sb.WriteString(bold(set.Name))
	if set.ArchivedAt != nil {
		sb.WriteString(md(" (archived)"))
	}
	sb.WriteString("\n\n")

	var table strings.Builder
	table.WriteString(formatColumns(set.Columns))
	for i := range snap.Rows {
		table.WriteString("\n")
		values := make([]string, 0, len(set.Columns))
		for _, c := range set.Columns {
			values = append(values, snap.Value(i, c.Name))
		}
		table.WriteString(strings.Join(values, " | "))
	}
	sb.WriteString("```\n")
	sb.WriteString(escapePre(table.String()))
	sb.WriteString("\n```")

	if len(snap.Rows) == 0 {
		sb.WriteString("\n")
		sb.WriteString(md("No rows yet."))
	}
	return sb.String()
}

// escapePre escapes text for a MarkdownV2 pre block.
func escapePre(s string) string {
	return strings.NewReplacer("\\", "\\\\", "`", "\\`").Replace(s)
}

// formatQuizStart announces a new session.
func formatQuizStart(setName string, mode entities.AnswerMode, total int) string {
	return fmt.Sprintf(
		"%s\n\n%s %s\n%s %s",
		bold("🎯 Quiz on "+setName),
		md("Mode:"),
		bold(formatModeName(mode)),
		md("Questions:"),
		bold(fmt.Sprint(total)),
	)
}

// formatQuestion renders the current question.
func formatQuestion(q entities.Question, num, total int, mode entities.AnswerMode) string {
	hint := "Send one answer per line."
	if mode == entities.ModeMultipleChoice {
		hint = "Select every matching answer, then press Submit."
	}
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s",
		md(fmt.Sprintf("Question %d of %d", num, total)),
		bold(q.Prompt()),
		md(hint),
	)
}

// maxMessageLength is the Telegram limit for message text. The byte length
// of escaped text never undercounts it.
const maxMessageLength = 4096

// formatIncorrect explains a mismatch and shows the original accepted answers.
// Both lists are cut short to keep the message within maxMessageLength.
func formatIncorrect(a entities.GradedAnswer) string {
	var sb strings.Builder
	sb.WriteString(md("❌ Incorrect"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Accepted answers:"))
	writeBullets(&sb, a.Question.Accepted, maxMessageLength/2)
	sb.WriteString("\n\n")
	sb.WriteString(md("Your answer:"))
	if len(a.NormalizedSubmitted) == 0 {
		sb.WriteString(" ")
		sb.WriteString(md("(nothing)"))
	}
	writeBullets(&sb, a.NormalizedSubmitted, maxMessageLength)
	return sb.String()
}

// writeBullets appends one bullet per value while sb stays within limit
// bytes, then notes how many values were left out.
func writeBullets(sb *strings.Builder, values []string, limit int) {
	for i, v := range values {
		line := "\n" + md("• "+v)
		reserve := 0
		if rest := len(values) - i - 1; rest > 0 {
			reserve = len(moreBullets(rest))
		}
		if sb.Len()+len(line)+reserve > limit {
			sb.WriteString(moreBullets(len(values) - i))
			return
		}
		sb.WriteString(line)
	}
}

func moreBullets(n int) string {
	return "\n" + md(fmt.Sprintf("… and %d more", n))
}

// formatQuizResult renders the final score of a recorded test.
func formatQuizResult(result *entities.TestResult) string {
	answered := len(result.Answers)
	correct := answered - result.Incorrect
	percentage := 0.0
	if answered > 0 {
		percentage = float64(correct) / float64(answered) * 100
	}

	emoji, message := "📚", "Keep practising!"
	switch {
	case percentage >= 90:
		emoji, message = "🌟", "Excellent!"
	case percentage >= 70:
		emoji, message = "👍", "Good result!"
	case percentage >= 50:
		emoji, message = "💪", "Not bad, keep going!"
	}

	return fmt.Sprintf(
		"%s %s\n\n%s %s\n%s\n\n%s\n%s",
		md(emoji),
		md("Quiz finished!"),
		md("Result:"),
		bold(fmt.Sprintf("%d/%d (%.0f%%)", correct, answered, percentage)),
		md(buildProgressBar(correct, answered, 10)),
		md(message),
		md("Review it with /review ")+code(result.ID.String()),
	)
}

func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}

	filled := current * length / total
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

// formatHistory lists the tests of a set.
func formatHistory(setName string, tests []entities.TestSummary) string {
	var sb strings.Builder
	sb.WriteString(bold("🗂 Tests of " + setName))
	sb.WriteString("\n")
	for _, t := range tests {
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("%s, %s, %d/%d correct (%.0f%%)",
			t.TakenAt.UTC().Format(timeLayout),
			formatModeName(t.Mode),
			t.Answered-t.Incorrect,
			t.Answered,
			t.Score(),
		)))
		sb.WriteString("\n")
		sb.WriteString(code(t.ID.String()))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatReview renders the stored answers of one test.
func formatReview(t *entities.TestSummary, answers []entities.StoredAnswer) string {
	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("🔎 %s, %s", t.SetName, t.TakenAt.UTC().Format(timeLayout))))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("%d/%d correct", t.Answered-t.Incorrect, t.Answered)))
	sb.WriteString("\n")

	for _, a := range answers {
		mark := "✅"
		if !a.IsCorrect {
			mark = "❌"
		}
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("%s %d. %s", mark, a.QuestionID+1, a.Prompt())))
		sb.WriteString("\n")
		sb.WriteString(md("Your answer: " + strings.ReplaceAll(orNothing(a.UserAnswer), "\n", ", ")))
		sb.WriteString("\n")
		sb.WriteString(md("Correct answer: " + strings.ReplaceAll(a.CorrectAnswer, "\n", ", ")))
		sb.WriteString("\n")
	}
	return sb.String()
}

func orNothing(s string) string {
	if s == "" {
		return "(nothing)"
	}
	return s
}

// formatReminder builds the study reminder notification.
func formatReminder(p entities.ReminderPayload) string {
	last := "You have not tested it yet."
	if p.LastUsed != nil {
		last = fmt.Sprintf("Last test: %s (%d days ago).", p.LastUsed.UTC().Format(timeLayout), p.DaysIdle)
	}
	return fmt.Sprintf(
		"%s\n\n%s %s %s\n%s",
		bold("⏰ Time to practise"),
		md("Your memory set"),
		bold(p.SetName),
		md(fmt.Sprintf("has %d rows waiting.", p.RowCount)),
		md(last),
	)
}

func formatSettings(s *entities.UserSettings) string {
	reminders := "on"
	if !s.RemindersEnabled {
		reminders = "off"
	}
	return fmt.Sprintf(
		"%s\n\n%s %s\n%s %s",
		bold("⚙️ Settings"),
		md("Default answer mode:"),
		bold(formatModeName(s.DefaultMode)),
		md("Study reminders:"),
		bold(reminders),
	)
}
