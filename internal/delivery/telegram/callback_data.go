package telegram

import (
	"strconv"
	"strings"
)

// maxCallbackData is the Telegram limit for inline button payloads, in bytes.
const maxCallbackData = 64

// Callback action constants.
const (
	actionChoice   = "mc"
	actionVerdict  = "res"
	actionDrop     = "drop"
	actionQuiz     = "quiz"
	actionReminder = "rem"
	actionMode     = "mode"
)

// Multiple choice sub-actions.
const (
	choiceToggle = "t"
	choicePage   = "p"
	choiceSubmit = "s"
)

// Verdict sub-actions for an incorrect answer.
const (
	verdictAccept   = "ok"
	verdictContinue = "next"
)

// Drop sub-actions.
const (
	dropConfirm = "yes"
	dropCancel  = "no"
)

// Reminder sub-actions.
const (
	reminderDisable = "off"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string. The last parameter keeps any
// further separators, so set names survive the round trip.
func decodeCallback(data string, params int) callbackData {
	parts := strings.SplitN(data, ":", params+1)
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam returns the i-th parameter as a non-negative integer.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// buildChoiceToggleCallback builds callback data for toggling choice index i.
func buildChoiceToggleCallback(i int) string {
	return callbackData{
		Action: actionChoice,
		Params: []string{choiceToggle, strconv.Itoa(i)},
	}.encode()
}

// buildChoicePageCallback builds callback data for showing choice page p.
func buildChoicePageCallback(p int) string {
	return callbackData{
		Action: actionChoice,
		Params: []string{choicePage, strconv.Itoa(p)},
	}.encode()
}

// buildChoiceSubmitCallback builds callback data for submitting the current selection.
func buildChoiceSubmitCallback() string {
	return callbackData{
		Action: actionChoice,
		Params: []string{choiceSubmit},
	}.encode()
}

// buildVerdictCallback builds callback data for the decision on an incorrect answer.
func buildVerdictCallback(sub string) string {
	return callbackData{
		Action: actionVerdict,
		Params: []string{sub},
	}.encode()
}

func buildDropCallback(sub string) string {
	return callbackData{Action: actionDrop, Params: []string{sub}}.encode()
}

// buildQuizStartCallback builds callback data for starting a quiz on setName.
// It reports false when the payload would exceed the Telegram limit.
func buildQuizStartCallback(setName string) (string, bool) {
	data := callbackData{
		Action: actionQuiz,
		Params: []string{setName},
	}.encode()
	return data, len(data) <= maxCallbackData
}

func buildReminderDisableCallback() string {
	return callbackData{Action: actionReminder, Params: []string{reminderDisable}}.encode()
}

func buildModeCallback(mode string) string {
	return callbackData{Action: actionMode, Params: []string{mode}}.encode()
}
