package telegram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

// errUsage marks malformed command arguments; the wrapped text is the usage line.
var errUsage = errors.New("usage")

func usageError(usage string) error {
	return fmt.Errorf("%w: %s", errUsage, usage)
}

// splitNamed splits "<name>: <rest>" at the first colon.
func splitNamed(args string) (name, rest string, ok bool) {
	name, rest, ok = strings.Cut(args, ":")
	name = strings.TrimSpace(name)
	rest = strings.TrimSpace(rest)
	return name, rest, ok && name != ""
}

// parseDefinition parses "<name>: <col>, <col>*, ..." where a trailing *
// marks an answer only column.
func parseDefinition(args string) (string, []entities.Column, error) {
	name, rest, ok := splitNamed(args)
	if !ok || rest == "" {
		return "", nil, usageError(usageNew)
	}

	var cols []entities.Column
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		answerOnly := strings.HasSuffix(part, "*")
		part = strings.TrimSpace(strings.TrimSuffix(part, "*"))
		cols = append(cols, entities.Column{Name: part, AnswerOnly: answerOnly})
	}
	return name, cols, nil
}

// parseRow parses "<name>: <value> | <value> | ...". Values may be empty.
func parseRow(args string) (string, []string, error) {
	name, rest, ok := splitNamed(args)
	if !ok || rest == "" {
		return "", nil, usageError(usageAdd)
	}

	parts := strings.Split(rest, "|")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, strings.TrimSpace(p))
	}
	return name, values, nil
}

// parseNameKey parses "<name>: <key>".
func parseNameKey(args string) (string, string, error) {
	name, key, ok := splitNamed(args)
	if !ok || key == "" {
		return "", "", usageError(usageDel)
	}
	return name, key, nil
}

// parseQuizArgs parses "<name> [mode]". The name may contain spaces.
func parseQuizArgs(args string) (string, entities.AnswerMode, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", "", usageError(usageQuiz)
	}
	if len(fields) > 1 {
		if mode, ok := entities.ParseAnswerMode(fields[len(fields)-1]); ok {
			return strings.Join(fields[:len(fields)-1], " "), mode, nil
		}
	}
	return strings.Join(fields, " "), "", nil
}

// parseSwitch parses "on" or "off".
func parseSwitch(args string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on", "yes", "enable":
		return true, true
	case "off", "no", "disable":
		return false, true
	default:
		return false, false
	}
}
