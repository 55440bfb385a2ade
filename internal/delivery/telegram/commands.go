package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newPlainMessage(chatID, helpText))
	}
}

// handleSets lists the memory sets of the user.
func (h *Handler) handleSets(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		list, err := h.setService.List(ctx, userID)
		if err != nil {
			return err
		}

		if len(list) == 0 {
			return h.send(newPlainMessage(chatID, msgNoSets))
		}

		return h.send(newMessage(chatID, formatSetList(list)))
	}
}

// handleNew creates a memory set from "<name>: <col>, <col>".
func (h *Handler) handleNew(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name, cols, err := parseDefinition(args)
		if err != nil {
			return err
		}

		set, err := h.setService.Create(ctx, userID, name, cols)
		if err != nil {
			return err
		}

		return h.send(newMessage(chatID, formatSetCreated(set)))
	}
}

// handleAdd appends a row to a set.
func (h *Handler) handleAdd(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name, values, err := parseRow(args)
		if err != nil {
			return err
		}

		if err = h.setService.AddRow(ctx, userID, name, values); err != nil {
			return err
		}

		return h.send(newMessage(chatID, md("Row added to ")+bold(name)+md(".")))
	}
}

// handleDel removes the row with the given key.
func (h *Handler) handleDel(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name, key, err := parseNameKey(args)
		if err != nil {
			return err
		}

		if err = h.setService.DeleteRow(ctx, userID, name, key); err != nil {
			return err
		}

		return h.send(newMessage(chatID, md("Row ")+code(key)+md(" deleted from ")+bold(name)+md(".")))
	}
}

// handleShow renders a set as a table.
func (h *Handler) handleShow(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name := strings.TrimSpace(args)
		if name == "" {
			return usageError(usageShow)
		}

		set, snap, err := h.setService.Snapshot(ctx, userID, name)
		if err != nil {
			return err
		}

		return h.send(newMessage(chatID, formatTable(set, snap)))
	}
}

// handleDrop asks for confirmation before deleting a set with its history.
func (h *Handler) handleDrop(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name := strings.TrimSpace(args)
		if name == "" {
			return usageError(usageDrop)
		}

		set, err := h.setService.Get(ctx, userID, name)
		if err != nil {
			return err
		}

		h.setPendingDrop(chatID, set.Name)

		msg := newMessage(chatID, fmt.Sprintf("%s %s%s",
			md("Delete"),
			bold(set.Name),
			md(" with all its rows and test history?"),
		))
		msg.ReplyMarkup = buildDropKeyboard()
		return h.send(msg)
	}
}

// handleArchive hides a set from the active list or brings it back.
func (h *Handler) handleArchive(userID int64, args string, archived bool) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name := strings.TrimSpace(args)
		if name == "" {
			if archived {
				return usageError(usageArchive)
			}
			return usageError(usageRestore)
		}

		if err := h.setService.Archive(ctx, userID, name, archived); err != nil {
			return err
		}

		state := "restored"
		if archived {
			state = "archived"
		}
		return h.send(newMessage(chatID, bold(name)+md(" "+state+".")))
	}
}

// handleHistory lists the tests taken on a set.
func (h *Handler) handleHistory(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name := strings.TrimSpace(args)
		if name == "" {
			return usageError(usageHistory)
		}

		tests, err := h.reviewService.History(ctx, userID, name)
		if err != nil {
			return err
		}

		if len(tests) == 0 {
			return h.send(newPlainMessage(chatID, msgNoHistory))
		}

		return h.send(newMessage(chatID, formatHistory(name, tests)))
	}
}

// handleReview shows the stored answers of one test.
func (h *Handler) handleReview(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, err := uuid.Parse(strings.TrimSpace(args))
		if err != nil {
			return usageError(usageReview)
		}

		summary, answers, err := h.reviewService.Test(ctx, userID, id)
		if err != nil {
			return err
		}

		h.logger.Debug("reviewing test",
			zap.Int64("user_id", userID),
			zap.String("test_id", id.String()),
			zap.Int("answers", len(answers)),
		)

		return h.send(newMessage(chatID, formatReview(summary, answers)))
	}
}
