package entities

import "time"

// ReminderPayload is used to build a study reminder message for one memory set.
type ReminderPayload struct {
	SetName  string
	LastUsed *time.Time // nil when the set was never tested
	RowCount int
	DaysIdle int // whole days since the last test or since creation
}
