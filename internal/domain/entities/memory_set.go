// Package entities contains domain entities used across the application.
package entities

import "time"

// Column is a named column of a memory set.
type Column struct {
	Name       string `validate:"required,max=64,heading"`
	AnswerOnly bool   // never used as the source of a question
}

// MemorySet is a user-defined table of facts under study.
type MemorySet struct {
	ID             int64
	UserID         int64      // owner
	Name           string     // unique per owner
	Columns        []Column   // declared order, the first column is the row key
	CreatedAt      time.Time  // timestamp when the set was registered
	ArchivedAt     *time.Time // nullable
	LastRemindedAt *time.Time // last time a study reminder was sent for the set
}

// NewMemorySet creates a memory set owned by userID.
func NewMemorySet(userID int64, name string, columns []Column) *MemorySet {
	return &MemorySet{
		UserID:    userID,
		Name:      name,
		Columns:   columns,
		CreatedAt: time.Now(),
	}
}

// ColumnNames returns the column names in declared order.
func (m *MemorySet) ColumnNames() []string {
	names := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		names = append(names, c.Name)
	}
	return names
}

// KeyColumn returns the name of the row key column.
func (m *MemorySet) KeyColumn() string {
	if len(m.Columns) == 0 {
		return ""
	}
	return m.Columns[0].Name
}

// Row maps column name to cell value. An empty string is a blank cell.
type Row map[string]string

// TableSnapshot is a read-only view of a memory set used for one quiz session.
type TableSnapshot struct {
	Columns []Column
	Rows    []Row
}

// NewTableSnapshot builds a snapshot from the set definition and its rows.
func NewTableSnapshot(set *MemorySet, rows []Row) *TableSnapshot {
	return &TableSnapshot{
		Columns: set.Columns,
		Rows:    rows,
	}
}

// Value returns the cell of row r in column col, or "" when unset.
func (s *TableSnapshot) Value(r int, col string) string {
	if r < 0 || r >= len(s.Rows) {
		return ""
	}
	return s.Rows[r][col]
}

// MemorySetSummary is one line of the memory set listing.
type MemorySetSummary struct {
	Name      string
	CreatedAt time.Time
	LastUsed  *time.Time // timestamp of the latest test, nil if never tested
	TimesUsed int        // number of recorded tests
	Archived  bool
	RowCount  int
}

// StaleMemorySet is a memory set that has not been studied for a while.
type StaleMemorySet struct {
	SetID     int64
	UserID    int64
	ChatID    int64
	Name      string
	CreatedAt time.Time
	LastUsed  *time.Time // nil when the set was never tested
	RowCount  int
}

// Payload builds the reminder payload for the set as of now.
func (s StaleMemorySet) Payload(now time.Time) ReminderPayload {
	since := s.CreatedAt
	if s.LastUsed != nil {
		since = *s.LastUsed
	}
	days := int(now.Sub(since).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return ReminderPayload{
		SetName:  s.Name,
		LastUsed: s.LastUsed,
		RowCount: s.RowCount,
		DaysIdle: days,
	}
}
