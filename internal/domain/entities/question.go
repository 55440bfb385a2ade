package entities

import "fmt"

// Question asks for the values of TargetColumn in the rows where
// SourceColumn holds SourceValue.
type Question struct {
	SourceColumn string
	SourceValue  string
	TargetColumn string
	Accepted     []string // distinct non-empty target values for the key, never empty
	Choices      []string // every distinct non-empty value of TargetColumn
}

// Prompt renders the question text.
func (q Question) Prompt() string {
	return FormatPrompt(q.SourceColumn, q.SourceValue, q.TargetColumn)
}

// FormatPrompt renders the question text for a source column/value and target column.
func FormatPrompt(sourceColumn, sourceValue, targetColumn string) string {
	return fmt.Sprintf("Values from column %s that have the value %s in column %s:",
		targetColumn, sourceValue, sourceColumn)
}
