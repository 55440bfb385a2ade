// Package importer reads memory set documents from YAML files.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/memorise-bot/internal/domain/entities"
)

var ErrInvalidDocument = errors.New("invalid memory set document")

// Document is a memory set definition together with its rows.
type Document struct {
	Name    string       `yaml:"name"`
	Columns []ColumnSpec `yaml:"columns"`
	Rows    [][]string   `yaml:"rows"`
}

// ColumnSpec declares one column of a document.
type ColumnSpec struct {
	Name       string `yaml:"name"`
	AnswerOnly bool   `yaml:"answer_only"`
}

// Load reads and parses the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read memory set: %w", err)
	}
	return Parse(data)
}

// Parse decodes a single YAML document and checks its shape.
func Parse(data []byte) (Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("parse yaml: %w: empty document", ErrInvalidDocument)
		}
		return Document{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Document{}, fmt.Errorf("parse yaml: multiple YAML documents are not supported")
		}
		return Document{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := doc.check(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (d Document) check() error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidDocument)
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("%w: row %d has %d values, expected %d", ErrInvalidDocument, i+1, len(row), len(d.Columns))
		}
	}
	return nil
}

// ColumnDefs converts the column specs into domain columns.
func (d Document) ColumnDefs() []entities.Column {
	cols := make([]entities.Column, 0, len(d.Columns))
	for _, c := range d.Columns {
		cols = append(cols, entities.Column{Name: c.Name, AnswerOnly: c.AnswerOnly})
	}
	return cols
}

// RowValues returns the rows as ordered value lists, one value per column.
func (d Document) RowValues() [][]string {
	out := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
