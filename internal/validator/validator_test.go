package validator

import (
	"errors"
	"strings"
	"testing"
)

type setForm struct {
	Name     string    `label:"name" validate:"required,max=64,setname"`
	Headings []heading `label:"columns" validate:"min=2,unique=Name,dive"`
}

type heading struct {
	Name string `label:"heading" validate:"required,heading"`
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return v
}

// TestSetNameRule verifies the characters accepted in memory set names.
func TestSetNameRule(t *testing.T) {
	v := newValidator(t)
	cols := []heading{{Name: "A"}, {Name: "B"}}

	tests := []struct {
		name string
		ok   bool
	}{
		{"Networking", true},
		{"port_numbers_2", true},
		{"Ports", true},
		{"Städte", true},
		{"_hidden", false},
		{"with space", false},
		{"semi;colon", false},
		{"", false},
	}
	for _, tt := range tests {
		err := v.Struct(setForm{Name: tt.name, Headings: cols})
		if (err == nil) != tt.ok {
			t.Fatalf("name %q: ok=%v, err=%v", tt.name, tt.ok, err)
		}
	}
}

// TestHeadingRule verifies heading characters and uniqueness.
func TestHeadingRule(t *testing.T) {
	v := newValidator(t)

	if err := v.Struct(setForm{Name: "s", Headings: []heading{{"Device"}, {"Port-no_1 x"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Struct(setForm{Name: "s", Headings: []heading{{"Device"}, {"Port?"}}}); err == nil {
		t.Fatalf("expected heading error")
	}
	if err := v.Struct(setForm{Name: "s", Headings: []heading{{"Device"}, {"Device"}}}); err == nil {
		t.Fatalf("expected uniqueness error")
	}
	if err := v.Struct(setForm{Name: "s", Headings: []heading{{"Device"}}}); err == nil {
		t.Fatalf("expected min columns error")
	}
}

// TestTranslatedMessages verifies failures carry English messages per field.
func TestTranslatedMessages(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(setForm{Name: "_x", Headings: []heading{{"A"}, {"B"}}})
	var ve *Error
	if !errors.As(err, &ve) {
		t.Fatalf("expected *Error, got %T", err)
	}
	fields := TranslateErrors(err)
	msg, ok := fields["name"]
	if !ok {
		t.Fatalf("expected name field, got %v", fields)
	}
	if !strings.Contains(msg, "underscore") {
		t.Fatalf("unexpected message %q", msg)
	}

	fields = TranslateErrors(errors.New("boom"))
	if fields["detail"] != "boom" {
		t.Fatalf("unexpected detail %v", fields)
	}
}
