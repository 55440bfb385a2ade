// Package validator wraps go-playground/validator with the custom rules used
// by memory set definitions and English error messages.
package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var headingPattern = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)

// Validator validates structs and translates failures into readable messages.
type Validator struct {
	validate *govalidator.Validate
	trans    ut.Translator
}

// New creates a validator with the setname and heading rules registered.
func New() (*Validator, error) {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())

	// Use the label tag for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("label"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("setname", validateSetName); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("heading", validateHeading); err != nil {
		return nil, err
	}

	// Register English translations.
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	custom := map[string]string{
		"setname": "{0} may only contain letters, digits and underscores and must not start with an underscore",
		"heading": "{0} may only contain latin letters, digits, spaces, '-' and '_'",
	}
	for tag, text := range custom {
		if err := v.RegisterTranslation(tag, trans, registerText(tag, text), translateField); err != nil {
			return nil, err
		}
	}

	return &Validator{validate: v, trans: trans}, nil
}

// Struct validates s. On failure the returned error is an *Error.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &Error{}
	for _, fe := range ve {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(v.trans),
		})
	}
	return out
}

// FieldError is a single translated validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Error collects the translated failures of one validation run.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// TranslateErrors returns a map of field name to message. Errors that are not
// validation errors are returned under "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve *Error
	if errors.As(err, &ve) {
		for _, f := range ve.Fields {
			fields[f.Field] = f.Message
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

func validateSetName(fl govalidator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || strings.HasPrefix(name, "_") {
		return false
	}
	for _, c := range name {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			return false
		}
	}
	return true
}

func validateHeading(fl govalidator.FieldLevel) bool {
	return headingPattern.MatchString(fl.Field().String())
}

func registerText(tag, text string) govalidator.RegisterTranslationsFunc {
	return func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}
}

func translateField(ut ut.Translator, fe govalidator.FieldError) string {
	t, err := ut.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}
	return t
}
