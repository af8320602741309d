// Package validation turns raw, client-supplied field maps into sanitized
// inputs. Every field is checked before returning, so callers get the full set
// of problems at once.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to the messages describing what is wrong with it.
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a message for field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has at least one message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First keeps only the first message per field, which is what forms display.
func (e Errors) First() map[string]string {
	out := make(map[string]string, len(e))
	for f, msgs := range e {
		if len(msgs) > 0 {
			out[f] = msgs[0]
		}
	}
	return out
}

// AsErrors extracts Errors from err.
func AsErrors(err error) (Errors, bool) {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// collect runs struct-level rules and adds messages for fields that have not
// already failed a type check.
func collect(form any, errs Errors) {
	err := validate.Struct(form)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("_form", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		if errs.Has(fe.Field()) {
			continue
		}
		errs.Add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("The %s field must be a number.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

func mustBeString(field string) string {
	return fmt.Sprintf("The %s field must be a string.", field)
}

// stringField reads key from raw. Absent and null both give ok=true with an
// empty value; anything that is not a string gives ok=false.
func stringField(raw map[string]any, key string) (value string, present bool, ok bool) {
	v, exists := raw[key]
	if !exists || v == nil {
		return "", false, true
	}
	s, isString := v.(string)
	if !isString {
		return "", true, false
	}
	return s, true, true
}
