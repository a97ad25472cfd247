// Package form validates HTML form submissions.
//
// A form is a declarative list of typed fields. One Validate routine walks
// the list and applies the per-kind rules, so handlers never inspect raw
// request values: they declare the fields, ask whether a valid submission
// arrived, and read back coerced values.
package form

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Kind is the tagged variant selecting a field's validation and coercion rules.
type Kind int

const (
	// Text is a single-line free text field.
	Text Kind = iota
	// Password is a Text field whose value is never echoed back by templates.
	Password
	// LongText is a multi-line free text field.
	LongText
	// Integer is an optional non-negative whole number.
	Integer
	// MultiSelectReference is a multi-select whose values must be drawn from
	// a set of options queried fresh per validation (e.g. the label table).
	MultiSelectReference
	// Hidden is an untyped passthrough value.
	Hidden
)

// Messages shown next to a field when its rule fails.
const (
	msgRequired     = "This field is required."
	msgNotAnInteger = "Not a valid integer value."
	msgNegative     = "Must not be negative."
	msgBadChoice    = "Not a valid choice."
)

// Option is one permitted value of a MultiSelectReference field.
type Option struct {
	Value string
	Label string
}

// Field is one declared form field plus its submitted state.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	// Options is the permitted value set for MultiSelectReference fields.
	Options []Option

	// Value is the raw submitted (or prefilled) value for scalar fields.
	Value string
	// Selected holds the raw submitted values for MultiSelectReference fields.
	Selected []string
	// Errors are the human-readable validation messages for this field.
	Errors []string

	intValue  *int
	refValues []uuid.UUID
}

// NewText declares a single-line text field.
func NewText(name, label string, required bool) *Field {
	return &Field{Name: name, Label: label, Kind: Text, Required: required}
}

// NewPassword declares a password field.
func NewPassword(name, label string, required bool) *Field {
	return &Field{Name: name, Label: label, Kind: Password, Required: required}
}

// NewLongText declares a multi-line text field.
func NewLongText(name, label string, required bool) *Field {
	return &Field{Name: name, Label: label, Kind: LongText, Required: required}
}

// NewInteger declares an optional non-negative integer field.
func NewInteger(name, label string) *Field {
	return &Field{Name: name, Label: label, Kind: Integer}
}

// NewMultiSelect declares a multi-select reference field over the given options.
func NewMultiSelect(name, label string, options []Option) *Field {
	return &Field{Name: name, Label: label, Kind: MultiSelectReference, Options: options}
}

// NewHidden declares a hidden passthrough field.
func NewHidden(name string) *Field {
	return &Field{Name: name, Kind: Hidden}
}

// Form is an ordered set of fields validated as a unit.
type Form struct {
	fields []*Field
	byName map[string]*Field
}

// New builds a form from the declared fields.
func New(fields ...*Field) *Form {
	f := &Form{fields: fields, byName: make(map[string]*Field, len(fields))}
	for _, fl := range fields {
		f.byName[fl.Name] = fl
	}
	return f
}

// Fields returns the declared fields in declaration order, for rendering.
func (f *Form) Fields() []*Field { return f.fields }

// Field returns the field with the given name, or nil.
func (f *Form) Field(name string) *Field { return f.byName[name] }

// SetValue prefills a scalar field, e.g. when populating an edit form from
// the stored recipe.
func (f *Form) SetValue(name, value string) {
	if fl := f.byName[name]; fl != nil {
		fl.Value = value
	}
}

// AddError attaches an out-of-band error message to a field. Used by the
// login handler, where credential mismatches are field-scoped errors rather
// than validation rule failures.
func (f *Form) AddError(name, msg string) {
	if fl := f.byName[name]; fl != nil {
		fl.Errors = append(fl.Errors, msg)
	}
}

// HasErrors reports whether any field carries an error message.
func (f *Form) HasErrors() bool {
	for _, fl := range f.fields {
		if len(fl.Errors) > 0 {
			return true
		}
	}
	return false
}

// ValidateOnSubmit reports whether the request carries a valid submission of
// this form. When the request is not a submission at all (wrong method,
// missing anti-forgery token, empty query string — per the strategy), it
// returns false without binding or flagging anything, so the caller renders
// a pristine form. When it is a submission, fields are bound and validated;
// invalid submissions leave per-field error messages behind.
func (f *Form) ValidateOnSubmit(r *http.Request, sub Submission) bool {
	if !sub.Submitted(r) {
		return false
	}
	f.bind(sub.Values(r))
	return f.validate()
}

// String returns the trimmed submitted value of a scalar field.
func (f *Form) String(name string) string {
	fl := f.byName[name]
	if fl == nil {
		return ""
	}
	return strings.TrimSpace(fl.Value)
}

// Int returns the coerced value of an Integer field, or nil when the field
// was left blank. Only meaningful after a successful Validate.
func (f *Form) Int(name string) *int {
	fl := f.byName[name]
	if fl == nil {
		return nil
	}
	return fl.intValue
}

// UUIDs returns the coerced values of a MultiSelectReference field.
// Only meaningful after a successful Validate.
func (f *Form) UUIDs(name string) []uuid.UUID {
	fl := f.byName[name]
	if fl == nil {
		return nil
	}
	return fl.refValues
}

// bind copies raw request values onto the declared fields.
func (f *Form) bind(values map[string][]string) {
	for _, fl := range f.fields {
		if fl.Kind == MultiSelectReference {
			fl.Selected = values[fl.Name]
			continue
		}
		if vs := values[fl.Name]; len(vs) > 0 {
			fl.Value = vs[0]
		}
	}
}

// validate applies each field's kind-specific rules, collecting per-field
// messages. A submission is valid only when every field passes.
func (f *Form) validate() bool {
	ok := true
	for _, fl := range f.fields {
		fl.Errors = nil
		fl.intValue = nil
		fl.refValues = nil
		if !validateField(fl) {
			ok = false
		}
	}
	return ok
}

func validateField(fl *Field) bool {
	switch fl.Kind {
	case Text, Password, LongText:
		if fl.Required && strings.TrimSpace(fl.Value) == "" {
			fl.Errors = append(fl.Errors, msgRequired)
			return false
		}

	case Integer:
		raw := strings.TrimSpace(fl.Value)
		if raw == "" {
			if fl.Required {
				fl.Errors = append(fl.Errors, msgRequired)
				return false
			}
			return true
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fl.Errors = append(fl.Errors, msgNotAnInteger)
			return false
		}
		if n < 0 {
			fl.Errors = append(fl.Errors, msgNegative)
			return false
		}
		fl.intValue = &n

	case MultiSelectReference:
		permitted := make(map[string]bool, len(fl.Options))
		for _, opt := range fl.Options {
			permitted[opt.Value] = true
		}
		var refs []uuid.UUID
		for _, raw := range fl.Selected {
			id, err := uuid.Parse(raw)
			if err != nil || !permitted[raw] {
				fl.Errors = append(fl.Errors, msgBadChoice)
				return false
			}
			refs = append(refs, id)
		}
		if fl.Required && len(refs) == 0 {
			fl.Errors = append(fl.Errors, msgRequired)
			return false
		}
		fl.refValues = refs

	case Hidden:
		// Passthrough: no rules.
	}
	return true
}
