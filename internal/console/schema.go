package console

import (
	"strings"

	"fleetadmin/internal/validate"
)

// FieldKind selects the input control of a field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindDate
	KindSelect
	KindTextArea
	KindEmail
	KindPhone
	KindPassword
	KindCheckbox
	KindList
)

// InputType is the HTML input type for kinds rendered as <input>.
func (k FieldKind) InputType() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindEmail:
		return "email"
	case KindPhone:
		return "tel"
	case KindPassword:
		return "password"
	case KindCheckbox:
		return "checkbox"
	default:
		return "text"
	}
}

type Option struct {
	Value string
	Label string
}

// Options builds options whose labels are the values in title case.
func Options(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: Humanize(v)})
	}
	return out
}

// Humanize turns km_wise or mini-bus into "Km Wise" or "Mini Bus".
func Humanize(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Field is one input. Key is relative to its section.
type Field struct {
	Key         string
	Label       string
	Kind        FieldKind
	Required    bool
	Options     []Option
	Validator   string
	Default     string
	Placeholder string
	CreateOnly  bool
}

// Condition shows a section only while Field holds one of Values.
type Condition struct {
	Field  string
	Values []string
}

func (c *Condition) Match(v Values) bool {
	if c == nil {
		return true
	}
	got := v.Get(c.Field)
	for _, want := range c.Values {
		if got == want {
			return true
		}
	}
	return false
}

// Section groups the fields of one sub-document.
type Section struct {
	Key      string
	Title    string
	Fields   []Field
	ShowWhen *Condition
}

// Derivation computes Target from Inputs. Compute reports false while an
// input is missing, leaving Target editable by hand.
type Derivation struct {
	Target  string
	Inputs  []string
	Compute func(v Values) (string, bool)
}

// Schema is the field tree of an entity form.
type Schema struct {
	Sections []Section
	Derived  []Derivation
}

// Values holds form state keyed by "section.field".
type Values map[string]string

// Key joins a section and field key.
func Key(section, field string) string {
	if section == "" {
		return field
	}
	return section + "." + field
}

func (v Values) Get(key string) string { return v[key] }

func (v Values) Set(key, value string) { v[key] = value }

func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Defaults returns every field at its default value.
func (s Schema) Defaults() Values {
	v := Values{}
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			v[Key(sec.Key, f.Key)] = f.Default
		}
	}
	return v
}

// Field looks up a field by its full key.
func (s Schema) Field(key string) (Field, bool) {
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if Key(sec.Key, f.Key) == key {
				return f, true
			}
		}
	}
	return Field{}, false
}

// Visible returns the sections shown for v. Create-only fields are dropped
// when editing.
func (s Schema) Visible(v Values, creating bool) []Section {
	out := make([]Section, 0, len(s.Sections))
	for _, sec := range s.Sections {
		if !sec.ShowWhen.Match(v) {
			continue
		}
		if !creating {
			fields := make([]Field, 0, len(sec.Fields))
			for _, f := range sec.Fields {
				if !f.CreateOnly {
					fields = append(fields, f)
				}
			}
			sec.Fields = fields
		}
		out = append(out, sec)
	}
	return out
}

// Derive recomputes every derived field whose inputs are present.
func (s Schema) Derive(v Values) {
	for _, d := range s.Derived {
		if val, ok := d.Compute(v); ok {
			v[d.Target] = val
		}
	}
}

// Locked reports a derived field whose inputs are all present.
func (s Schema) Locked(v Values, key string) bool {
	for _, d := range s.Derived {
		if d.Target != key {
			continue
		}
		if _, ok := d.Compute(v); ok {
			return true
		}
	}
	return false
}

// ResetHidden puts the fields of hidden sections back to their defaults.
func (s Schema) ResetHidden(v Values) {
	for _, sec := range s.Sections {
		if sec.ShowWhen.Match(v) {
			continue
		}
		for _, f := range sec.Fields {
			v[Key(sec.Key, f.Key)] = f.Default
		}
	}
}

// Validate checks required and format rules of the visible fields.
func (s Schema) Validate(v Values, creating bool) map[string]string {
	errs := map[string]string{}
	for _, sec := range s.Visible(v, creating) {
		for _, f := range sec.Fields {
			key := Key(sec.Key, f.Key)
			val := strings.TrimSpace(v.Get(key))
			if val == "" {
				if f.Required {
					errs[key] = f.Label + " is required"
				}
				continue
			}
			if f.Kind == KindSelect && len(f.Options) > 0 && !hasOption(f.Options, val) {
				errs[key] = f.Label + " has an unknown value"
				continue
			}
			if f.Validator == "" {
				continue
			}
			if p, ok := validate.Lookup(f.Validator); ok && !p(val) {
				errs[key] = f.Label + " " + validate.Message(f.Validator)
			}
		}
	}
	return errs
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
