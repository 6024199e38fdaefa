package entities

import (
	"strconv"
	"strings"
	"time"

	"fleetadmin/internal/calc"
	"fleetadmin/internal/console"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// decoder reads typed values out of form values and keeps the first error.
type decoder struct {
	v   console.Values
	err error
}

func newDecoder(v console.Values) *decoder { return &decoder{v: v} }

func (d *decoder) fail(key, msg string) {
	if d.err == nil {
		d.err = &console.FieldError{Key: key, Msg: msg}
	}
}

func (d *decoder) text(key string) string { return strings.TrimSpace(d.v.Get(key)) }

func (d *decoder) decimal(key string) decimal.Decimal {
	raw := d.text(key)
	if raw == "" {
		return decimal.Zero
	}
	n, err := decimal.NewFromString(raw)
	if err != nil {
		d.fail(key, "must be a number")
		return decimal.Zero
	}
	return n
}

func (d *decoder) int(key string) int {
	raw := d.text(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		d.fail(key, "must be a whole number")
		return 0
	}
	return n
}

func (d *decoder) date(key string) *time.Time {
	raw := d.text(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(calc.DateLayout, raw)
	if err != nil {
		d.fail(key, "must be a date (YYYY-MM-DD)")
		return nil
	}
	return &t
}

func (d *decoder) uuid(key string) *uuid.UUID {
	raw := d.text(key)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		d.fail(key, "is not a valid id")
		return nil
	}
	return &id
}

func (d *decoder) bool(key string) bool {
	switch d.text(key) {
	case "true", "on", "1":
		return true
	}
	return false
}

// list splits a textarea into one trimmed entry per non-empty line.
func (d *decoder) list(key string) []string {
	out := []string{}
	for _, line := range strings.Split(d.v.Get(key), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func fmtDecimal(n decimal.Decimal) string { return n.String() }

func fmtInt(n int) string { return strconv.Itoa(n) }

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(calc.DateLayout)
}

func fmtUUID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func fmtBool(b bool) string { return strconv.FormatBool(b) }

func fmtList(items []string) string { return strings.Join(items, "\n") }

// parsedDecimal reads an optional decimal input of a derivation.
func parsedDecimal(v console.Values, key string) (decimal.Decimal, bool) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return decimal.Zero, false
	}
	n, err := decimal.NewFromString(raw)
	return n, err == nil
}

func parsedDate(v console.Values, key string) (time.Time, bool) {
	t, err := time.Parse(calc.DateLayout, strings.TrimSpace(v.Get(key)))
	return t, err == nil
}

func row(label, value string) console.Row { return console.Row{Label: label, Value: value} }

// orDash shows "-" for empty values in details tabs.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
