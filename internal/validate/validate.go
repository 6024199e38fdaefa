// Package validate holds the format predicates used by API binding and by
// console form fields.
package validate

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phoneRe        = regexp.MustCompile(`^[0-9]{10}$`)
	vehiclePlateRe = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{2}[0-9]{4}$`)
	gstRe          = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	panRe          = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	emailRe        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Email accepts a bare address with a dotted domain.
func Email(s string) bool {
	if !emailRe.MatchString(s) {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

// Phone accepts exactly ten digits.
func Phone(s string) bool {
	return phoneRe.MatchString(s)
}

// VehicleNumber accepts plates like DL01AB1234. Spaces are ignored.
func VehicleNumber(s string) bool {
	return vehiclePlateRe.MatchString(NormalizePlate(s))
}

// NormalizePlate upper-cases a plate and drops spaces and dashes.
func NormalizePlate(s string) string {
	s = strings.ToUpper(s)
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

// GST accepts a 15 character GSTIN.
func GST(s string) bool {
	return gstRe.MatchString(s)
}

// PAN accepts a 10 character permanent account number.
func PAN(s string) bool {
	return panRe.MatchString(s)
}

// Predicate is a named format check a form field can opt into.
type Predicate func(string) bool

var predicates = map[string]Predicate{
	"email":         Email,
	"phone":         Phone,
	"vehicle_plate": VehicleNumber,
	"gst":           GST,
	"pan":           PAN,
}

// Lookup returns the predicate registered under name.
func Lookup(name string) (Predicate, bool) {
	p, ok := predicates[name]
	return p, ok
}

// Message is the operator-facing text for a failed predicate.
func Message(name string) string {
	switch name {
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a 10 digit phone number"
	case "vehicle_plate":
		return "must look like DL01AB1234"
	case "gst":
		return "must be a valid 15 character GSTIN"
	case "pan":
		return "must be a valid PAN"
	default:
		return "is invalid"
	}
}

// RegisterBindings adds the custom tags to gin's validator engine.
// Empty values pass so optional fields can carry the tag.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	for name, p := range predicates {
		if name == "email" {
			continue // validator ships its own
		}
		pred := p
		if err := v.RegisterValidation(name, func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || pred(s)
		}); err != nil {
			return err
		}
	}
	return nil
}
