package calc

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatAmount groups digits the Indian way (12,34,567) and keeps at most
// two decimals, dropping them when zero.
func FormatAmount(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs().Round(2)
	whole := d.Truncate(0).String()
	frac := d.Sub(d.Truncate(0))

	var grouped string
	if len(whole) <= 3 {
		grouped = whole
	} else {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		parts := make([]string, 0, len(head)/2+1)
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(parts, ",") + "," + tail
	}
	if !frac.IsZero() {
		grouped += "." + frac.StringFixed(2)[2:]
	}
	if neg {
		return "-" + grouped
	}
	return grouped
}

// FormatCurrency renders an amount in rupees.
func FormatCurrency(d decimal.Decimal) string {
	return "₹" + FormatAmount(d)
}

// FormatDate renders a date like 15 Jan 2024; empty for nil.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006")
}

var tenDigits = regexp.MustCompile(`^(\d{3})(\d{3})(\d{4})$`)

// FormatPhone renders a ten digit number as +91 987 654 3210.
func FormatPhone(phone string) string {
	if !tenDigits.MatchString(phone) {
		return phone
	}
	return tenDigits.ReplaceAllString(phone, "+91 $1 $2 $3")
}
