package calc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"45000", "45,000"},
		{"1234567", "12,34,567"},
		{"4088.5", "4,088.50"},
		{"-30000", "-30,000"},
	}
	for _, tc := range cases {
		if got := FormatAmount(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("FormatAmount(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDateAndPhone(t *testing.T) {
	d := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(&d); got != "15 Jan 2024" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatDate(nil); got != "" {
		t.Fatalf("FormatDate(nil) = %q", got)
	}
	if got := FormatPhone("9876543210"); got != "+91 987 654 3210" {
		t.Fatalf("FormatPhone = %q", got)
	}
	if got := FormatPhone("12345"); got != "12345" {
		t.Fatalf("FormatPhone passthrough = %q", got)
	}
}
