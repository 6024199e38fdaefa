package ui

import (
	"strings"
	"testing"
)

func TestButtonClasses(t *testing.T) {
	got := Button(Danger, Small)
	if !strings.Contains(got, "bg-red-600") || !strings.Contains(got, "px-3 py-1.5 text-sm") {
		t.Fatalf("unexpected danger/sm classes: %s", got)
	}
	if Button("bogus", "xl") != Button(Primary, Medium) {
		t.Fatalf("unknown variant and size should fall back to primary/md")
	}
}

func TestStatusBadge(t *testing.T) {
	cases := map[string]BadgeVariant{
		"confirmed": BadgeSuccess,
		"Pending":   BadgeWarning,
		"overdue":   BadgeDanger,
		"booked":    BadgeInfo,
		"owner":     BadgePrimary,
		"whatever":  BadgeDefault,
	}
	for status, want := range cases {
		if got := StatusBadge(status); got != want {
			t.Fatalf("StatusBadge(%q) = %s, want %s", status, got, want)
		}
	}
	if !strings.Contains(StatusClass("expired"), "bg-red-100") {
		t.Fatalf("expired badge should be red")
	}
}

func TestInputClass(t *testing.T) {
	if Input(false) != InputClass || Input(true) != ErrorInput {
		t.Fatalf("unexpected input classes")
	}
}
