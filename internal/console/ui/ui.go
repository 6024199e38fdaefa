// Package ui maps the console's visual primitives to their CSS classes.
package ui

import "strings"

type Variant string

const (
	Primary   Variant = "primary"
	Secondary Variant = "secondary"
	Danger    Variant = "danger"
	Success   Variant = "success"
	Outline   Variant = "outline"
)

type Size string

const (
	Small  Size = "sm"
	Medium Size = "md"
	Large  Size = "lg"
)

const buttonBase = "inline-flex items-center justify-center font-medium rounded-lg transition-colors focus:outline-none focus:ring-2 focus:ring-offset-2 disabled:opacity-50 disabled:cursor-not-allowed"

var buttonVariants = map[Variant]string{
	Primary:   "bg-blue-600 text-white hover:bg-blue-700 focus:ring-blue-500",
	Secondary: "bg-gray-200 text-gray-900 hover:bg-gray-300 focus:ring-gray-500",
	Danger:    "bg-red-600 text-white hover:bg-red-700 focus:ring-red-500",
	Success:   "bg-green-600 text-white hover:bg-green-700 focus:ring-green-500",
	Outline:   "border-2 border-gray-300 text-gray-700 hover:bg-gray-50 focus:ring-gray-500",
}

var buttonSizes = map[Size]string{
	Small:  "px-3 py-1.5 text-sm",
	Medium: "px-4 py-2 text-base",
	Large:  "px-6 py-3 text-lg",
}

// Button returns the classes for a button. Unknown values fall back to
// primary and medium.
func Button(v Variant, s Size) string {
	vc, ok := buttonVariants[v]
	if !ok {
		vc = buttonVariants[Primary]
	}
	sc, ok := buttonSizes[s]
	if !ok {
		sc = buttonSizes[Medium]
	}
	return buttonBase + " " + vc + " " + sc
}

type BadgeVariant string

const (
	BadgeDefault BadgeVariant = "default"
	BadgeSuccess BadgeVariant = "success"
	BadgeWarning BadgeVariant = "warning"
	BadgeDanger  BadgeVariant = "danger"
	BadgeInfo    BadgeVariant = "info"
	BadgePrimary BadgeVariant = "primary"
)

var badgeVariants = map[BadgeVariant]string{
	BadgeDefault: "bg-gray-100 text-gray-800",
	BadgeSuccess: "bg-green-100 text-green-800",
	BadgeWarning: "bg-yellow-100 text-yellow-800",
	BadgeDanger:  "bg-red-100 text-red-800",
	BadgeInfo:    "bg-blue-100 text-blue-800",
	BadgePrimary: "bg-indigo-100 text-indigo-800",
}

const badgeBase = "inline-flex items-center px-2.5 py-0.5 rounded-full text-xs font-medium"

func Badge(v BadgeVariant) string {
	vc, ok := badgeVariants[v]
	if !ok {
		vc = badgeVariants[BadgeDefault]
	}
	return badgeBase + " " + vc
}

// StatusBadge picks the badge variant for a record status.
func StatusBadge(status string) BadgeVariant {
	switch strings.ToLower(status) {
	case "confirmed", "approved", "completed", "paid", "available", "active", "valid", "resolved":
		return BadgeSuccess
	case "pending", "partial", "maintenance", "warning":
		return BadgeWarning
	case "cancelled", "rejected", "overdue", "expired", "critical", "inactive", "blacklisted":
		return BadgeDanger
	case "booked", "corporate", "in_progress":
		return BadgeInfo
	case "owner", "admin":
		return BadgePrimary
	default:
		return BadgeDefault
	}
}

// StatusClass is Badge(StatusBadge(status)).
func StatusClass(status string) string { return Badge(StatusBadge(status)) }

const (
	CardClass  = "bg-white rounded-lg shadow-sm border border-gray-200 p-6"
	InputClass = "w-full px-3 py-2 border border-gray-300 rounded-lg focus:outline-none focus:ring-2 focus:ring-blue-500 disabled:bg-gray-100"
	ErrorInput = "w-full px-3 py-2 border border-red-500 rounded-lg focus:outline-none focus:ring-2 focus:ring-red-500"
)

// Input returns the input classes, red when the field has an error.
func Input(hasError bool) string {
	if hasError {
		return ErrorInput
	}
	return InputClass
}
