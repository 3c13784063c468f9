// Package contact detects contact information in a visitor's latest message.
// The checks are deliberately conservative syntactic heuristics, independent
// of any model output: they gate lead creation, they do not validate
// deliverability.
package contact

import (
	"strings"
	"unicode"
)

// Signals reports which kinds of contact information were found.
type Signals struct {
	IsPhone bool `json:"is_phone"`
	IsEmail bool `json:"is_email"`
}

// Any reports whether any contact information was detected.
func (s Signals) Any() bool {
	return s.IsPhone || s.IsEmail
}

// Detect inspects the latest user message. Phone requires the trimmed text to
// be digits only with at least 7 of them, so "555-123-4567" does NOT match —
// the separators disqualify it. That boundary is intentional; broadening the
// match changes when leads get created.
func Detect(latestUserText string) Signals {
	trimmed := strings.TrimSpace(latestUserText)
	return Signals{
		IsPhone: len(trimmed) >= 7 && allDigits(trimmed),
		IsEmail: strings.Contains(trimmed, "@") && strings.Contains(trimmed, "."),
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
