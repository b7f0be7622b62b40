package model

import (
	"regexp"
	"strings"
	"unicode"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s.]+`)

// DefaultLabeler converts a field name into a human-friendly label, splitting
// on separators and camelCase or digit boundaries: "zipCode" -> "Zip Code",
// "card_number" -> "Card Number".
func DefaultLabeler(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		for _, part := range splitCamel(word) {
			segments = append(segments, titleCase(part))
		}
	}
	return strings.Join(segments, " ")
}

func splitCamel(input string) []string {
	runes := []rune(input)
	var (
		parts []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		if isBoundary(runes[i-1], runes[i]) {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}

func isBoundary(prev, r rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(r):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(r):
		return true
	default:
		return false
	}
}

func titleCase(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
