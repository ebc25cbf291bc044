// Package norm holds the normalization keys shared by the dedup, terminology
// and linker stages. Every table lookup and duplicate check goes through one
// of these keys so the stages cannot disagree on what "the same name" means.
package norm

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var (
	punctPattern  = regexp.MustCompile(`[^\pL\pN ]+`)
	spacesPattern = regexp.MustCompile(`\s+`)
	dosePattern   = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*(?:mg|mcg|g|ml|meq|iu|units?|%)\b`)
)

// Prefixes that qualify a diagnosis without changing which table row it
// belongs to. Stripped in order, so "chronic history of asthma" reduces the
// same way "history of asthma" does.
var conditionPrefixes = []string{
	"acute ",
	"chronic ",
	"unspecified ",
	"history of ",
	"h/o ",
}

var medicationForms = map[string]bool{
	"tablet":   true,
	"tablets":  true,
	"tab":      true,
	"tabs":     true,
	"capsule":  true,
	"capsules": true,
	"cap":      true,
	"caps":     true,
	"oral":     true,
	"po":       true,
	"daily":    true,
	"nightly":  true,
	"solution": true,
	"cream":    true,
	"ointment": true,
	"patch":    true,
	"inhaler":  true,
	"spray":    true,
	"drops":    true,
	"syrup":    true,
}

// Key lowercases, replaces punctuation with spaces and collapses whitespace.
func Key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(spacesPattern.ReplaceAllString(s, " "))
}

// Condition strips qualifying prefixes before reducing to a plain key, so
// "History of hypertension" and "hypertension" land on the same table row.
func Condition(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, prefix := range conditionPrefixes {
		s = strings.TrimPrefix(s, prefix)
	}
	return Key(s)
}

// Medication strips dosage expressions and dose-form words, keeping only the
// drug name itself.
func Medication(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = dosePattern.ReplaceAllString(s, " ")
	s = Key(s)
	words := strings.Fields(s)
	kept := words[:0]
	for _, word := range words {
		if medicationForms[word] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// Similarity is the normalized edit-distance ratio between two keys:
// 1 - distance/maxLen, so 1.0 means equal and 0.0 means nothing in common.
// Lengths are counted in runes, matching the rune edits the distance counts.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	runesA := []rune(a)
	runesB := []rune(b)
	if len(runesA) == 0 || len(runesB) == 0 {
		return 0
	}
	maxLen := len(runesA)
	if len(runesB) > maxLen {
		maxLen = len(runesB)
	}
	distance := matchr.Levenshtein(a, b)
	return 1 - float64(distance)/float64(maxLen)
}
