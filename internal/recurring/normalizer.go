// Package recurring implements the recurring-charge detection engine: pattern
// key normalization, candidate grouping, dominant-amount-cluster selection,
// interval classification, and threshold-based pattern assembly. Detection is
// a pure, request-scoped computation over a charge snapshot; nothing here is
// persisted.
package recurring

import (
	"regexp"
	"strings"
)

// nonWord matches runs of characters outside letters, digits, and underscore,
// in any script. Unicode classes keep Hebrew and other non-Latin merchant
// names intact instead of stripping them to nothing.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

var underscoreRun = regexp.MustCompile(`_+`)

// NormalizePatternKey turns arbitrary merchant or display text into a stable
// grouping key: lowercased, trimmed, with every run of non-word characters
// collapsed to a single underscore. Idempotent; empty input yields "".
func NormalizePatternKey(text string) string {
	key := strings.ToLower(strings.TrimSpace(text))
	key = nonWord.ReplaceAllString(key, "_")
	key = underscoreRun.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}
