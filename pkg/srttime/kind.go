package srttime

import "strings"

// LineKind classifies a raw subtitle line for display
type LineKind int

const (
	KindText LineKind = iota
	KindBlank
	KindIdentifier
	KindTiming
)

// KindOf returns the display kind of a line.
// A whitespace-only line counts as blank; a line of bare digits is treated
// as a cue identifier.
func KindOf(line string) LineKind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return KindBlank
	}
	if IsTimingLine(line) {
		return KindTiming
	}
	if allDigits(trimmed) {
		return KindIdentifier
	}
	return KindText
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
