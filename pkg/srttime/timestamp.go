package srttime

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrBadTimestamp reports a string that does not match the SRT timestamp
// grammar. Callers branch on it with errors.Is.
var ErrBadTimestamp = errors.New("invalid timestamp format")

// SRT timestamp: HH:MM:SS,mmm
// 00:01:23,456
var timestampRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})$`)

// SRT timing line: start --> end, anchored at line start
// 00:01:23,456 --> 00:01:25,000
// Trailing cue settings (e.g. X1:40) are ignored.
var timingRe = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2},\d{3}) --> (\d{2}:\d{2}:\d{2},\d{3})`)

// Parse converts an SRT timestamp to a millisecond offset
func Parse(text string) (int, error) {
	m := timestampRe.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, text)
	}

	hours := digits(m[1])
	minutes := digits(m[2])
	seconds := digits(m[3])
	millis := digits(m[4])

	return ((hours*60+minutes)*60+seconds)*1000 + millis, nil
}

// ParseTimingLine extracts the start and end offsets from a timing line.
// Lines that do not carry two parseable timestamps report ok=false.
func ParseTimingLine(line string) (start, end int, ok bool) {
	m := timingRe.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}

	start, err := Parse(m[1])
	if err != nil {
		return 0, 0, false
	}
	end, err = Parse(m[2])
	if err != nil {
		return 0, 0, false
	}

	return start, end, true
}

// IsTimingLine reports whether a line starts with a timing expression
func IsTimingLine(line string) bool {
	return timingRe.MatchString(line)
}

// Format renders a millisecond offset as an SRT timestamp
func Format(ms int) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := ms / 60000 % 60
	seconds := ms / 1000 % 60
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// digits parses a string of ASCII digits; the caller guarantees the input
// via regex capture
func digits(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
