package index

import (
	"strings"

	"subseek/internal/source"
	"subseek/pkg/srttime"
)

// Caption is one indexed caption block: the parsed timing range, the 1-based
// number of the timing line, and the contiguous non-blank entry around it
type Caption struct {
	StartMS    int
	EndMS      int
	LineNumber int
	Entry      []source.Line
}

// BuildCaptionIndex scans every line for a timing expression and expands
// each match into its caption block. Candidates that do not carry two
// parseable timestamps are skipped without aborting the scan. The result is
// ordered by file position; overlap and ordering are not validated.
func BuildCaptionIndex(lines []string) []Caption {
	// Estimate initial capacity (a block is typically id, timing, text, blank)
	estimatedBlocks := len(lines)/4 + 1
	captions := make([]Caption, 0, estimatedBlocks)

	for i, line := range lines {
		start, end, ok := srttime.ParseTimingLine(line)
		if !ok {
			continue
		}

		first, last := blockBounds(lines, i)
		entry := make([]source.Line, 0, last-first+1)
		for n := first; n <= last; n++ {
			entry = append(entry, source.Line{Number: n + 1, Content: lines[n]})
		}

		captions = append(captions, Caption{
			StartMS:    start,
			EndMS:      end,
			LineNumber: i + 1,
			Entry:      entry,
		})
	}

	return captions
}

// blockBounds expands outward from a timing line to the nearest blank line
// or file edge, returning 0-based inclusive bounds
func blockBounds(lines []string, at int) (first, last int) {
	first = at
	for first > 0 && !isBlank(lines[first-1]) {
		first--
	}
	last = at
	for last < len(lines)-1 && !isBlank(lines[last+1]) {
		last++
	}
	return first, last
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
