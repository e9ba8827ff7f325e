package lookup

import (
	"errors"
	"fmt"
	"strings"

	"subseek/internal/index"
	"subseek/internal/source"
	"subseek/pkg/srttime"
)

// ErrNoMatch reports a well-formed timestamp outside every caption range.
// Callers branch on it with errors.Is.
var ErrNoMatch = errors.New("no caption matches timestamp")

// Match is a resolved caption block plus the raw-line context around its
// timing line
type Match struct {
	LineNumber   int           // 1-based timing line of the block
	Entry        []source.Line // the full caption block
	ContextStart int           // 1-based first line of the context window
	ContextEnd   int           // 1-based last line of the context window
	Context      string        // the context window joined with newlines
}

// ResolveTimestamp finds the caption block active at timestamp and builds an
// InitWindow-sized line context around its timing line. A malformed
// timestamp reports srttime.ErrBadTimestamp; a timestamp no caption covers
// reports ErrNoMatch.
func (s *Service) ResolveTimestamp(path, timestamp string) (*Match, error) {
	target, err := srttime.Parse(timestamp)
	if err != nil {
		return nil, err
	}

	fi, err := s.getOrBuild(path)
	if err != nil {
		return nil, err
	}

	caption, ok := findCaption(fi.captions, target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, timestamp)
	}

	start, end := contextBounds(caption.LineNumber, s.opts.InitWindow, len(fi.lines))
	return &Match{
		LineNumber:   caption.LineNumber,
		Entry:        caption.Entry,
		ContextStart: start,
		ContextEnd:   end,
		Context:      strings.Join(fi.lines[start-1:end], "\n"),
	}, nil
}

// findCaption binary-searches ordered ranges for one containing target,
// comparing against the midpoint's start and end. With overlapping or
// unsorted ranges the result is whichever candidate the bisection inspects
// first.
func findCaption(captions []index.Caption, target int) (index.Caption, bool) {
	lo, hi := 0, len(captions)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		c := captions[mid]
		switch {
		case target < c.StartMS:
			hi = mid - 1
		case target > c.EndMS:
			lo = mid + 1
		default:
			return c, true
		}
	}
	return index.Caption{}, false
}

// contextBounds clamps a window-line reach around a 1-based line to the file
func contextBounds(line, window, lineCount int) (start, end int) {
	start = line - window
	if start < 1 {
		start = 1
	}
	end = line + window
	if end > lineCount {
		end = lineCount
	}
	return start, end
}
