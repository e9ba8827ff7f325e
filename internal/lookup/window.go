package lookup

import "subseek/internal/source"

// Window is the result of a before/after read. Lines is empty when the
// request collapses at a file edge; Note explains the collapse.
type Window struct {
	Lines []source.Line
	First int    // 1-based number of the first returned line, 0 when empty
	Last  int    // 1-based number of the last returned line, 0 when empty
	Note  string // set when the request hit a file edge
}

// ReadBefore returns up to ContextWindow lines ending immediately before
// lineNumber. Out-of-range line numbers collapse to an empty window, never
// an error; only I/O and cache failures are errors.
func (s *Service) ReadBefore(path string, lineNumber int) (*Window, error) {
	fi, err := s.getOrBuild(path)
	if err != nil {
		return nil, err
	}

	if lineNumber <= 1 {
		return &Window{Note: "no lines before the first line"}, nil
	}

	end := lineNumber - 1
	if end > len(fi.lines) {
		end = len(fi.lines)
	}
	start := lineNumber - s.opts.ContextWindow
	if start < 1 {
		start = 1
	}
	if start > end {
		return &Window{}, nil
	}

	return &Window{
		Lines: collect(fi.lines, start, end),
		First: start,
		Last:  end,
	}, nil
}

// ReadAfter returns up to ContextWindow lines starting immediately after
// lineNumber, with the same edge semantics as ReadBefore.
func (s *Service) ReadAfter(path string, lineNumber int) (*Window, error) {
	fi, err := s.getOrBuild(path)
	if err != nil {
		return nil, err
	}

	if lineNumber >= len(fi.lines) {
		return &Window{Note: "no lines after the last line"}, nil
	}

	start := lineNumber + 1
	if start < 1 {
		start = 1
	}
	end := lineNumber + s.opts.ContextWindow
	if end > len(fi.lines) {
		end = len(fi.lines)
	}
	if start > end {
		return &Window{}, nil
	}

	return &Window{
		Lines: collect(fi.lines, start, end),
		First: start,
		Last:  end,
	}, nil
}

// collect copies the 1-based inclusive range [start, end] into Line values
func collect(lines []string, start, end int) []source.Line {
	out := make([]source.Line, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, source.Line{Number: n, Content: lines[n-1]})
	}
	return out
}
