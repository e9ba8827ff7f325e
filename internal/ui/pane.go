package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"subseek/internal/config"
	"subseek/internal/lookup"
	"subseek/internal/render"
	"subseek/internal/view"
)

// TranscriptPane is the subtitle view with its own scroll and search state
type TranscriptPane struct {
	viewport *view.Viewport
	svc      *lookup.Service
	cfg      *config.Config

	path     string
	filename string
	lines    []string

	showNumbers bool

	// Search state
	searchTerm    string
	searchResults []int // 1-based line numbers with matches
	searchIndex   int
}

// NewTranscriptPane creates a pane over an SRT file
func NewTranscriptPane(path string, svc *lookup.Service, cfg *config.Config) (*TranscriptPane, error) {
	lines, err := svc.Lines(path)
	if err != nil {
		return nil, err
	}

	viewport := view.NewViewport(80, 24)
	viewport.SetLines(lines)
	viewport.SetShowLineNumbers(cfg.Display.ShowLineNumbers)
	viewport.SetHighlightStyle(lipgloss.NewStyle().
		Foreground(lipgloss.Color(cfg.Theme.Highlight)).
		Bold(true))

	if cfg.Display.SyntaxHighlight && render.IsSyntaxHighlightable(path) {
		viewport.SetRenderer(render.NewSyntaxRenderer(path))
	} else {
		viewport.SetRenderer(render.NewKindRenderer(cfg))
	}

	return &TranscriptPane{
		viewport:    viewport,
		svc:         svc,
		cfg:         cfg,
		path:        path,
		filename:    filepath.Base(path),
		lines:       lines,
		showNumbers: cfg.Display.ShowLineNumbers,
	}, nil
}

// SetSize sets the viewport size
func (p *TranscriptPane) SetSize(width, height int) {
	p.viewport.SetSize(width, height)
}

// Render returns the rendered viewport content
func (p *TranscriptPane) Render() string {
	return p.viewport.Render()
}

// Refresh reloads the transcript after the file changed on disk. Scroll
// position and search term survive; match positions are recomputed
func (p *TranscriptPane) Refresh() error {
	lines, err := p.svc.Lines(p.path)
	if err != nil {
		return err
	}

	p.lines = lines
	p.viewport.SetLines(lines)
	p.collectMatches()
	return nil
}

// ShowMatch highlights an inclusive line range and centers on line
func (p *TranscriptPane) ShowMatch(first, last, line int) {
	p.viewport.SetHighlight(first, last)
	p.viewport.GotoLine(line)
}

// ClearHighlight removes any highlight
func (p *TranscriptPane) ClearHighlight() {
	p.viewport.ClearHighlight()
}

// GotoTimestamp jumps to the caption covering a timestamp and highlights
// its block
func (p *TranscriptPane) GotoTimestamp(timestamp string) (*lookup.Match, error) {
	match, err := p.svc.ResolveTimestamp(p.path, timestamp)
	if err != nil {
		return nil, err
	}

	first, last := match.LineNumber, match.LineNumber
	if len(match.Entry) > 0 {
		first = match.Entry[0].Number
		last = match.Entry[len(match.Entry)-1].Number
	}
	p.ShowMatch(first, last, match.LineNumber)

	return match, nil
}

// PerformSearch finds lines containing term and jumps to the first
func (p *TranscriptPane) PerformSearch(term string) {
	p.searchTerm = term
	p.collectMatches()

	if len(p.searchResults) > 0 {
		p.searchIndex = 0
		p.jumpToResult()
	} else {
		p.viewport.ClearHighlight()
	}
}

func (p *TranscriptPane) collectMatches() {
	p.searchResults = nil
	if p.searchTerm == "" {
		return
	}

	for i, content := range p.lines {
		if strings.Contains(content, p.searchTerm) {
			p.searchResults = append(p.searchResults, i+1)
		}
	}
}

func (p *TranscriptPane) jumpToResult() {
	line := p.searchResults[p.searchIndex]
	p.viewport.GotoLine(line)
	p.viewport.SetHighlight(line, line)
}

// NextSearchResult jumps to the next search result
func (p *TranscriptPane) NextSearchResult() {
	if len(p.searchResults) == 0 {
		return
	}
	p.searchIndex = (p.searchIndex + 1) % len(p.searchResults)
	p.jumpToResult()
}

// PrevSearchResult jumps to the previous search result
func (p *TranscriptPane) PrevSearchResult() {
	if len(p.searchResults) == 0 {
		return
	}
	p.searchIndex--
	if p.searchIndex < 0 {
		p.searchIndex = len(p.searchResults) - 1
	}
	p.jumpToResult()
}

// ClearSearch clears search state
func (p *TranscriptPane) ClearSearch() {
	p.searchTerm = ""
	p.searchResults = nil
	p.searchIndex = 0
	p.viewport.ClearHighlight()
}

// ToggleLineNumbers flips the line number gutter
func (p *TranscriptPane) ToggleLineNumbers() {
	p.showNumbers = !p.showNumbers
	p.viewport.SetShowLineNumbers(p.showNumbers)
}

// ScrollDown scrolls down by n lines
func (p *TranscriptPane) ScrollDown(n int) { p.viewport.ScrollDown(n) }

// ScrollUp scrolls up by n lines
func (p *TranscriptPane) ScrollUp(n int) { p.viewport.ScrollUp(n) }

// PageDown scrolls down by one page
func (p *TranscriptPane) PageDown() { p.viewport.PageDown() }

// PageUp scrolls up by one page
func (p *TranscriptPane) PageUp() { p.viewport.PageUp() }

// GotoTop scrolls to the beginning
func (p *TranscriptPane) GotoTop() { p.viewport.GotoTop() }

// GotoBottom scrolls to the end
func (p *TranscriptPane) GotoBottom() { p.viewport.GotoBottom() }

// GotoLine centers a 1-based line
func (p *TranscriptPane) GotoLine(line int) { p.viewport.GotoLine(line) }

// Filename returns the display filename
func (p *TranscriptPane) Filename() string {
	return p.filename
}

// Path returns the transcript path
func (p *TranscriptPane) Path() string {
	return p.path
}

// LineCount returns the number of transcript lines
func (p *TranscriptPane) LineCount() int {
	return p.viewport.LineCount()
}

// CurrentLine returns the top visible line offset
func (p *TranscriptPane) CurrentLine() int {
	return p.viewport.CurrentLine()
}

// PercentScrolled returns how far through the file we are
func (p *TranscriptPane) PercentScrolled() float64 {
	return p.viewport.PercentScrolled()
}

// SearchTerm returns the current search term
func (p *TranscriptPane) SearchTerm() string {
	return p.searchTerm
}

// MatchCount returns the number of search matches
func (p *TranscriptPane) MatchCount() int {
	return len(p.searchResults)
}
