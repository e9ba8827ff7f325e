package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"subseek/internal/render"
	"subseek/internal/source"
)

// Viewport manages the visible portion of a transcript
// It knows nothing about captions, timestamps, or files
// It only knows how to display the lines it was given
type Viewport struct {
	lines    []string
	renderer render.Renderer

	// Dimensions
	width  int
	height int

	// Scroll position
	scrollOffset int

	// Styling
	lineNumberStyle lipgloss.Style
	highlightStyle  lipgloss.Style

	// Options
	showLineNumbers bool

	// Highlighted range, 1-based inclusive (0,0 for none)
	highlightFirst int
	highlightLast  int
}

// NewViewport creates a new viewport
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:           width,
		height:          height,
		scrollOffset:    0,
		showLineNumbers: true,
		lineNumberStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		highlightStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		renderer:        render.NewPlainRenderer(),
	}
}

// SetLines replaces the viewport content, keeping the scroll position
// where possible
func (v *Viewport) SetLines(lines []string) {
	v.lines = lines
	v.clampScroll()
}

// SetHighlight marks an inclusive 1-based line range
func (v *Viewport) SetHighlight(first, last int) {
	if first < 1 || last < first {
		v.ClearHighlight()
		return
	}
	v.highlightFirst = first
	v.highlightLast = last
}

// ClearHighlight removes the range highlight
func (v *Viewport) ClearHighlight() {
	v.highlightFirst = 0
	v.highlightLast = 0
}

// SetRenderer sets the line renderer
func (v *Viewport) SetRenderer(r render.Renderer) {
	v.renderer = r
}

// SetHighlightStyle overrides the style for highlighted lines
func (v *Viewport) SetHighlightStyle(style lipgloss.Style) {
	v.highlightStyle = style
}

// SetSize updates viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampScroll()
}

// ScrollDown scrolls down by n lines
func (v *Viewport) ScrollDown(n int) {
	v.scrollOffset += n
	v.clampScroll()
}

// ScrollUp scrolls up by n lines
func (v *Viewport) ScrollUp(n int) {
	v.scrollOffset -= n
	v.clampScroll()
}

// PageDown scrolls down by one page
func (v *Viewport) PageDown() {
	v.ScrollDown(v.height - 1)
}

// PageUp scrolls up by one page
func (v *Viewport) PageUp() {
	v.ScrollUp(v.height - 1)
}

// GotoTop scrolls to the beginning
func (v *Viewport) GotoTop() {
	v.scrollOffset = 0
}

// GotoBottom scrolls to the end
func (v *Viewport) GotoBottom() {
	v.scrollOffset = len(v.lines) - v.height
	v.clampScroll()
}

// GotoLine centers a 1-based line in the viewport
func (v *Viewport) GotoLine(line int) {
	v.scrollOffset = line - 1 - v.height/2
	v.clampScroll()
}

// CurrentLine returns the current top line offset
func (v *Viewport) CurrentLine() int {
	return v.scrollOffset
}

// LineCount returns the number of lines loaded
func (v *Viewport) LineCount() int {
	return len(v.lines)
}

// clampScroll ensures scroll offset is within valid bounds
func (v *Viewport) clampScroll() {
	maxScroll := len(v.lines) - v.height
	if maxScroll < 0 {
		maxScroll = 0
	}

	if v.scrollOffset > maxScroll {
		v.scrollOffset = maxScroll
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// Render returns the viewport content as a string
func (v *Viewport) Render() string {
	var builder strings.Builder
	lineNumWidth := len(fmt.Sprintf("%d", len(v.lines)))

	end := v.scrollOffset + v.height
	if end > len(v.lines) {
		end = len(v.lines)
	}

	visible := 0
	for i := v.scrollOffset; i < end; i++ {
		if visible > 0 {
			builder.WriteString("\n")
		}
		visible++

		lineNum := i + 1 // 1-based for display
		isHighlighted := v.highlightFirst > 0 &&
			lineNum >= v.highlightFirst && lineNum <= v.highlightLast

		if v.showLineNumbers {
			numStr := fmt.Sprintf("%*d ", lineNumWidth, lineNum)
			if isHighlighted {
				builder.WriteString(v.highlightStyle.Render(numStr))
			} else {
				builder.WriteString(v.lineNumberStyle.Render(numStr))
			}
		}

		// Highlight wins over the renderer's own colors
		var content string
		if isHighlighted {
			content = v.highlightStyle.Render(v.lines[i])
		} else {
			line := source.Line{Number: lineNum, Content: v.lines[i]}
			content = v.renderer.Render(&line)
		}

		// TODO: proper truncation with ANSI awareness
		builder.WriteString(content)
	}

	// Pad with empty lines if needed
	for i := visible; i < v.height; i++ {
		if i > 0 || visible > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("~")
	}

	return builder.String()
}

// PercentScrolled returns how far through the file we are
func (v *Viewport) PercentScrolled() float64 {
	if len(v.lines) == 0 {
		return 0
	}

	total := len(v.lines)
	if total <= v.height {
		return 100
	}

	return float64(v.scrollOffset) / float64(total-v.height) * 100
}

// SetShowLineNumbers toggles line numbers
func (v *Viewport) SetShowLineNumbers(show bool) {
	v.showLineNumbers = show
}
