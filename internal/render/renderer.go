package render

import (
	"github.com/charmbracelet/lipgloss"

	"subseek/internal/config"
	"subseek/internal/source"
	"subseek/pkg/srttime"
)

// Renderer applies styling to lines
type Renderer interface {
	Render(line *source.Line) string
}

// KindRenderer colors lines based on their subtitle role
type KindRenderer struct {
	styles map[srttime.LineKind]lipgloss.Style
}

// NewKindRenderer creates a renderer with config
func NewKindRenderer(cfg *config.Config) *KindRenderer {
	styles := map[srttime.LineKind]lipgloss.Style{
		srttime.KindBlank:      lipgloss.NewStyle(),
		srttime.KindIdentifier: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Kinds.Identifier)),
		srttime.KindTiming:     lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Kinds.Timing)),
		srttime.KindText:       lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Kinds.Text)),
	}

	return &KindRenderer{styles: styles}
}

// Render applies subtitle-role styling to a line
func (r *KindRenderer) Render(line *source.Line) string {
	style := r.styles[srttime.KindOf(line.Content)]
	return style.Render(line.Content)
}

// PlainRenderer renders without styling
type PlainRenderer struct{}

// NewPlainRenderer creates a plain renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// Render returns the line content as-is
func (r *PlainRenderer) Render(line *source.Line) string {
	return line.Content
}
