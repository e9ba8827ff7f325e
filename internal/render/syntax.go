package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"

	"subseek/internal/source"
)

// Chroma ships no SubRip lexer, so register one. Timestamps and the
// arrow carry the structure; markup tags inside cue text get dimmed.
var srtLexer = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:      "SRT",
		Aliases:   []string{"srt", "subrip"},
		Filenames: []string{"*.srt"},
		MimeTypes: []string{"application/x-subrip"},
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `\d{2}:\d{2}:\d{2},\d{3}`, Type: chroma.LiteralDate, Mutator: nil},
				{Pattern: `-->`, Type: chroma.Operator, Mutator: nil},
				{Pattern: `^\d+$`, Type: chroma.LiteralNumberInteger, Mutator: nil},
				{Pattern: `<[^>]*>`, Type: chroma.CommentPreproc, Mutator: nil},
				{Pattern: `\{[^}]*\}`, Type: chroma.CommentPreproc, Mutator: nil},
				{Pattern: `\s+`, Type: chroma.TextWhitespace, Mutator: nil},
				{Pattern: `[^\s<{]+`, Type: chroma.Text, Mutator: nil},
				{Pattern: `.`, Type: chroma.Text, Mutator: nil},
			},
		}
	},
))

// SyntaxRenderer applies syntax highlighting based on file type
type SyntaxRenderer struct {
	filename    string
	lexerName   string
	syntaxTheme string
}

// NewSyntaxRenderer creates a syntax highlighting renderer for the given filename
func NewSyntaxRenderer(filename string) *SyntaxRenderer {
	// Get lexer by filename extension
	lexer := lexers.Match(filename)
	lexerName := "plaintext"
	if lexer != nil {
		lexerName = lexer.Config().Name
	}

	return &SyntaxRenderer{
		filename:    filename,
		lexerName:   lexerName,
		syntaxTheme: "monokai",
	}
}

// Render applies syntax highlighting to a line
func (r *SyntaxRenderer) Render(line *source.Line) string {
	content := line.Content
	if content == "" {
		return ""
	}

	var buf bytes.Buffer
	err := quick.Highlight(&buf, content, r.lexerName, "terminal16m", r.syntaxTheme)
	if err != nil {
		return content
	}

	// Remove any newlines that quick.Highlight adds
	highlighted := buf.String()
	highlighted = strings.ReplaceAll(highlighted, "\n", "")
	highlighted = strings.ReplaceAll(highlighted, "\r", "")

	// Use lipgloss to ensure proper rendering
	style := lipgloss.NewStyle()
	return style.Render(highlighted)
}

// IsSyntaxHighlightable returns true if a lexer is registered for the filename
func IsSyntaxHighlightable(filename string) bool {
	return lexers.Match(filename) != nil
}
