package view

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func renderedRows(v *Viewport) []string {
	return strings.Split(ansiRe.ReplaceAllString(v.Render(), ""), "\n")
}

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line%d", i+1)
	}
	return lines
}

func TestRenderPadsShortContent(t *testing.T) {
	v := NewViewport(40, 5)
	v.SetLines([]string{"a", "b", "c"})
	v.SetShowLineNumbers(false)

	rows := renderedRows(v)
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	if rows[0] != "a" || rows[2] != "c" {
		t.Errorf("content rows = %q", rows[:3])
	}
	if rows[3] != "~" || rows[4] != "~" {
		t.Errorf("pad rows = %q, want ~", rows[3:])
	}
}

func TestRenderEmptyContent(t *testing.T) {
	v := NewViewport(40, 3)

	rows := renderedRows(v)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for _, row := range rows {
		if row != "~" {
			t.Errorf("row = %q, want ~", row)
		}
	}
}

func TestRenderWindowWithLineNumbers(t *testing.T) {
	v := NewViewport(40, 3)
	v.SetLines(numberedLines(10))
	v.ScrollDown(4)

	rows := renderedRows(v)
	want := []string{" 5 line5", " 6 line6", " 7 line7"}
	for i, row := range rows {
		if row != want[i] {
			t.Errorf("row %d = %q, want %q", i, row, want[i])
		}
	}
}

func TestClampScroll(t *testing.T) {
	v := NewViewport(40, 3)
	v.SetLines(numberedLines(10))

	v.ScrollDown(100)
	if v.CurrentLine() != 7 {
		t.Errorf("offset = %d, want 7", v.CurrentLine())
	}

	v.ScrollUp(100)
	if v.CurrentLine() != 0 {
		t.Errorf("offset = %d, want 0", v.CurrentLine())
	}
}

func TestGotoLineCenters(t *testing.T) {
	v := NewViewport(40, 10)
	v.SetLines(numberedLines(100))

	v.GotoLine(50)
	if v.CurrentLine() != 44 {
		t.Errorf("offset = %d, want 44", v.CurrentLine())
	}

	v.GotoLine(1)
	if v.CurrentLine() != 0 {
		t.Errorf("offset = %d, want 0", v.CurrentLine())
	}

	v.GotoLine(100)
	if v.CurrentLine() != 90 {
		t.Errorf("offset = %d, want 90", v.CurrentLine())
	}
}

func TestSetHighlightValidation(t *testing.T) {
	v := NewViewport(40, 10)

	v.SetHighlight(3, 7)
	if v.highlightFirst != 3 || v.highlightLast != 7 {
		t.Errorf("highlight = (%d, %d), want (3, 7)", v.highlightFirst, v.highlightLast)
	}

	v.SetHighlight(0, 5)
	if v.highlightFirst != 0 || v.highlightLast != 0 {
		t.Error("zero first should clear the highlight")
	}

	v.SetHighlight(5, 2)
	if v.highlightFirst != 0 {
		t.Error("inverted range should clear the highlight")
	}
}

func TestSetLinesKeepsScrollWherePossible(t *testing.T) {
	v := NewViewport(40, 10)
	v.SetLines(numberedLines(100))
	v.GotoBottom()

	v.SetLines(numberedLines(60))
	if v.CurrentLine() != 50 {
		t.Errorf("offset = %d, want 50", v.CurrentLine())
	}

	v.SetLines(numberedLines(5))
	if v.CurrentLine() != 0 {
		t.Errorf("offset = %d, want 0", v.CurrentLine())
	}
}

func TestPercentScrolled(t *testing.T) {
	v := NewViewport(40, 10)

	if got := v.PercentScrolled(); got != 0 {
		t.Errorf("empty = %v, want 0", got)
	}

	v.SetLines(numberedLines(5))
	if got := v.PercentScrolled(); got != 100 {
		t.Errorf("short file = %v, want 100", got)
	}

	v.SetLines(numberedLines(110))
	if got := v.PercentScrolled(); got != 0 {
		t.Errorf("top = %v, want 0", got)
	}

	v.GotoBottom()
	if got := v.PercentScrolled(); got != 100 {
		t.Errorf("bottom = %v, want 100", got)
	}
}
