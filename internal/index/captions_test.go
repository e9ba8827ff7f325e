package index

import (
	"strings"
	"testing"
)

const sample = `1
00:00:01,000 --> 00:00:02,000
Hello there.

2
00:00:03,000 --> 00:00:04,500
Two lines of text
in this caption.

3
00:00:05,000 --> 00:00:06,000
Last block, no trailing blank.`

func sampleLines() []string {
	return strings.Split(sample, "\n")
}

func TestBuildCaptionIndex(t *testing.T) {
	captions := BuildCaptionIndex(sampleLines())
	if len(captions) != 3 {
		t.Fatalf("got %d captions, want 3", len(captions))
	}

	first := captions[0]
	if first.StartMS != 1000 || first.EndMS != 2000 {
		t.Errorf("first range = (%d, %d), want (1000, 2000)", first.StartMS, first.EndMS)
	}
	if first.LineNumber != 2 {
		t.Errorf("first timing line = %d, want 2", first.LineNumber)
	}
	if len(first.Entry) != 3 {
		t.Fatalf("first entry has %d lines, want 3", len(first.Entry))
	}
	if first.Entry[0].Number != 1 || first.Entry[0].Content != "1" {
		t.Errorf("entry[0] = %+v", first.Entry[0])
	}
	if first.Entry[2].Content != "Hello there." {
		t.Errorf("entry[2] = %+v", first.Entry[2])
	}

	second := captions[1]
	if len(second.Entry) != 4 {
		t.Fatalf("second entry has %d lines, want 4", len(second.Entry))
	}
	if second.Entry[3].Content != "in this caption." {
		t.Errorf("second entry last line = %+v", second.Entry[3])
	}

	// Entry lines are contiguous and bracket the timing line
	for _, c := range captions {
		if len(c.Entry) == 0 {
			t.Fatal("empty entry")
		}
		for i, line := range c.Entry {
			if line.Number != c.Entry[0].Number+i {
				t.Errorf("entry lines not contiguous: %+v", c.Entry)
			}
		}
		if c.LineNumber < c.Entry[0].Number || c.LineNumber > c.Entry[len(c.Entry)-1].Number {
			t.Errorf("timing line %d outside entry span", c.LineNumber)
		}
	}
}

func TestBuildCaptionIndexBlockAtFileEdges(t *testing.T) {
	lines := []string{
		"00:00:01,000 --> 00:00:02,000",
		"starts at line one",
	}
	captions := BuildCaptionIndex(lines)
	if len(captions) != 1 {
		t.Fatalf("got %d captions, want 1", len(captions))
	}
	if captions[0].Entry[0].Number != 1 {
		t.Errorf("block should start at line 1: %+v", captions[0].Entry)
	}
	if captions[0].Entry[len(captions[0].Entry)-1].Number != 2 {
		t.Errorf("block should end at last line: %+v", captions[0].Entry)
	}
}

func TestBuildCaptionIndexSkipsNonTimingLines(t *testing.T) {
	lines := []string{
		"1",
		"00:00:01.000 --> 00:00:02.000",
		"period separators do not count",
		"",
		"2",
		"00:00:03,000 -> 00:00:04,000",
		"single-dash arrow does not count",
		"",
		"3",
		"00:00:05,000 --> 00:00:06,000",
		"this one is real",
	}
	captions := BuildCaptionIndex(lines)
	if len(captions) != 1 {
		t.Fatalf("got %d captions, want 1", len(captions))
	}
	if captions[0].LineNumber != 10 {
		t.Errorf("timing line = %d, want 10", captions[0].LineNumber)
	}
}

func TestBuildCaptionIndexWhitespaceBlankBoundary(t *testing.T) {
	lines := []string{
		"above",
		"   ",
		"00:00:01,000 --> 00:00:02,000",
		"text",
		"\t",
		"below",
	}
	captions := BuildCaptionIndex(lines)
	if len(captions) != 1 {
		t.Fatalf("got %d captions, want 1", len(captions))
	}
	entry := captions[0].Entry
	if entry[0].Number != 3 || entry[len(entry)-1].Number != 4 {
		t.Errorf("whitespace-only lines should bound the block: %+v", entry)
	}
}

func TestBuildCaptionIndexUnorderedInputKeptAsIs(t *testing.T) {
	lines := []string{
		"00:01:00,000 --> 00:01:05,000",
		"later block first",
		"",
		"00:00:01,000 --> 00:00:02,000",
		"earlier block second",
	}
	captions := BuildCaptionIndex(lines)
	if len(captions) != 2 {
		t.Fatalf("got %d captions, want 2", len(captions))
	}
	if captions[0].StartMS != 60000 || captions[1].StartMS != 1000 {
		t.Errorf("file order not preserved: %+v", captions)
	}
}

func TestBuildCaptionIndexAdjacentTimingLinesShareBlock(t *testing.T) {
	lines := []string{
		"00:00:01,000 --> 00:00:02,000",
		"00:00:03,000 --> 00:00:04,000",
		"both index, same span",
	}
	captions := BuildCaptionIndex(lines)
	if len(captions) != 2 {
		t.Fatalf("got %d captions, want 2", len(captions))
	}
	if captions[0].Entry[0].Number != captions[1].Entry[0].Number {
		t.Errorf("blocks should share the span: %+v vs %+v", captions[0].Entry, captions[1].Entry)
	}
}

func TestBuildCaptionIndexEmpty(t *testing.T) {
	if got := BuildCaptionIndex(nil); len(got) != 0 {
		t.Errorf("expected no captions, got %+v", got)
	}
	if got := BuildCaptionIndex([]string{"no timings here", ""}); len(got) != 0 {
		t.Errorf("expected no captions, got %+v", got)
	}
}
