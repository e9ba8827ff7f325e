package tools

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subseek/internal/lookup"
)

const sample = `1
00:00:01,000 --> 00:00:02,000
Hello there.

2
00:00:03,000 --> 00:00:04,500
Second caption
with two lines.

3
00:00:05,000 --> 00:00:06,000
Goodbye.
`

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.srt")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	svc := lookup.NewService(lookup.Options{ContextWindow: 2, InitWindow: 1})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRegistry(svc, logger), path
}

func call(t *testing.T, r *Registry, name string, args map[string]any) map[string]any {
	t.Helper()
	payload, err := r.Call(name, args)
	if err != nil {
		t.Fatalf("Call(%s): %v", name, err)
	}
	var result map[string]any
	if err := json.Unmarshal(payload, &result); err != nil {
		t.Fatalf("Call(%s) returned invalid JSON: %v", name, err)
	}
	return result
}

func TestGetLinesAtTimestamp(t *testing.T) {
	r, path := newTestRegistry(t)

	result := call(t, r, ToolGetLinesAtTimestamp, map[string]any{
		"path":      path,
		"timestamp": "00:00:03,200",
	})

	if result["success"] != true {
		t.Fatalf("success = %v", result["success"])
	}
	if result["lineNumber"] != float64(6) {
		t.Errorf("lineNumber = %v, want 6", result["lineNumber"])
	}
	if result["startLine"] != float64(5) || result["endLine"] != float64(7) {
		t.Errorf("context = (%v, %v), want (5, 7)", result["startLine"], result["endLine"])
	}

	entry, ok := result["entry"].([]any)
	if !ok || len(entry) != 4 {
		t.Fatalf("entry = %v, want 4 items", result["entry"])
	}
	first := entry[0].(map[string]any)
	if first["lineNumber"] != float64(5) || first["content"] != "2" {
		t.Errorf("entry[0] = %v", first)
	}

	context, ok := result["contextLines"].(string)
	if !ok || !strings.Contains(context, "Second caption") {
		t.Errorf("contextLines = %v", result["contextLines"])
	}
}

func TestGetLinesAtTimestampFailures(t *testing.T) {
	r, path := newTestRegistry(t)

	result := call(t, r, ToolGetLinesAtTimestamp, map[string]any{
		"path":      path,
		"timestamp": "12:00:00.000",
	})
	if result["success"] != false {
		t.Errorf("success = %v, want false", result["success"])
	}
	if msg, _ := result["message"].(string); !strings.Contains(msg, "invalid timestamp format") {
		t.Errorf("message = %v", result["message"])
	}

	result = call(t, r, ToolGetLinesAtTimestamp, map[string]any{
		"path":      path,
		"timestamp": "00:00:02,700",
	})
	if result["success"] != false {
		t.Errorf("success = %v, want false", result["success"])
	}
	if msg, _ := result["message"].(string); !strings.Contains(msg, "no caption matches timestamp") {
		t.Errorf("message = %v", result["message"])
	}

	result = call(t, r, ToolGetLinesAtTimestamp, map[string]any{
		"path":      filepath.Join(t.TempDir(), "missing.srt"),
		"timestamp": "00:00:01,500",
	})
	if result["success"] != false {
		t.Errorf("missing file: success = %v, want false", result["success"])
	}
}

func TestReadPreviousLines(t *testing.T) {
	r, path := newTestRegistry(t)

	result := call(t, r, ToolReadPreviousLines, map[string]any{
		"path":       path,
		"lineNumber": float64(6),
	})
	if result["success"] != true {
		t.Fatalf("success = %v", result["success"])
	}
	if result["firstLineNumber"] != float64(4) {
		t.Errorf("firstLineNumber = %v, want 4", result["firstLineNumber"])
	}
	lines := result["lines"].([]any)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	second := lines[1].(map[string]any)
	if second["lineNumber"] != float64(5) || second["content"] != "2" {
		t.Errorf("lines[1] = %v", second)
	}
}

func TestReadPreviousLinesAtStart(t *testing.T) {
	r, path := newTestRegistry(t)

	payload, err := r.Call(ToolReadPreviousLines, map[string]any{
		"path":       path,
		"lineNumber": float64(1),
	})
	if err != nil {
		t.Fatal(err)
	}

	// firstLineNumber must be a JSON null, lines an empty array
	text := string(payload)
	if !strings.Contains(text, `"firstLineNumber":null`) {
		t.Errorf("payload missing null firstLineNumber: %s", text)
	}
	if !strings.Contains(text, `"lines":[]`) {
		t.Errorf("payload missing empty lines array: %s", text)
	}

	var result map[string]any
	if err := json.Unmarshal(payload, &result); err != nil {
		t.Fatal(err)
	}
	if result["success"] != true {
		t.Errorf("success = %v, want true", result["success"])
	}
	if msg, _ := result["message"].(string); msg == "" {
		t.Error("expected an explanatory message at the file edge")
	}
}

func TestReadNextLines(t *testing.T) {
	r, path := newTestRegistry(t)

	result := call(t, r, ToolReadNextLines, map[string]any{
		"path":       path,
		"lineNumber": float64(2),
	})
	if result["success"] != true {
		t.Fatalf("success = %v", result["success"])
	}
	if result["lastLineNumber"] != float64(4) {
		t.Errorf("lastLineNumber = %v, want 4", result["lastLineNumber"])
	}
	lines := result["lines"].([]any)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	// Last line of the file: success with a null lastLineNumber
	payload, err := r.Call(ToolReadNextLines, map[string]any{
		"path":       path,
		"lineNumber": float64(13),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(payload), `"lastLineNumber":null`) {
		t.Errorf("payload missing null lastLineNumber: %s", payload)
	}
}

func TestCallUnknownTool(t *testing.T) {
	r, _ := newTestRegistry(t)
	if _, err := r.Call("fetchSubtitles", nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestCallArgumentValidation(t *testing.T) {
	r, path := newTestRegistry(t)

	cases := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"missing path", ToolGetLinesAtTimestamp, map[string]any{"timestamp": "00:00:01,000"}},
		{"missing timestamp", ToolGetLinesAtTimestamp, map[string]any{"path": path}},
		{"path not a string", ToolGetLinesAtTimestamp, map[string]any{"path": 7, "timestamp": "00:00:01,000"}},
		{"missing lineNumber", ToolReadPreviousLines, map[string]any{"path": path}},
		{"lineNumber not a number", ToolReadPreviousLines, map[string]any{"path": path, "lineNumber": "five"}},
		{"fractional lineNumber", ToolReadNextLines, map[string]any{"path": path, "lineNumber": 2.5}},
	}
	for _, c := range cases {
		if _, err := r.Call(c.tool, c.args); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}

	// Whole-valued floats are how JSON integers arrive
	if _, err := r.Call(ToolReadNextLines, map[string]any{"path": path, "lineNumber": 3.0}); err != nil {
		t.Errorf("whole float lineNumber: %v", err)
	}
}

func TestDefinitions(t *testing.T) {
	r, _ := newTestRegistry(t)

	defs := r.Definitions()
	if len(defs) != 3 {
		t.Fatalf("got %d definitions, want 3", len(defs))
	}
	if defs[0].Name != ToolGetLinesAtTimestamp {
		t.Errorf("defs[0] = %s", defs[0].Name)
	}
	for _, def := range defs {
		if def.Description == "" {
			t.Errorf("%s: empty description", def.Name)
		}
		required, ok := def.InputSchema["required"].([]string)
		if !ok || len(required) != 2 {
			t.Errorf("%s: unexpected required list %v", def.Name, def.InputSchema["required"])
		}
		if _, ok := def.InputSchema["properties"]; !ok {
			t.Errorf("%s: schema has no properties", def.Name)
		}
	}
}
