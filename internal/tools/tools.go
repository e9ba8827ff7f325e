package tools

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"subseek/internal/lookup"
	"subseek/internal/source"
)

const (
	ToolGetLinesAtTimestamp = "getLinesAtTimestamp"
	ToolReadPreviousLines   = "readPreviousLines"
	ToolReadNextLines       = "readNextLines"
)

// toolOrder fixes the order definitions are presented to the model
var toolOrder = []string{
	ToolGetLinesAtTimestamp,
	ToolReadPreviousLines,
	ToolReadNextLines,
}

type handler func(args map[string]any) (any, error)

// Definition describes one callable tool
type Definition struct {
	Name        string
	Description string
	InputSchema map[string]any
	handler     handler
}

// Registry exposes the lookup service as agent-callable tools. Lookup
// failures (bad timestamp, no matching caption, unreadable file) become
// {success:false, message} results for the model; the error return of Call
// is reserved for unknown tools and malformed argument types.
type Registry struct {
	svc    *lookup.Service
	logger *slog.Logger
	defs   map[string]Definition
}

// NewRegistry builds the registry over a lookup service
func NewRegistry(svc *lookup.Service, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{svc: svc, logger: logger}
	r.defs = map[string]Definition{
		ToolGetLinesAtTimestamp: {
			Name:        ToolGetLinesAtTimestamp,
			Description: "Find the caption block active at a timestamp and return it together with the surrounding lines.",
			InputSchema: timestampInputSchema(),
			handler:     r.handleGetLinesAtTimestamp,
		},
		ToolReadPreviousLines: {
			Name:        ToolReadPreviousLines,
			Description: "Read the window of raw subtitle lines immediately before a 1-based line number.",
			InputSchema: lineWindowInputSchema(),
			handler:     r.handleReadPreviousLines,
		},
		ToolReadNextLines: {
			Name:        ToolReadNextLines,
			Description: "Read the window of raw subtitle lines immediately after a 1-based line number.",
			InputSchema: lineWindowInputSchema(),
			handler:     r.handleReadNextLines,
		},
	}
	return r
}

// Definitions returns the tools in presentation order
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(toolOrder))
	for _, name := range toolOrder {
		defs = append(defs, r.defs[name])
	}
	return defs
}

// Call dispatches a tool by name and returns its JSON result document
func (r *Registry) Call(name string, args map[string]any) (json.RawMessage, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	result, err := def.handler(args)
	if err != nil {
		r.logger.Warn("tool call rejected", "tool", name, "error", err)
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", name, err)
	}

	r.logger.Info("tool call", "tool", name)
	return payload, nil
}

// Wire shapes consumed by the model

type lineItem struct {
	LineNumber int    `json:"lineNumber"`
	Content    string `json:"content"`
}

type timestampResult struct {
	Success      bool       `json:"success"`
	LineNumber   int        `json:"lineNumber"`
	StartLine    int        `json:"startLine"`
	EndLine      int        `json:"endLine"`
	Entry        []lineItem `json:"entry"`
	ContextLines string     `json:"contextLines"`
}

type previousResult struct {
	Success         bool       `json:"success"`
	FirstLineNumber *int       `json:"firstLineNumber"`
	Lines           []lineItem `json:"lines"`
	Message         string     `json:"message,omitempty"`
}

type nextResult struct {
	Success        bool       `json:"success"`
	LastLineNumber *int       `json:"lastLineNumber"`
	Lines          []lineItem `json:"lines"`
	Message        string     `json:"message,omitempty"`
}

type failureResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (r *Registry) handleGetLinesAtTimestamp(args map[string]any) (any, error) {
	path, err := requireString(args, "path")
	if err != nil {
		return nil, err
	}
	timestamp, err := requireString(args, "timestamp")
	if err != nil {
		return nil, err
	}

	m, err := r.svc.ResolveTimestamp(path, timestamp)
	if err != nil {
		return failure(err), nil
	}

	return timestampResult{
		Success:      true,
		LineNumber:   m.LineNumber,
		StartLine:    m.ContextStart,
		EndLine:      m.ContextEnd,
		Entry:        toLineItems(m.Entry),
		ContextLines: m.Context,
	}, nil
}

func (r *Registry) handleReadPreviousLines(args map[string]any) (any, error) {
	path, line, err := lineWindowArgs(args)
	if err != nil {
		return nil, err
	}

	w, err := r.svc.ReadBefore(path, line)
	if err != nil {
		return failure(err), nil
	}

	result := previousResult{
		Success: true,
		Lines:   toLineItems(w.Lines),
		Message: w.Note,
	}
	if w.First > 0 {
		result.FirstLineNumber = &w.First
	}
	return result, nil
}

func (r *Registry) handleReadNextLines(args map[string]any) (any, error) {
	path, line, err := lineWindowArgs(args)
	if err != nil {
		return nil, err
	}

	w, err := r.svc.ReadAfter(path, line)
	if err != nil {
		return failure(err), nil
	}

	result := nextResult{
		Success: true,
		Lines:   toLineItems(w.Lines),
		Message: w.Note,
	}
	if w.Last > 0 {
		result.LastLineNumber = &w.Last
	}
	return result, nil
}

func lineWindowArgs(args map[string]any) (string, int, error) {
	path, err := requireString(args, "path")
	if err != nil {
		return "", 0, err
	}
	line, err := requireInteger(args, "lineNumber")
	if err != nil {
		return "", 0, err
	}
	return path, line, nil
}

func failure(err error) failureResult {
	return failureResult{Success: false, Message: err.Error()}
}

func toLineItems(lines []source.Line) []lineItem {
	items := make([]lineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, lineItem{LineNumber: line.Number, Content: line.Content})
	}
	return items
}

func requireString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return value, nil
}

func requireInteger(args map[string]any, key string) (int, error) {
	raw, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch v := raw.(type) {
	case float64:
		if math.Trunc(v) != v {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}
