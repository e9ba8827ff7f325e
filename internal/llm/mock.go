package llm

import (
	"context"
	"regexp"
	"strings"
	"sync"
)

var (
	mockTimestampRe = regexp.MustCompile(`\d{2}:\d{2}:\d{2},\d{3}`)
	mockFileRe      = regexp.MustCompile(`(?m)^File: (.+)$`)
)

// Mock is an offline stand-in for a chat endpoint. With a script it replays
// the scripted messages in order; without one it answers heuristically,
// turning a timestamp mentioned by the user into a getLinesAtTimestamp call
// so the whole tool loop can run without network access.
type Mock struct {
	mu     sync.Mutex
	script []Message
	pos    int
}

// NewMock creates a mock client replaying script, then falling back to
// heuristic answers
func NewMock(script ...Message) *Mock {
	return &Mock{script: script}
}

func (m *Mock) Chat(_ context.Context, messages []Message, tools []ToolSpec) (Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pos < len(m.script) {
		msg := m.script[m.pos]
		m.pos++
		return msg, nil
	}

	if len(messages) == 0 {
		return Message{Role: RoleAssistant, Content: "Nothing to answer yet."}, nil
	}

	last := messages[len(messages)-1]
	if last.Role == RoleTool {
		return Message{Role: RoleAssistant, Content: "Tool result:\n" + last.Content}, nil
	}

	ts := mockTimestampRe.FindString(last.Content)
	path := m.filePath(messages)
	if ts != "" && path != "" && hasTool(tools, "getLinesAtTimestamp") {
		return Message{
			Role: RoleAssistant,
			ToolCalls: []ToolCall{{
				ID:        "mock-1",
				Name:      "getLinesAtTimestamp",
				Arguments: `{"path":` + quote(path) + `,"timestamp":` + quote(ts) + `}`,
			}},
		}, nil
	}

	return Message{
		Role:    RoleAssistant,
		Content: "I can look up captions by timestamp; ask about a time like 00:12:34,567.",
	}, nil
}

// filePath pulls the subtitle path out of the system prompt
func (m *Mock) filePath(messages []Message) string {
	for _, msg := range messages {
		if msg.Role != RoleSystem {
			continue
		}
		if match := mockFileRe.FindStringSubmatch(msg.Content); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}

func hasTool(tools []ToolSpec, name string) bool {
	for _, t := range tools {
		if t.Name == name {
			return true
		}
	}
	return false
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
