package llm

import (
	"context"
	"errors"
)

// Chat roles on the wire
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

var (
	// ErrRateLimited reports an upstream 429
	ErrRateLimited = errors.New("rate limited by model endpoint")
	// ErrResponseInvalid reports a response body the client cannot use
	ErrResponseInvalid = errors.New("invalid model response")
)

// Message is one chat turn. Tool calls ride on assistant messages; a tool
// message answers the call named by ToolCallID.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is the model's request to run one registered tool
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON object
}

// ToolSpec describes a callable tool to the model
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Client is a synchronous chat-completions client
type Client interface {
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (Message, error)
}
