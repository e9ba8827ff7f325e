package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"subseek/internal/llm"
	"subseek/internal/thread"
	"subseek/internal/tools"
)

// Options wires an agent together
type Options struct {
	Client    llm.Client
	Registry  *tools.Registry
	Store     thread.Store
	Path      string // subtitle file the conversation is about
	MaxRounds int    // tool rounds per question before giving up
	Logger    *slog.Logger
}

// Agent answers questions about one subtitle file by looping the model
// through the lookup tools until it produces a plain answer
type Agent struct {
	client    llm.Client
	registry  *tools.Registry
	store     thread.Store
	path      string
	maxRounds int
	logger    *slog.Logger
}

// Reply is the agent's answer plus the caption span to surface in the
// transcript, when a timestamp lookup succeeded this turn
type Reply struct {
	Text      string
	Highlight *Highlight
}

// Highlight is the matched caption block's line span
type Highlight struct {
	Line  int // the timing line
	First int // first entry line
	Last  int // last entry line
}

// New creates an agent; MaxRounds defaults to 8
func New(opts Options) *Agent {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = 8
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Agent{
		client:    opts.Client,
		registry:  opts.Registry,
		store:     opts.Store,
		path:      opts.Path,
		maxRounds: opts.MaxRounds,
		logger:    opts.Logger,
	}
}

// Ask runs one conversational turn on the thread. The exchange is persisted
// only once the model produces a final answer; a failed turn leaves the
// thread unchanged.
func (a *Agent) Ask(ctx context.Context, threadID, text string) (*Reply, error) {
	history, err := a.store.History(threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load thread: %w", err)
	}

	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: a.systemPrompt()})
	msgs = append(msgs, history...)
	userMsg := llm.Message{Role: llm.RoleUser, Content: text}
	msgs = append(msgs, userMsg)

	specs := toolSpecs(a.registry.Definitions())
	exchange := []llm.Message{userMsg}
	var highlight *Highlight

	for round := 0; round < a.maxRounds; round++ {
		reply, err := a.client.Chat(ctx, msgs, specs)
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}

		if len(reply.ToolCalls) == 0 {
			exchange = append(exchange, reply)
			if err := a.store.Append(threadID, exchange...); err != nil {
				return nil, fmt.Errorf("failed to persist thread: %w", err)
			}
			a.logger.Info("agent answered", "thread", threadID, "rounds", round+1)
			return &Reply{Text: reply.Content, Highlight: highlight}, nil
		}

		msgs = append(msgs, reply)
		exchange = append(exchange, reply)

		for _, call := range reply.ToolCalls {
			result := a.execute(call)
			if h := parseHighlight(call, result.Content); h != nil {
				highlight = h
			}
			msgs = append(msgs, result)
			exchange = append(exchange, result)
		}
	}

	return nil, fmt.Errorf("no answer after %d tool rounds", a.maxRounds)
}

// execute runs one tool call; every failure is encoded as a result document
// so the model can correct itself
func (a *Agent) execute(call llm.ToolCall) llm.Message {
	msg := llm.Message{Role: llm.RoleTool, ToolCallID: call.ID}

	var args map[string]any
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		a.logger.Warn("bad tool arguments", "tool", call.Name, "error", err)
		msg.Content = toolFailure(fmt.Sprintf("arguments are not valid JSON: %v", err))
		return msg
	}

	payload, err := a.registry.Call(call.Name, args)
	if err != nil {
		a.logger.Warn("tool dispatch failed", "tool", call.Name, "error", err)
		msg.Content = toolFailure(err.Error())
		return msg
	}

	msg.Content = string(payload)
	return msg
}

func (a *Agent) systemPrompt() string {
	return fmt.Sprintf(`You answer questions about a subtitle file using the provided tools.
File: %s
Timestamps use the HH:MM:SS,mmm form. Resolve a time with getLinesAtTimestamp
before answering; page through nearby dialogue with readPreviousLines and
readNextLines. Quote caption text exactly and mention line numbers.`, a.path)
}

func toolSpecs(defs []tools.Definition) []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(defs))
	for _, def := range defs {
		specs = append(specs, llm.ToolSpec{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.InputSchema,
		})
	}
	return specs
}

func toolFailure(message string) string {
	payload, _ := json.Marshal(map[string]any{"success": false, "message": message})
	return string(payload)
}

// parseHighlight pulls the matched block span out of a successful
// getLinesAtTimestamp result
func parseHighlight(call llm.ToolCall, payload string) *Highlight {
	if call.Name != tools.ToolGetLinesAtTimestamp {
		return nil
	}
	var result struct {
		Success    bool `json:"success"`
		LineNumber int  `json:"lineNumber"`
		Entry      []struct {
			LineNumber int `json:"lineNumber"`
		} `json:"entry"`
	}
	if err := json.Unmarshal([]byte(payload), &result); err != nil || !result.Success {
		return nil
	}

	h := &Highlight{Line: result.LineNumber, First: result.LineNumber, Last: result.LineNumber}
	if len(result.Entry) > 0 {
		h.First = result.Entry[0].LineNumber
		h.Last = result.Entry[len(result.Entry)-1].LineNumber
	}
	return h
}
