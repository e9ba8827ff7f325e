package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Options configures the OpenAI-compatible client
type Options struct {
	BaseURL           string   // e.g. https://api.openai.com/v1
	Model             string   // empty picks the default
	APIKeyEnv         string   // environment variable holding the key
	APIKey            string   // explicit key, overrides the environment
	TimeoutSeconds    int      // whole-request timeout
	Temperature       *float64 // nil leaves the endpoint default
	RequestsPerMinute int      // request pacing
}

func (o *Options) defaults() {
	if o.BaseURL == "" {
		o.BaseURL = "https://api.openai.com/v1"
	}
	if o.Model == "" {
		o.Model = "gpt-4o-mini"
	}
	if o.APIKeyEnv == "" {
		o.APIKeyEnv = "OPENAI_API_KEY"
	}
	if o.TimeoutSeconds <= 0 {
		o.TimeoutSeconds = 60
	}
	if o.RequestsPerMinute <= 0 {
		o.RequestsPerMinute = 60
	}
}

// OpenAI talks to any /chat/completions endpoint with function calling
type OpenAI struct {
	url     string
	apiKey  string
	model   string
	temp    *float64
	limiter *rate.Limiter
	do      func(*http.Request) (*http.Response, error)
}

// NewOpenAI builds a client, resolving the API key from the options or the
// configured environment variable.
func NewOpenAI(opts Options) (*OpenAI, error) {
	opts.defaults()

	key := opts.APIKey
	if key == "" {
		key = os.Getenv(opts.APIKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("missing api key: set %s or configure api_key", opts.APIKeyEnv)
	}

	hc := &http.Client{Timeout: time.Duration(opts.TimeoutSeconds) * time.Second}
	return &OpenAI{
		url:     strings.TrimRight(opts.BaseURL, "/") + "/chat/completions",
		apiKey:  key,
		model:   opts.Model,
		temp:    opts.Temperature,
		limiter: rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60), 1),
		do:      hc.Do,
	}, nil
}

type oaMessage struct {
	Role       string       `json:"role"`
	Content    string       `json:"content"`
	ToolCalls  []oaToolCall `json:"tool_calls,omitempty"`
	ToolCallID string       `json:"tool_call_id,omitempty"`
}

type oaToolCall struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Function oaFunctionCall `json:"function"`
}

type oaFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type oaTool struct {
	Type     string     `json:"type"`
	Function oaFunction `json:"function"`
}

type oaFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

type oaRequest struct {
	Model       string      `json:"model"`
	Messages    []oaMessage `json:"messages"`
	Temperature *float64    `json:"temperature,omitempty"`
	Tools       []oaTool    `json:"tools,omitempty"`
}

type oaResponse struct {
	Choices []struct {
		Message oaMessage `json:"message"`
	} `json:"choices"`
}

// Chat performs one synchronous completion round
func (c *OpenAI) Chat(ctx context.Context, messages []Message, tools []ToolSpec) (Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Message{}, err
	}

	body, err := json.Marshal(c.encodeRequest(messages, tools))
	if err != nil {
		return Message{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Message{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Message{}, ctx.Err()
		}
		return Message{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Message{}, ErrRateLimited
	}
	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return Message{}, fmt.Errorf("chat endpoint returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(slurp)))
	}

	var parsed oaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Message{}, fmt.Errorf("decode: %w", ErrResponseInvalid)
	}
	if len(parsed.Choices) == 0 {
		return Message{}, ErrResponseInvalid
	}

	msg := decodeMessage(parsed.Choices[0].Message)
	if msg.Content == "" && len(msg.ToolCalls) == 0 {
		return Message{}, ErrResponseInvalid
	}
	return msg, nil
}

func (c *OpenAI) encodeRequest(messages []Message, tools []ToolSpec) oaRequest {
	req := oaRequest{
		Model:       c.model,
		Temperature: c.temp,
		Messages:    make([]oaMessage, 0, len(messages)),
	}
	for _, m := range messages {
		om := oaMessage{Role: m.Role, Content: m.Content, ToolCallID: m.ToolCallID}
		for _, tc := range m.ToolCalls {
			om.ToolCalls = append(om.ToolCalls, oaToolCall{
				ID:       tc.ID,
				Type:     "function",
				Function: oaFunctionCall{Name: tc.Name, Arguments: tc.Arguments},
			})
		}
		req.Messages = append(req.Messages, om)
	}
	for _, t := range tools {
		req.Tools = append(req.Tools, oaTool{
			Type:     "function",
			Function: oaFunction{Name: t.Name, Description: t.Description, Parameters: t.Parameters},
		})
	}
	return req
}

func decodeMessage(om oaMessage) Message {
	msg := Message{Role: om.Role, Content: om.Content, ToolCallID: om.ToolCallID}
	if msg.Role == "" {
		msg.Role = RoleAssistant
	}
	for _, tc := range om.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return msg
}
