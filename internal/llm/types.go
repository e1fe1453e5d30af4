// Package llm defines the inference provider interface and related types.
// Providers are interchangeable behind this interface — Gemini today,
// Anthropic tomorrow.
package llm

import (
	"context"
	"encoding/json"
)

// Role constants for Message.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StopReason describes why the model stopped generating.
const (
	StopReasonEndTurn   = "end_turn"
	StopReasonToolUse   = "tool_use"
	StopReasonMaxTokens = "max_tokens"
)

// Media is a binary attachment (PDF drawing, spreadsheet) sent alongside
// a message. Data is raw bytes; providers apply their own encoding.
type Media struct {
	MIMEType string
	Data     []byte
}

// Message is a single turn in the conversation.
type Message struct {
	Role    string
	Content string
	Media   []Media
}

// ToolUse represents a tool call emitted by the model.
type ToolUse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolSchema describes a tool's interface for the model. Declaring exactly
// one tool and forcing its use is how structured output is obtained.
type ToolSchema struct {
	Name        string
	Description string
	InputSchema json.RawMessage // JSON Schema object
}

// CompletionRequest is the input to a provider's Complete() call.
type CompletionRequest struct {
	Messages     []Message
	SystemPrompt string
	Tools        []ToolSchema
	ForceTool    string // when set, the model must call this tool
	MaxTokens    int
	Temperature  *float64 // nil keeps the provider default
	Model        string   // override provider default if set
}

// CompletionResponse is returned by Complete().
type CompletionResponse struct {
	Text         string   // concatenated text blocks
	StopReason   string   // StopReasonEndTurn | StopReasonToolUse | StopReasonMaxTokens
	ToolUse      *ToolUse // populated when the model called a tool
	InputTokens  int
	OutputTokens int
}

// Provider is the core abstraction for inference backends.
// Implementations: GeminiProvider, AnthropicProvider.
type Provider interface {
	// Complete sends a completion request and waits for the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Available checks whether the provider endpoint is reachable.
	Available(ctx context.Context) bool

	// ModelID returns the current default model identifier.
	ModelID() string
}
