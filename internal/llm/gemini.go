package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider implements Provider using the Gemini generateContent API.
// Structured output is obtained through function calling with mode ANY.
type GeminiProvider struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
	logger    zerolog.Logger
}

// GeminiOption configures the provider.
type GeminiOption func(*GeminiProvider)

func WithGeminiModel(model string) GeminiOption {
	return func(p *GeminiProvider) { p.model = model }
}

func WithGeminiMaxTokens(n int) GeminiOption {
	return func(p *GeminiProvider) { p.maxTokens = n }
}

func WithGeminiHTTPClient(c *http.Client) GeminiOption {
	return func(p *GeminiProvider) { p.client = c }
}

func WithGeminiBaseURL(url string) GeminiOption {
	return func(p *GeminiProvider) { p.baseURL = url }
}

// NewGeminiProvider constructs a new Gemini provider.
func NewGeminiProvider(apiKey string, logger zerolog.Logger, opts ...GeminiOption) *GeminiProvider {
	p := &GeminiProvider{
		apiKey:    apiKey,
		model:     "gemini-2.5-flash",
		maxTokens: 4096,
		baseURL:   geminiAPIBase,
		client:    &http.Client{Timeout: 120 * time.Second},
		logger:    logger.With().Str("component", "gemini").Logger(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *GeminiProvider) ModelID() string { return p.model }

// ---- Gemini wire types ----

type geminiPart struct {
	Text         string              `json:"text,omitempty"`
	InlineData   *geminiInlineData   `json:"inlineData,omitempty"`
	FunctionCall *geminiFunctionCall `json:"functionCall,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type geminiFunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"` // "user" | "model"
	Parts []geminiPart `json:"parts"`
}

type geminiFunctionDecl struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type geminiToolConfig struct {
	FunctionCallingConfig struct {
		Mode                 string   `json:"mode"`
		AllowedFunctionNames []string `json:"allowedFunctionNames,omitempty"`
	} `json:"functionCallingConfig"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Tools             []map[string][]geminiFunctionDecl `json:"tools,omitempty"`
	ToolConfig        *geminiToolConfig       `json:"toolConfig,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func buildGeminiContents(msgs []Message) []geminiContent {
	out := make([]geminiContent, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}

		var parts []geminiPart
		for _, media := range m.Media {
			parts = append(parts, geminiPart{InlineData: &geminiInlineData{
				MIMEType: media.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(media.Data),
			}})
		}
		if m.Content != "" {
			parts = append(parts, geminiPart{Text: m.Content})
		}
		out = append(out, geminiContent{Role: role, Parts: parts})
	}
	return out
}

func (p *GeminiProvider) buildRequest(req CompletionRequest) geminiRequest {
	gr := geminiRequest{Contents: buildGeminiContents(req.Messages)}

	if req.SystemPrompt != "" {
		gr.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}

	if len(req.Tools) > 0 {
		decls := make([]geminiFunctionDecl, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, geminiFunctionDecl{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.InputSchema,
			})
		}
		gr.Tools = []map[string][]geminiFunctionDecl{{"functionDeclarations": decls}}
	}

	if req.ForceTool != "" {
		tc := &geminiToolConfig{}
		tc.FunctionCallingConfig.Mode = "ANY"
		tc.FunctionCallingConfig.AllowedFunctionNames = []string{req.ForceTool}
		gr.ToolConfig = tc
	}

	maxTok := p.maxTokens
	if req.MaxTokens > 0 {
		maxTok = req.MaxTokens
	}
	gr.GenerationConfig = &geminiGenerationConfig{
		Temperature:     req.Temperature,
		MaxOutputTokens: maxTok,
	}

	return gr
}

// Complete sends a blocking completion request.
func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &perrors.TransportError{Provider: "gemini", Err: perrors.ErrTimeout}
		}
		return nil, &perrors.TransportError{Provider: "gemini", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &perrors.TransportError{Provider: "gemini", Err: err}
	}

	var gr geminiResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, perrors.NewTransport("gemini", resp.StatusCode, "undecodable response body")
	}
	if gr.Error != nil {
		return nil, perrors.NewTransport("gemini", resp.StatusCode,
			fmt.Sprintf("%s: %s", gr.Error.Status, gr.Error.Message))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, perrors.NewTransport("gemini", resp.StatusCode, string(raw))
	}
	if len(gr.Candidates) == 0 {
		return nil, perrors.NewTransport("gemini", resp.StatusCode, "no candidates in response")
	}

	cand := gr.Candidates[0]
	out := &CompletionResponse{
		StopReason:   mapGeminiFinishReason(cand.FinishReason),
		InputTokens:  gr.UsageMetadata.PromptTokenCount,
		OutputTokens: gr.UsageMetadata.CandidatesTokenCount,
	}
	for _, part := range cand.Content.Parts {
		if part.FunctionCall != nil {
			out.ToolUse = &ToolUse{
				Name:  part.FunctionCall.Name,
				Input: part.FunctionCall.Args,
			}
			out.StopReason = StopReasonToolUse
			continue
		}
		out.Text += part.Text
	}

	p.logger.Debug().
		Str("model", model).
		Str("stop_reason", out.StopReason).
		Int("in_tokens", out.InputTokens).
		Int("out_tokens", out.OutputTokens).
		Msg("gemini complete")
	return out, nil
}

func mapGeminiFinishReason(reason string) string {
	switch reason {
	case "MAX_TOKENS":
		return StopReasonMaxTokens
	default:
		return StopReasonEndTurn
	}
}

// Available checks whether the Gemini API is reachable.
func (p *GeminiProvider) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
