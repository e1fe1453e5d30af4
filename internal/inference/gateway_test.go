package inference

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"text/template"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atmosphere-labs/proposal-engine/internal/config"
	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/llm"
)

// fakeProvider captures the request and answers with a canned response.
type fakeProvider struct {
	lastReq llm.CompletionRequest
	resp    *llm.CompletionResponse
	err     error
	calls   int
}

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeProvider) Available(ctx context.Context) bool { return true }
func (f *fakeProvider) ModelID() string                    { return "fake-model" }

type echoInput struct {
	Question string
}

type echoOutput struct {
	Answer string `json:"answer"`
}

func echoOperation() Operation[echoInput, echoOutput] {
	return Operation[echoInput, echoOutput]{
		Name:         "echo",
		Description:  "Answer the question.",
		Template:     template.Must(template.New("echo").Parse("Question: {{.Question}}")),
		OutputSchema: json.RawMessage(`{"type":"object","properties":{"answer":{"type":"string"}},"required":["answer"]}`),
		ValidateInput: func(in echoInput) error {
			if in.Question == "" {
				return perrors.NewValidation("question", "must not be empty")
			}
			return nil
		},
	}
}

func toolResponse(name, payload string) *llm.CompletionResponse {
	return &llm.CompletionResponse{
		StopReason: llm.StopReasonToolUse,
		ToolUse:    &llm.ToolUse{Name: name, Input: json.RawMessage(payload)},
	}
}

func TestInvoke_Success(t *testing.T) {
	fake := &fakeProvider{resp: toolResponse("echo", `{"answer":"forty-two"}`)}
	g := NewGateway(fake, zerolog.Nop())

	out, err := Invoke(context.Background(), g, echoOperation(), echoInput{Question: "meaning?"})
	require.NoError(t, err)
	assert.Equal(t, "forty-two", out.Answer)

	// The rendered prompt and forced tool reached the provider.
	require.Len(t, fake.lastReq.Messages, 1)
	assert.Equal(t, "Question: meaning?", fake.lastReq.Messages[0].Content)
	assert.Equal(t, "echo", fake.lastReq.ForceTool)
	require.Len(t, fake.lastReq.Tools, 1)
	assert.Equal(t, "echo", fake.lastReq.Tools[0].Name)
}

func TestInvoke_InputValidationBlocksNetworkCall(t *testing.T) {
	fake := &fakeProvider{resp: toolResponse("echo", `{"answer":"x"}`)}
	g := NewGateway(fake, zerolog.Nop())

	_, err := Invoke(context.Background(), g, echoOperation(), echoInput{})

	var vErr *perrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, 0, fake.calls, "no network call after validation failure")
}

func TestInvoke_TransportErrorPropagates(t *testing.T) {
	fake := &fakeProvider{err: perrors.NewTransport("gemini", 503, "overloaded")}
	g := NewGateway(fake, zerolog.Nop())

	_, err := Invoke(context.Background(), g, echoOperation(), echoInput{Question: "q"})

	var tErr *perrors.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, 1, fake.calls, "transport failures are not retried internally")
}

func TestInvoke_SchemaViolation_MissingPayload(t *testing.T) {
	fake := &fakeProvider{resp: &llm.CompletionResponse{Text: "I cannot answer that."}}
	g := NewGateway(fake, zerolog.Nop())

	_, err := Invoke(context.Background(), g, echoOperation(), echoInput{Question: "q"})

	var sErr *perrors.SchemaViolationError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, "echo", sErr.Operation)
}

func TestInvoke_SchemaViolation_UnknownField(t *testing.T) {
	fake := &fakeProvider{resp: toolResponse("echo", `{"answer":"x","confidence":0.9}`)}
	g := NewGateway(fake, zerolog.Nop())

	_, err := Invoke(context.Background(), g, echoOperation(), echoInput{Question: "q"})

	var sErr *perrors.SchemaViolationError
	require.True(t, errors.As(err, &sErr))
}

func TestInvoke_SchemaViolation_WrongTool(t *testing.T) {
	fake := &fakeProvider{resp: toolResponse("other", `{"answer":"x"}`)}
	g := NewGateway(fake, zerolog.Nop())

	_, err := Invoke(context.Background(), g, echoOperation(), echoInput{Question: "q"})

	var sErr *perrors.SchemaViolationError
	require.True(t, errors.As(err, &sErr))
	assert.Contains(t, sErr.Reason, "unexpected tool")
}

func TestInvoke_OutputValidatorRuns(t *testing.T) {
	op := echoOperation()
	op.ValidateOutput = func(out echoOutput) error {
		return errors.New("answer too short")
	}
	fake := &fakeProvider{resp: toolResponse("echo", `{"answer":"x"}`)}
	g := NewGateway(fake, zerolog.Nop())

	_, err := Invoke(context.Background(), g, op, echoInput{Question: "q"})

	var sErr *perrors.SchemaViolationError
	require.True(t, errors.As(err, &sErr))
	assert.Contains(t, sErr.Reason, "answer too short")
}

func TestInvoke_TextFallbackExtraction(t *testing.T) {
	fake := &fakeProvider{resp: &llm.CompletionResponse{
		StopReason: llm.StopReasonEndTurn,
		Text:       "Here you go:\n```json\n{\"answer\": \"fallback\"}\n```",
	}}
	g := NewGateway(fake, zerolog.Nop())

	out, err := Invoke(context.Background(), g, echoOperation(), echoInput{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", out.Answer)
}

func TestInvoke_FlowSettingsApplied(t *testing.T) {
	temp := 0.1
	fake := &fakeProvider{resp: toolResponse("echo", `{"answer":"x"}`)}
	g := NewGateway(fake, zerolog.Nop(), WithFlowSettings(map[string]config.FlowSettings{
		"echo": {Model: "gemini-2.5-pro", Temperature: &temp, MaxTokens: 2048},
	}))

	_, err := Invoke(context.Background(), g, echoOperation(), echoInput{Question: "q"})
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", fake.lastReq.Model)
	require.NotNil(t, fake.lastReq.Temperature)
	assert.Equal(t, 0.1, *fake.lastReq.Temperature)
	assert.Equal(t, 2048, fake.lastReq.MaxTokens)
}

func TestInvoke_MediaForwarded(t *testing.T) {
	op := echoOperation()
	op.Media = func(in echoInput) []llm.Media {
		return []llm.Media{{MIMEType: "application/pdf", Data: []byte("%PDF")}}
	}
	fake := &fakeProvider{resp: toolResponse("echo", `{"answer":"x"}`)}
	g := NewGateway(fake, zerolog.Nop())

	_, err := Invoke(context.Background(), g, op, echoInput{Question: "q"})
	require.NoError(t, err)

	require.Len(t, fake.lastReq.Messages[0].Media, 1)
	assert.Equal(t, "application/pdf", fake.lastReq.Messages[0].Media[0].MIMEType)
}
