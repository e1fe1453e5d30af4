// Package inference implements the structured inference gateway: a uniform
// contract for sending a named, schema-typed request to a text-generation
// provider and receiving a schema-validated structured response.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/atmosphere-labs/proposal-engine/internal/config"
	perrors "github.com/atmosphere-labs/proposal-engine/internal/errors"
	"github.com/atmosphere-labs/proposal-engine/internal/llm"
	"github.com/atmosphere-labs/proposal-engine/internal/metrics"
)

// Operation describes one named flow through the gateway: a prompt template
// mapping the input value to instructions, the JSON Schema of the expected
// structured response, and optional Go-side validators.
type Operation[I, O any] struct {
	// Name identifies the operation; it doubles as the forced tool name and
	// as the key into per-flow settings.
	Name string

	// Description is surfaced to the model as the tool description.
	Description string

	// Template renders the input value into natural-language instructions.
	Template *template.Template

	// OutputSchema is the JSON Schema the structured response must satisfy.
	OutputSchema json.RawMessage

	// ValidateInput rejects malformed input before any network call.
	ValidateInput func(I) error

	// ValidateOutput checks invariants the schema cannot express.
	ValidateOutput func(O) error

	// Media extracts binary attachments from the input, if any.
	Media func(I) []llm.Media
}

// Gateway bridges operations to a provider. It holds no per-call state:
// concurrent Invoke calls are independent, nothing is cached, and failed
// calls are never retried internally.
type Gateway struct {
	provider llm.Provider
	settings map[string]config.FlowSettings
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	timeout  time.Duration
}

// GatewayOption configures the gateway.
type GatewayOption func(*Gateway)

// WithFlowSettings supplies per-operation model/sampling overrides.
func WithFlowSettings(s map[string]config.FlowSettings) GatewayOption {
	return func(g *Gateway) { g.settings = s }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *metrics.Metrics) GatewayOption {
	return func(g *Gateway) { g.metrics = m }
}

// WithTimeout bounds each provider round trip. Zero disables the bound.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

// NewGateway creates a gateway over the given provider.
func NewGateway(provider llm.Provider, logger zerolog.Logger, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		provider: provider,
		settings: map[string]config.FlowSettings{},
		logger:   logger.With().Str("component", "inference_gateway").Logger(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Provider exposes the underlying provider, for health checks.
func (g *Gateway) Provider() llm.Provider { return g.provider }

// Invoke runs one operation: validate input, render the prompt, call the
// provider with a forced tool whose input schema is the operation's output
// schema, and decode/validate the structured reply. The caller receives
// either a fully valid output value or an error from the taxonomy —
// never a partial result.
func Invoke[I, O any](ctx context.Context, g *Gateway, op Operation[I, O], in I) (O, error) {
	var zero O

	if op.ValidateInput != nil {
		if err := op.ValidateInput(in); err != nil {
			var vErr *perrors.ValidationError
			if !errors.As(err, &vErr) {
				err = &perrors.ValidationError{Reason: err.Error()}
			}
			g.record(op.Name, "validation", 0)
			return zero, err
		}
	}

	var prompt bytes.Buffer
	if err := op.Template.Execute(&prompt, in); err != nil {
		g.record(op.Name, "validation", 0)
		return zero, &perrors.ValidationError{Reason: fmt.Sprintf("rendering prompt: %v", err)}
	}

	req := llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt.String()}},
		Tools: []llm.ToolSchema{{
			Name:        op.Name,
			Description: op.Description,
			InputSchema: op.OutputSchema,
		}},
		ForceTool: op.Name,
	}
	if op.Media != nil {
		req.Messages[0].Media = op.Media(in)
	}
	if s, ok := g.settings[op.Name]; ok {
		req.Model = s.Model
		req.Temperature = s.Temperature
		req.MaxTokens = s.MaxTokens
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.provider.Complete(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		var tErr *perrors.TransportError
		if !errors.As(err, &tErr) {
			err = &perrors.TransportError{Provider: g.provider.ModelID(), Err: err}
		}
		g.record(op.Name, "transport", elapsed)
		g.logger.Warn().Err(err).Str("operation", op.Name).Msg("inference call failed")
		return zero, err
	}

	if g.metrics != nil {
		g.metrics.RecordTokens(resp.InputTokens, resp.OutputTokens)
	}

	raw, err := structuredPayload(resp, op.Name)
	if err != nil {
		g.record(op.Name, "schema_violation", elapsed)
		return zero, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var out O
	if err := dec.Decode(&out); err != nil {
		g.record(op.Name, "schema_violation", elapsed)
		return zero, &perrors.SchemaViolationError{Operation: op.Name, Reason: "decoding structured response", Err: err}
	}

	if op.ValidateOutput != nil {
		if err := op.ValidateOutput(out); err != nil {
			g.record(op.Name, "schema_violation", elapsed)
			return zero, &perrors.SchemaViolationError{Operation: op.Name, Reason: err.Error()}
		}
	}

	g.record(op.Name, "success", elapsed)
	g.logger.Debug().
		Str("operation", op.Name).
		Dur("elapsed", elapsed).
		Msg("inference call complete")
	return out, nil
}

// structuredPayload pulls the structured JSON out of a completion: the forced
// tool call when the model honored it, otherwise a JSON block extracted from
// the plain-text reply.
func structuredPayload(resp *llm.CompletionResponse, opName string) (json.RawMessage, error) {
	if resp.ToolUse != nil {
		if resp.ToolUse.Name != opName {
			return nil, &perrors.SchemaViolationError{
				Operation: opName,
				Reason:    fmt.Sprintf("model called unexpected tool %q", resp.ToolUse.Name),
			}
		}
		return resp.ToolUse.Input, nil
	}

	block := ExtractJSONBlock(resp.Text)
	if block == "" {
		reason := "no structured payload in response"
		if strings.TrimSpace(resp.Text) == "" {
			reason = "empty response"
		}
		return nil, &perrors.SchemaViolationError{Operation: opName, Reason: reason}
	}
	return json.RawMessage(block), nil
}

func (g *Gateway) record(op, status string, elapsed time.Duration) {
	if g.metrics == nil {
		return
	}
	g.metrics.RecordFlow(op, status)
	if elapsed > 0 {
		g.metrics.ObserveInference(op, elapsed.Seconds())
	}
	if status != "success" {
		g.metrics.RecordError("gateway", status)
	}
}
