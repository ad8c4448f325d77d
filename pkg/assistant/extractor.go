package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmcastle/fieldops/pkg/llm"
	"github.com/rmcastle/fieldops/pkg/logger"
)

// Confidence reported when the action is not in the registry: extraction
// neither succeeded nor failed, so the result is neutral.
const neutralConfidence = 0.5

// ExtractResult is the parameter extractor's output
type ExtractResult struct {
	Parameters      map[string]interface{} `json:"parameters"`
	MissingRequired []string               `json:"missingRequired"`
	Confidence      float64                `json:"confidence"`
}

// Extractor fills a confirmed action's declared parameters from free text
type Extractor struct {
	registry *Registry
	llm      llm.Completer
	logger   logger.Logger
}

// NewExtractor creates a new parameter extractor
func NewExtractor(registry *Registry, completer llm.Completer, log logger.Logger) *Extractor {
	return &Extractor{registry: registry, llm: completer, logger: log}
}

// Extract asks the model to fill the action's declared fields from the
// command text. Required fields absent from the model output are listed in
// MissingRequired; extra fields pass through unfiltered. An unknown action
// yields empty parameters at neutral confidence rather than an error.
func (e *Extractor) Extract(ctx context.Context, command, action, extra string) (*ExtractResult, error) {
	descriptor, ok := e.registry.Lookup(action)
	if !ok {
		e.logger.Warn("extraction requested for unknown action %q", action)
		return &ExtractResult{
			Parameters:      make(map[string]interface{}),
			MissingRequired: []string{},
			Confidence:      neutralConfidence,
		}, nil
	}

	var modelOut struct {
		Parameters map[string]interface{} `json:"parameters"`
		Confidence float64                `json:"confidence"`
	}

	system := e.systemPrompt(descriptor)
	user := e.userPrompt(command, extra)

	if err := askModelEscalating(ctx, e.llm, system, user, &modelOut); err != nil {
		return nil, fmt.Errorf("parameter extraction failed: %w", err)
	}

	if modelOut.Parameters == nil {
		modelOut.Parameters = make(map[string]interface{})
	}

	missing := []string{}
	for _, field := range descriptor.Required {
		if !hasValue(modelOut.Parameters, field) {
			missing = append(missing, field)
		}
	}

	return &ExtractResult{
		Parameters:      modelOut.Parameters,
		MissingRequired: missing,
		Confidence:      modelOut.Confidence,
	}, nil
}

func (e *Extractor) systemPrompt(d ActionDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You extract parameters for the %s action of a field-service and inventory system.\n", d.Name)
	fmt.Fprintf(&b, "%s.\n\n", d.Description)
	fmt.Fprintf(&b, "Required fields: %s\n", strings.Join(d.Required, ", "))
	fmt.Fprintf(&b, "Optional fields: %s\n\n", strings.Join(d.Optional, ", "))

	if len(d.Examples) > 0 {
		b.WriteString("Examples:\n")
		for _, ex := range d.Examples {
			fmt.Fprintf(&b, "  %q -> %s\n", ex.Input, ex.Output)
		}
		b.WriteString("\n")
	}

	b.WriteString("Answer with JSON only, no other text:\n")
	b.WriteString(`{"parameters": {"field": "value"}, "confidence": 0.0}`)
	b.WriteString("\nOmit fields the command does not state. Never invent values.")
	return b.String()
}

func (e *Extractor) userPrompt(command, extra string) string {
	if extra == "" {
		return "Command: " + command
	}
	return fmt.Sprintf("Context:\n%s\n\nCommand: %s", extra, command)
}

// hasValue reports whether the field carries a usable (non-empty) value
func hasValue(params map[string]interface{}, field string) bool {
	v, ok := params[field]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}
