package assistant

import (
	"context"
)

const cannedReasoning = "No reasoning provided."

// ParsedCommand is the combined output of both NLU stages after
// normalization
type ParsedCommand struct {
	Action          string                 `json:"action"`
	Confidence      float64                `json:"confidence"`
	Reasoning       string                 `json:"reasoning"`
	Parameters      map[string]interface{} `json:"parameters"`
	MissingRequired []string               `json:"missingRequired"`
}

// NormalizeClassification forces a classification onto the action
// allow-list and into sane ranges. Unknown actions become the fallback,
// an out-of-range confidence becomes the neutral default, and a missing
// reasoning gets a canned string.
func NormalizeClassification(registry *Registry, res *ClassifyResult) *ClassifyResult {
	out := &ClassifyResult{Action: res.Action, Confidence: res.Confidence, Reasoning: res.Reasoning}
	if !registry.Has(out.Action) {
		out.Action = ActionUnclear
		out.Confidence = fallbackConfidence
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		out.Confidence = neutralConfidence
	}
	if out.Reasoning == "" {
		out.Reasoning = cannedReasoning
	}
	return out
}

// ParseCommand runs classification then extraction and normalizes the
// combined result
func (m *Manager) ParseCommand(ctx context.Context, command, contextText string) (*ParsedCommand, error) {
	cls, err := m.classifier.Classify(ctx, command, &ClassifyContext{Freeform: contextText})
	if err != nil {
		return nil, err
	}
	cls = NormalizeClassification(m.registry, cls)

	ext, err := m.extractor.Extract(ctx, command, cls.Action, contextText)
	if err != nil {
		return nil, err
	}

	parameters := ext.Parameters
	if parameters == nil {
		parameters = make(map[string]interface{})
	}

	return &ParsedCommand{
		Action:          cls.Action,
		Confidence:      cls.Confidence,
		Reasoning:       cls.Reasoning,
		Parameters:      parameters,
		MissingRequired: ext.MissingRequired,
	}, nil
}
