package dto

import (
	"encoding/json"
	"fmt"

	"github.com/rmcastle/fieldops/pkg/assistant"
)

// ClassifyIntentRequest asks which action a command maps to. Context is
// either a free-text string or a {pendingAction, missingFields} object.
type ClassifyIntentRequest struct {
	Command string          `json:"command" binding:"required" example:"add 5 M10 nuts to rack 1"`
	Context json.RawMessage `json:"context,omitempty" swaggertype:"object"`
}

type structuredContext struct {
	PendingAction string   `json:"pendingAction"`
	MissingFields []string `json:"missingFields"`
}

// ParsedContext converts the raw context into the classifier's input form
func (r *ClassifyIntentRequest) ParsedContext() (*assistant.ClassifyContext, error) {
	if len(r.Context) == 0 {
		return &assistant.ClassifyContext{}, nil
	}

	var freeform string
	if err := json.Unmarshal(r.Context, &freeform); err == nil {
		return &assistant.ClassifyContext{Freeform: freeform}, nil
	}

	var structured structuredContext
	if err := json.Unmarshal(r.Context, &structured); err != nil {
		return nil, fmt.Errorf("context must be a string or a {pendingAction, missingFields} object")
	}
	return &assistant.ClassifyContext{
		PendingAction: structured.PendingAction,
		MissingFields: structured.MissingFields,
	}, nil
}

// ClassifyIntentResponse is the classifier's answer
type ClassifyIntentResponse struct {
	Action     string  `json:"action" example:"ADD_STOCK"`
	Confidence float64 `json:"confidence" example:"0.95"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// ExtractParamsRequest asks for an action's parameters from a command
type ExtractParamsRequest struct {
	Command string `json:"command" binding:"required" example:"add 5 M10 nuts to rack 1"`
	Action  string `json:"action" binding:"required" example:"ADD_STOCK"`
	Context string `json:"context,omitempty"`
}

// ExtractParamsResponse is the extractor's answer
type ExtractParamsResponse struct {
	Parameters      map[string]interface{} `json:"parameters"`
	MissingRequired []string               `json:"missingRequired"`
	Confidence      float64                `json:"confidence" example:"0.9"`
}

// ParseCommandRequest runs both NLU stages on one command
type ParseCommandRequest struct {
	Command string `json:"command" binding:"required" example:"add 5 M10 nuts to rack 1"`
	Context string `json:"context,omitempty"`
}

// ParseCommandResponse is the normalized combined result
type ParseCommandResponse struct {
	Action          string                 `json:"action" example:"ADD_STOCK"`
	Confidence      float64                `json:"confidence" example:"0.95"`
	Reasoning       string                 `json:"reasoning"`
	Parameters      map[string]interface{} `json:"parameters"`
	MissingRequired []string               `json:"missingRequired"`
}
