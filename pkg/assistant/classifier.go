package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rmcastle/fieldops/pkg/llm"
	"github.com/rmcastle/fieldops/pkg/logger"
)

const (
	// Confidence forced when the model names an unknown action
	fallbackConfidence = 0.3

	// Confidence forced when the location guard re-routes a bare reply
	// to the pending action
	guardConfidence = 0.9

	// Fast-tier results below this confidence are retried on the
	// capable tier before being accepted
	escalationConfidence = 0.55
)

// locationPattern recognizes location-shaped bare replies such as
// "rack 1", "bin 6", "van 2", "rack 1 bin 6" or "warehouse".
var locationPattern = regexp.MustCompile(
	`(?i)^\s*(?:(?:rack|bin|shelf|bay|aisle|van|truck|unit)\s*[A-Za-z0-9-]+|warehouse|storeroom|stores|depot|yard|workshop)` +
		`(?:\s+(?:(?:rack|bin|shelf|bay|aisle|van|truck|unit)\s*[A-Za-z0-9-]+|warehouse|storeroom|stores|depot|yard|workshop))*\s*$`)

// locationFieldNames are the parameter names the guard treats as
// location-shaped when they appear among a pending command's missing fields
var locationFieldNames = map[string]bool{
	"location":     true,
	"fromLocation": true,
	"toLocation":   true,
}

// ClassifyContext is the optional prior-turn context given to the
// classifier: either free text or a structured pending-action pair.
type ClassifyContext struct {
	Freeform      string
	PendingAction string
	MissingFields []string
}

// ClassifyResult is the classifier's output
type ClassifyResult struct {
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// Classifier picks one registered action for a piece of free text
type Classifier struct {
	registry *Registry
	llm      llm.Completer
	logger   logger.Logger
}

// NewClassifier creates a new intent classifier
func NewClassifier(registry *Registry, completer llm.Completer, log logger.Logger) *Classifier {
	return &Classifier{registry: registry, llm: completer, logger: log}
}

// Classify asks the model which action the command names. Unknown actions
// are coerced to the fallback at fixed low confidence. When the context
// carries a pending action missing a location-shaped field and the command
// looks like a bare location, the pending action wins at fixed high
// confidence regardless of what the model said.
func (c *Classifier) Classify(ctx context.Context, command string, cctx *ClassifyContext) (*ClassifyResult, error) {
	var result ClassifyResult
	if err := c.classifyEscalating(ctx, command, cctx, &result); err != nil {
		return nil, fmt.Errorf("intent classification failed: %w", err)
	}

	if !c.registry.Has(result.Action) {
		c.logger.Warn("model returned unknown action %q, coercing to fallback", result.Action)
		result.Action = ActionUnclear
		result.Confidence = fallbackConfidence
	}

	// Deterministic guard: a one-word location answer to a pending
	// question must not be re-classified as a brand-new command.
	if cctx != nil && cctx.PendingAction != "" && missingLocationField(cctx.MissingFields) &&
		locationPattern.MatchString(command) {
		c.logger.Info("location guard matched, continuing pending action %s", cctx.PendingAction)
		result.Action = cctx.PendingAction
		result.Confidence = guardConfidence
		result.Reasoning = "bare location reply to pending question"
	}

	return &result, nil
}

func (c *Classifier) classifyEscalating(ctx context.Context, command string, cctx *ClassifyContext, result *ClassifyResult) error {
	system := c.systemPrompt()
	user := c.userPrompt(command, cctx)

	err := askModel(ctx, c.llm, llm.TierFast, system, user, result)
	if err == nil && result.Confidence >= escalationConfidence {
		return nil
	}

	if err != nil {
		c.logger.Warn("fast-tier classification failed, escalating: %v", err)
	} else {
		c.logger.Info("fast-tier confidence %.2f below threshold, escalating", result.Confidence)
	}

	var capable ClassifyResult
	if capErr := askModel(ctx, c.llm, llm.TierCapable, system, user, &capable); capErr != nil {
		if err != nil {
			return capErr
		}
		// Fast tier answered with low confidence and the capable tier
		// failed: keep the fast answer rather than surfacing a failure.
		return nil
	}

	*result = capable
	return nil
}

func (c *Classifier) systemPrompt() string {
	var b strings.Builder
	b.WriteString("You classify commands for a field-service and inventory system. ")
	b.WriteString("Pick exactly one action from the list below for the user's command.\n\nActions:\n")

	for _, name := range c.registry.Names() {
		d, _ := c.registry.Lookup(name)
		fmt.Fprintf(&b, "- %s: %s\n", d.Name, d.Description)
		for _, ex := range d.Examples {
			fmt.Fprintf(&b, "  e.g. %q\n", ex.Input)
		}
	}

	b.WriteString("\nAnswer with JSON only, no other text:\n")
	b.WriteString(`{"action": "ACTION_NAME", "confidence": 0.0, "reasoning": "one short sentence"}`)
	b.WriteString("\nIf no action fits, use " + ActionUnclear + ".")
	return b.String()
}

func (c *Classifier) userPrompt(command string, cctx *ClassifyContext) string {
	var b strings.Builder
	if cctx != nil {
		if cctx.PendingAction != "" {
			fmt.Fprintf(&b, "A previous command (%s) is waiting for: %s. The user may be answering that question.\n",
				cctx.PendingAction, strings.Join(cctx.MissingFields, ", "))
		}
		if cctx.Freeform != "" {
			fmt.Fprintf(&b, "Recent conversation:\n%s\n", cctx.Freeform)
		}
	}
	fmt.Fprintf(&b, "Command: %s", command)
	return b.String()
}

func missingLocationField(fields []string) bool {
	for _, f := range fields {
		if locationFieldNames[f] {
			return true
		}
	}
	return false
}
