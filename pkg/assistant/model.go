package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rmcastle/fieldops/pkg/llm"
)

// askModel sends a prompt to one model tier and decodes the strict-JSON
// reply into out. Markdown code fences and any prose around the JSON object
// are tolerated; anything else is an error so the caller can escalate.
func askModel(ctx context.Context, completer llm.Completer, tier llm.Tier, system, user string, out interface{}) error {
	response, err := completer.Complete(ctx, tier, llm.Request{
		System:   system,
		Messages: []llm.Message{{Role: "user", Content: user}},
	})
	if err != nil {
		return err
	}

	payload := extractJSON(response)
	if payload == "" {
		return fmt.Errorf("model reply contained no JSON object")
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("error decoding model JSON: %w", err)
	}

	return nil
}

// askModelEscalating tries the fast tier first and escalates to the capable
// tier on transport failure or malformed output. Both tiers failing
// surfaces the capable tier's error.
func askModelEscalating(ctx context.Context, completer llm.Completer, system, user string, out interface{}) error {
	if err := askModel(ctx, completer, llm.TierFast, system, user, out); err == nil {
		return nil
	}
	return askModel(ctx, completer, llm.TierCapable, system, user, out)
}

// extractJSON returns the outermost JSON object embedded in s, or ""
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
