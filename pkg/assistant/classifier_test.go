package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcastle/fieldops/pkg/llm"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type scripted struct {
	text string
	err  error
}

// fakeCompleter pops one scripted response per call and records the tiers
// it was asked for
type fakeCompleter struct {
	responses []scripted
	tiers     []llm.Tier
}

func (f *fakeCompleter) Complete(_ context.Context, tier llm.Tier, _ llm.Request) (string, error) {
	f.tiers = append(f.tiers, tier)
	if len(f.responses) == 0 {
		return "", errors.New("no scripted response left")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.text, r.err
}

func newTestClassifier(responses ...scripted) (*Classifier, *fakeCompleter) {
	completer := &fakeCompleter{responses: responses}
	return NewClassifier(NewRegistry(), completer, nopLogger{}), completer
}

func TestClassifyKnownAction(t *testing.T) {
	classifier, completer := newTestClassifier(
		scripted{text: `{"action": "ADD_STOCK", "confidence": 0.95, "reasoning": "adding stock"}`},
	)

	result, err := classifier.Classify(context.Background(), "add 5 M10 nuts to rack 1 bin 6", nil)
	require.NoError(t, err)

	assert.Equal(t, ActionAddStock, result.Action)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Equal(t, []llm.Tier{llm.TierFast}, completer.tiers)
}

func TestClassifyUnknownActionCoercedToFallback(t *testing.T) {
	classifier, _ := newTestClassifier(
		scripted{text: `{"action": "ORDER_PIZZA", "confidence": 0.9}`},
	)

	result, err := classifier.Classify(context.Background(), "order a large pepperoni", nil)
	require.NoError(t, err)

	assert.Equal(t, ActionUnclear, result.Action)
	assert.Equal(t, 0.3, result.Confidence)
}

func TestClassifyLocationGuardOverridesModel(t *testing.T) {
	// the model re-classifies the bare reply as something new; the guard
	// must put it back on the pending action
	classifier, _ := newTestClassifier(
		scripted{text: `{"action": "LIST_JOBS", "confidence": 0.8}`},
	)

	result, err := classifier.Classify(context.Background(), "rack 1", &ClassifyContext{
		PendingAction: ActionAddStock,
		MissingFields: []string{"location"},
	})
	require.NoError(t, err)

	assert.Equal(t, ActionAddStock, result.Action)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestClassifyGuardNeedsLocationField(t *testing.T) {
	// same reply, but the pending command is not missing a location
	classifier, _ := newTestClassifier(
		scripted{text: `{"action": "LIST_JOBS", "confidence": 0.8}`},
	)

	result, err := classifier.Classify(context.Background(), "rack 1", &ClassifyContext{
		PendingAction: ActionAddProduct,
		MissingFields: []string{"partNumber"},
	})
	require.NoError(t, err)

	assert.Equal(t, ActionListJobs, result.Action)
}

func TestClassifyEscalatesOnTransportFailure(t *testing.T) {
	classifier, completer := newTestClassifier(
		scripted{err: errors.New("timeout")},
		scripted{text: `{"action": "CHECK_STOCK", "confidence": 0.85}`},
	)

	result, err := classifier.Classify(context.Background(), "how many M10 nuts do we have", nil)
	require.NoError(t, err)

	assert.Equal(t, ActionCheckStock, result.Action)
	assert.Equal(t, []llm.Tier{llm.TierFast, llm.TierCapable}, completer.tiers)
}

func TestClassifyEscalatesOnLowConfidence(t *testing.T) {
	classifier, completer := newTestClassifier(
		scripted{text: `{"action": "USE_STOCK", "confidence": 0.4}`},
		scripted{text: `{"action": "TRANSFER_STOCK", "confidence": 0.9}`},
	)

	result, err := classifier.Classify(context.Background(), "shift 10 cable ties over to van 1", nil)
	require.NoError(t, err)

	assert.Equal(t, ActionTransferStock, result.Action)
	assert.Len(t, completer.tiers, 2)
}

func TestClassifyKeepsFastAnswerWhenCapableFails(t *testing.T) {
	classifier, _ := newTestClassifier(
		scripted{text: `{"action": "USE_STOCK", "confidence": 0.4}`},
		scripted{err: errors.New("timeout")},
	)

	result, err := classifier.Classify(context.Background(), "used a couple of valves", nil)
	require.NoError(t, err)

	assert.Equal(t, ActionUseStock, result.Action)
	assert.Equal(t, 0.4, result.Confidence)
}

func TestClassifyBothTiersFail(t *testing.T) {
	classifier, _ := newTestClassifier(
		scripted{err: errors.New("timeout")},
		scripted{err: errors.New("timeout again")},
	)

	_, err := classifier.Classify(context.Background(), "add stock", nil)
	assert.Error(t, err)
}

func TestClassifyMalformedJSONEscalates(t *testing.T) {
	classifier, completer := newTestClassifier(
		scripted{text: "sure, that sounds like adding stock!"},
		scripted{text: "```json\n{\"action\": \"ADD_STOCK\", \"confidence\": 0.9}\n```"},
	)

	result, err := classifier.Classify(context.Background(), "add 3 filters to the van", nil)
	require.NoError(t, err)

	assert.Equal(t, ActionAddStock, result.Action)
	assert.Equal(t, []llm.Tier{llm.TierFast, llm.TierCapable}, completer.tiers)
}

func TestLocationPattern(t *testing.T) {
	matching := []string{
		"rack 1", "bin 6", "van 2", "rack 1 bin 6", "warehouse",
		"Rack 12", "shelf A3", "depot", "unit 7 bay 2",
	}
	for _, input := range matching {
		assert.True(t, locationPattern.MatchString(input), "expected match: %q", input)
	}

	notMatching := []string{
		"add 5 M10 nuts", "book a job for Mrs Hughes", "racket sports", "yes",
	}
	for _, input := range notMatching {
		assert.False(t, locationPattern.MatchString(input), "expected no match: %q", input)
	}
}
