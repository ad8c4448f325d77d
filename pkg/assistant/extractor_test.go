package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcastle/fieldops/pkg/llm"
)

func newTestExtractor(responses ...scripted) (*Extractor, *fakeCompleter) {
	completer := &fakeCompleter{responses: responses}
	return NewExtractor(NewRegistry(), completer, nopLogger{}), completer
}

func TestExtractAllFieldsPresent(t *testing.T) {
	extractor, _ := newTestExtractor(
		scripted{text: `{"parameters": {"item": "M10 nuts", "quantity": 5, "location": "rack 1 bin 6"}, "confidence": 0.9}`},
	)

	result, err := extractor.Extract(context.Background(), "add 5 M10 nuts to rack 1 bin 6", ActionAddStock, "")
	require.NoError(t, err)

	assert.Empty(t, result.MissingRequired)
	assert.Equal(t, "M10 nuts", result.Parameters["item"])
	assert.Equal(t, float64(5), result.Parameters["quantity"])
}

func TestExtractListsMissingRequiredVerbatim(t *testing.T) {
	extractor, _ := newTestExtractor(
		scripted{text: `{"parameters": {"name": "cable", "cost": 25}, "confidence": 0.8}`},
	)

	result, err := extractor.Extract(context.Background(), "add new item cable cost 25", ActionAddProduct, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"partNumber"}, result.MissingRequired)
	assert.Equal(t, "cable", result.Parameters["name"])
}

func TestExtractBlankStringCountsAsMissing(t *testing.T) {
	extractor, _ := newTestExtractor(
		scripted{text: `{"parameters": {"item": "nuts", "quantity": 5, "location": "  "}, "confidence": 0.7}`},
	)

	result, err := extractor.Extract(context.Background(), "add 5 nuts", ActionAddStock, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"location"}, result.MissingRequired)
}

func TestExtractUnknownActionIsNeutralNotError(t *testing.T) {
	extractor, completer := newTestExtractor()

	result, err := extractor.Extract(context.Background(), "whatever", "NOT_AN_ACTION", "")
	require.NoError(t, err)

	assert.Empty(t, result.Parameters)
	assert.Empty(t, result.MissingRequired)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Empty(t, completer.tiers, "no model call for an unknown action")
}

func TestExtractExtraFieldsPassThrough(t *testing.T) {
	extractor, _ := newTestExtractor(
		scripted{text: `{"parameters": {"item": "nuts", "quantity": 2, "location": "van 1", "notes": "for the Hughes job"}, "confidence": 0.85}`},
	)

	result, err := extractor.Extract(context.Background(), "add 2 nuts to van 1 for the Hughes job", ActionAddStock, "")
	require.NoError(t, err)

	assert.Equal(t, "for the Hughes job", result.Parameters["notes"])
}

func TestExtractEscalatesOnMalformedOutput(t *testing.T) {
	extractor, completer := newTestExtractor(
		scripted{text: "the item is nuts and the quantity is five"},
		scripted{text: `{"parameters": {"item": "nuts", "quantity": 5, "location": "van 1"}, "confidence": 0.9}`},
	)

	result, err := extractor.Extract(context.Background(), "add 5 nuts to van 1", ActionAddStock, "")
	require.NoError(t, err)

	assert.Empty(t, result.MissingRequired)
	assert.Equal(t, []llm.Tier{llm.TierFast, llm.TierCapable}, completer.tiers)
}
