package ai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/domain/models"
)

func TestDecodeJSONObjectPlain(t *testing.T) {
	raw, err := decodeJSONObject(`{"recommendation": {"action": "BUY"}}`)
	require.NoError(t, err)
	rec, ok := raw["recommendation"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "BUY", rec["action"])
}

func TestDecodeJSONObjectStripsCodeFence(t *testing.T) {
	content := "```json\n{\"model\": {\"name\": \"claude\"}}\n```"
	raw, err := decodeJSONObject(content)
	require.NoError(t, err)
	assert.Contains(t, raw, "model")
}

func TestDecodeJSONObjectKeepsNumberPrecision(t *testing.T) {
	raw, err := decodeJSONObject(`{"score": 0.30000000000000004}`)
	require.NoError(t, err)
	n, ok := raw["score"].(json.Number)
	require.True(t, ok)
	assert.Equal(t, "0.30000000000000004", n.String())
}

func TestDecodeJSONObjectRejectsNonJSON(t *testing.T) {
	_, err := decodeJSONObject("I think you should buy.")
	assert.Error(t, err)
}

func TestBuildPromptEmbedsFields(t *testing.T) {
	prompt, err := buildPrompt(models.ProviderInput{
		AssetSymbol:    "BTC-USD",
		AsOf:           "2025-01-30T00:00:00Z",
		Resolution:     "1d",
		Trend:          "BULLISH",
		SignalStrength: 85,
		KPIs:           map[string]float64{"rsi14": 75},
		Rationale:      "strong momentum",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Asset: BTC-USD")
	assert.Contains(t, prompt, "- Signal Strength: 85/100")
	assert.Contains(t, prompt, `"rsi14":75`)
	assert.Contains(t, prompt, "strong momentum")
	assert.True(t, strings.Contains(prompt, "ONLY with valid JSON"))
}

func TestNewClaudeBackendRequiresKey(t *testing.T) {
	_, err := NewClaudeBackend(Config{})
	assert.Error(t, err)
}
