package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/domain/models"
)

type stubBackend struct {
	out      models.RawProviderOutput
	err      error
	gotInput models.ProviderInput
	calls    int
}

func (s *stubBackend) Generate(_ context.Context, in models.ProviderInput) (models.RawProviderOutput, error) {
	s.gotInput = in
	s.calls++
	return s.out, s.err
}

func validProviderOutput() models.RawProviderOutput {
	return models.RawProviderOutput{
		"recommendation": map[string]interface{}{
			"action":          "BUY",
			"confidenceScore": 0.8,
			"horizon":         "MID",
			"riskLevel":       "MEDIUM",
		},
		"insight": map[string]interface{}{
			"summary":     "Momentum looks strong.",
			"reasoning":   "Price is well above the 20-day average with elevated RSI.",
			"assumptions": []interface{}{"trend persists"},
			"caveats":     []interface{}{"sudden reversals possible"},
		},
		"model": map[string]interface{}{
			"name":    "claude-3-5-haiku",
			"version": "2024-10-22",
		},
	}
}

func sampleAnalysis() models.MarketAnalysis {
	return models.MarketAnalysis{
		Symbol:         "BTC-USD",
		AsOf:           time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC),
		Resolution:     "1d",
		Trend:          models.TrendBullish,
		SignalStrength: 85,
		KPIs:           map[string]float64{"rsi14": 75, "priceVsSma": 10},
		Rationale:      "Market analysis indicates a bullish trend.",
	}
}

func TestSnapshotHashStable(t *testing.T) {
	input := buildProviderInput(sampleAnalysis())

	h1, err := SnapshotHash(input)
	require.NoError(t, err)
	h2, err := SnapshotHash(input)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestSnapshotHashSensitive(t *testing.T) {
	a := sampleAnalysis()
	b := sampleAnalysis()
	b.SignalStrength = 84

	ha, err := SnapshotHash(buildProviderInput(a))
	require.NoError(t, err)
	hb, err := SnapshotHash(buildProviderInput(b))
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestSanitizePromptField(t *testing.T) {
	assert.Equal(t, "evil tagcode", SanitizePromptField("{evil} <tag>```code```"))
	assert.Equal(t, "plain text", SanitizePromptField("plain text"))
	assert.Equal(t, "a `b` c", SanitizePromptField("a `b` c"), "single backticks survive")
}

func TestSanitizePromptFieldTruncates(t *testing.T) {
	long := strings.Repeat("x", 3000)
	got := SanitizePromptField(long)
	assert.Len(t, got, 2000)
}

func TestGenerateSuccess(t *testing.T) {
	backend := &stubBackend{out: validProviderOutput()}
	gen := NewInsightGenerator(backend, "1.0")

	res, err := gen.Generate(context.Background(), sampleAnalysis())
	require.NoError(t, err)

	assert.Equal(t, models.ActionBuy, res.Recommendation.Action)
	assert.InDelta(t, 0.8, res.Recommendation.ConfidenceScore, 1e-9)
	assert.Equal(t, models.HorizonMid, res.Recommendation.Horizon)
	assert.Equal(t, models.RiskMedium, res.Recommendation.RiskLevel)
	assert.Equal(t, "BTC-USD", res.Insight.Symbol)
	assert.Equal(t, "claude-3-5-haiku", res.Insight.ModelName)
	assert.Equal(t, "1.0", res.Insight.PromptVersion)
	assert.Equal(t, OutputSchemaVersion, res.Insight.OutputSchemaVersion)
	assert.Len(t, res.Insight.InputSnapshotHash, 64)
	assert.Equal(t, res.Recommendation.CreatedAt, res.Insight.CreatedAt,
		"both records carry the same stamp")
}

func TestGenerateHashesUnsanitizedInput(t *testing.T) {
	analysis := sampleAnalysis()
	analysis.Rationale = "{braces} stay in the hash"

	backend := &stubBackend{out: validProviderOutput()}
	gen := NewInsightGenerator(backend, "1.0")

	res, err := gen.Generate(context.Background(), analysis)
	require.NoError(t, err)

	wantHash, err := SnapshotHash(buildProviderInput(analysis))
	require.NoError(t, err)
	assert.Equal(t, wantHash, res.Insight.InputSnapshotHash)

	// the backend itself must only ever see the sanitized form
	assert.Equal(t, "braces stay in the hash", backend.gotInput.Rationale)
}

func TestGenerateBackendFailure(t *testing.T) {
	backend := &stubBackend{err: assert.AnError}
	gen := NewInsightGenerator(backend, "1.0")

	_, err := gen.Generate(context.Background(), sampleAnalysis())
	var be *models.BackendError
	require.ErrorAs(t, err, &be)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestGenerateInvalidOutput(t *testing.T) {
	out := validProviderOutput()
	out["recommendation"].(map[string]interface{})["action"] = "INVALID"

	backend := &stubBackend{out: out}
	gen := NewInsightGenerator(backend, "1.0")

	_, err := gen.Generate(context.Background(), sampleAnalysis())
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "recommendation.action", ve.Field)
	assert.Contains(t, err.Error(), "action")
}
