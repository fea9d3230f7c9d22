package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/domain/models"
)

func fp(v float64) *float64 { return &v }

func classify(t *testing.T, lastClose float64, ind models.IndicatorSet) models.MarketAnalysis {
	t.Helper()
	points := seriesFromCloses(lastClose)
	ind.Symbol = "TEST"
	ind.Resolution = "1d"
	analysis, err := NewTrendClassifier().Classify(points, ind)
	require.NoError(t, err)
	return analysis
}

func TestClassifyEmptySeries(t *testing.T) {
	_, err := NewTrendClassifier().Classify(nil, models.IndicatorSet{})
	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestClassifyBullish(t *testing.T) {
	// +10% over SMA and overbought RSI: 30+35 = 65 bullish
	analysis := classify(t, 110, models.IndicatorSet{SMA20: fp(100), RSI14: fp(75)})

	assert.Equal(t, models.TrendBullish, analysis.Trend)
	assert.Equal(t, 85, analysis.SignalStrength)
	assert.Contains(t, analysis.Rationale, "bullish trend")
	assert.Contains(t, analysis.Rationale, "price significantly above SMA20")
	assert.Contains(t, analysis.Rationale, "overbought")
}

func TestClassifyBearish(t *testing.T) {
	analysis := classify(t, 90, models.IndicatorSet{SMA20: fp(100), RSI14: fp(25)})

	assert.Equal(t, models.TrendBearish, analysis.Trend)
	assert.Equal(t, 85, analysis.SignalStrength)
	assert.Contains(t, analysis.Rationale, "bearish trend")
	assert.Contains(t, analysis.Rationale, "oversold")
}

func TestClassifyNeutralWeakSignal(t *testing.T) {
	// +2% over SMA scores only 15, below the 40 threshold
	analysis := classify(t, 102, models.IndicatorSet{SMA20: fp(100)})

	assert.Equal(t, models.TrendNeutral, analysis.Trend)
	assert.Equal(t, 35, analysis.SignalStrength)
}

func TestClassifyNeutralTieBreak(t *testing.T) {
	// bullish 30 (price) vs bearish 35 (RSI): neither side reaches the 40
	// threshold, so conflicting signals stay NEUTRAL
	analysis := classify(t, 110, models.IndicatorSet{SMA20: fp(100), RSI14: fp(25)})

	assert.Equal(t, models.TrendNeutral, analysis.Trend)
	assert.Equal(t, 45, analysis.SignalStrength)
}

func TestClassifyNeutralAtSMAWithFlatRSI(t *testing.T) {
	// close exactly on SMA scores nothing either way; RSI 50 is in the dead band
	analysis := classify(t, 100, models.IndicatorSet{SMA20: fp(100), RSI14: fp(50)})

	assert.Equal(t, models.TrendNeutral, analysis.Trend)
	assert.Equal(t, 50, analysis.SignalStrength)
}

func TestClassifyNoIndicators(t *testing.T) {
	analysis := classify(t, 100, models.IndicatorSet{})

	assert.Equal(t, models.TrendNeutral, analysis.Trend)
	assert.Equal(t, 50, analysis.SignalStrength)
	assert.Empty(t, analysis.KPIs)
}

func TestClassifyKPIs(t *testing.T) {
	analysis := classify(t, 110, models.IndicatorSet{
		SMA20:         fp(100),
		RSI14:         fp(75),
		Volatility30d: fp(0.4),
		Sharpe30d:     fp(1.2),
	})

	assert.InDelta(t, 75, analysis.KPIs["rsi14"], 1e-9)
	assert.InDelta(t, 10, analysis.KPIs["priceVsSma"], 1e-9)
	assert.InDelta(t, 0.4, analysis.KPIs["volatility30d"], 1e-9)
	assert.InDelta(t, 1.2, analysis.KPIs["sharpe30d"], 1e-9)
}

func TestClassifyUsesLatestPoint(t *testing.T) {
	points := seriesFromCloses(90, 95, 110)
	analysis, err := NewTrendClassifier().Classify(points, models.IndicatorSet{SMA20: fp(100)})
	require.NoError(t, err)

	// latest close 110 is +10% over SMA
	assert.InDelta(t, 10, analysis.KPIs["priceVsSma"], 1e-9)
	assert.Equal(t, points[2].Timestamp, analysis.AsOf)
}
