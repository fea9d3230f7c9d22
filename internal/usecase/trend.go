package usecase

import (
	"fmt"
	"sort"
	"strings"

	"MarketLens/internal/domain/models"
)

// TrendClassifier converts the latest close plus indicators into a trend
// label, a 0-100 signal strength, and a human-readable rationale.
// Stateless; safe for concurrent use.
type TrendClassifier struct{}

func NewTrendClassifier() *TrendClassifier { return &TrendClassifier{} }

// Classify scores bullish and bearish evidence independently from sma20 and
// rsi14; other indicator fields pass through into KPIs without affecting the
// decision. The bearish/bullish winner needs a 10-point margin over the other
// side so near-tied scores stay NEUTRAL instead of flip-flopping.
func (c *TrendClassifier) Classify(points []models.PricePoint, indicators models.IndicatorSet) (models.MarketAnalysis, error) {
	if len(points) == 0 {
		return models.MarketAnalysis{}, models.ErrEmptyInput
	}

	sorted := make([]models.PricePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	latest := sorted[len(sorted)-1]
	price := latest.Close

	trend, strength, signals := determineTrend(price, indicators)

	return models.MarketAnalysis{
		Symbol:         indicators.Symbol,
		AsOf:           latest.Timestamp,
		Resolution:     indicators.Resolution,
		Trend:          trend,
		SignalStrength: strength,
		KPIs:           buildKPIs(price, indicators),
		Rationale:      buildRationale(trend, signals, price, indicators),
	}, nil
}

func determineTrend(price float64, ind models.IndicatorSet) (models.TrendDirection, int, []string) {
	var signals []string
	bullish := 0
	bearish := 0

	if ind.SMA20 != nil {
		priceVsSma := (price - *ind.SMA20) / *ind.SMA20 * 100

		switch {
		case priceVsSma > 5:
			bullish += 30
			signals = append(signals, "price significantly above SMA20")
		case priceVsSma > 0:
			bullish += 15
			signals = append(signals, "price above SMA20")
		case priceVsSma < -5:
			bearish += 30
			signals = append(signals, "price significantly below SMA20")
		case priceVsSma < 0:
			bearish += 15
			signals = append(signals, "price below SMA20")
		}
	}

	if ind.RSI14 != nil {
		rsi := *ind.RSI14
		switch {
		case rsi > 70:
			bullish += 35
			signals = append(signals, "RSI indicates overbought (strong momentum)")
		case rsi > 60:
			bullish += 25
			signals = append(signals, "RSI indicates bullish momentum")
		case rsi < 30:
			bearish += 35
			signals = append(signals, "RSI indicates oversold (strong downward momentum)")
		case rsi < 40:
			bearish += 25
			signals = append(signals, "RSI indicates bearish momentum")
		}
	}

	switch {
	case bullish >= 40 && bullish > bearish+10:
		return models.TrendBullish, minInt(100, bullish+20), signals
	case bearish >= 40 && bearish > bullish+10:
		return models.TrendBearish, minInt(100, bearish+20), signals
	default:
		return models.TrendNeutral, maxInt(0, 50-absInt(bullish-bearish)), signals
	}
}

func buildRationale(trend models.TrendDirection, signals []string, price float64, ind models.IndicatorSet) string {
	parts := []string{
		fmt.Sprintf("Market analysis indicates a %s trend.", strings.ToLower(string(trend))),
	}
	if len(signals) > 0 {
		parts = append(parts, fmt.Sprintf("Key signals: %s.", strings.Join(signals, "; ")))
	}
	if ind.SMA20 != nil {
		diff := (price - *ind.SMA20) / *ind.SMA20 * 100
		parts = append(parts, fmt.Sprintf("Price is %.1f%% relative to SMA20.", diff))
	}
	if ind.RSI14 != nil {
		parts = append(parts, fmt.Sprintf("RSI(14) at %.1f.", *ind.RSI14))
	}
	return strings.Join(parts, " ")
}

func buildKPIs(price float64, ind models.IndicatorSet) map[string]float64 {
	kpis := make(map[string]float64)
	if ind.RSI14 != nil {
		kpis["rsi14"] = *ind.RSI14
	}
	if ind.SMA20 != nil {
		kpis["priceVsSma"] = (price - *ind.SMA20) / *ind.SMA20 * 100
	}
	if ind.Volatility30d != nil {
		kpis["volatility30d"] = *ind.Volatility30d
	}
	if ind.Sharpe30d != nil {
		kpis["sharpe30d"] = *ind.Sharpe30d
	}
	return kpis
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
