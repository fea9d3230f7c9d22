package models

import (
	"fmt"
	"time"
)

// TrendDirection labels the classified market trend.
type TrendDirection string

const (
	TrendBullish TrendDirection = "BULLISH"
	TrendBearish TrendDirection = "BEARISH"
	TrendNeutral TrendDirection = "NEUTRAL"
)

// PricePoint is one OHLCV bar for a symbol at a timestamp.
type PricePoint struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Validate checks OHLC coherence: low <= min(open, close) and
// max(open, close) <= high, with a non-negative volume.
func (p *PricePoint) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("price point symbol is empty")
	}
	lo := p.Open
	if p.Close < lo {
		lo = p.Close
	}
	hi := p.Open
	if p.Close > hi {
		hi = p.Close
	}
	if p.Low > lo {
		return fmt.Errorf("price point low %.4f above min(open, close) %.4f", p.Low, lo)
	}
	if p.High < hi {
		return fmt.Errorf("price point high %.4f below max(open, close) %.4f", p.High, hi)
	}
	if p.Volume < 0 {
		return fmt.Errorf("price point volume %.4f is negative", p.Volume)
	}
	return nil
}

// IndicatorSet holds the computed indicators for a symbol at a point in time.
// Pointer fields are nil when the series is too short for the window.
type IndicatorSet struct {
	Symbol        string    `json:"symbol"`
	Timestamp     time.Time `json:"timestamp"`
	Resolution    string    `json:"resolution"`
	SMA20         *float64  `json:"sma20"`
	EMA20         *float64  `json:"ema20"`
	RSI14         *float64  `json:"rsi14"`
	Volatility30d *float64  `json:"volatility30d"`
	Sharpe30d     *float64  `json:"sharpe30d"`
}

// MarketAnalysis is the trend classification result for one symbol.
type MarketAnalysis struct {
	Symbol         string             `json:"symbol"`
	AsOf           time.Time          `json:"asOf"`
	Resolution     string             `json:"resolution"`
	Trend          TrendDirection     `json:"trend"`
	SignalStrength int                `json:"signalStrength"`
	KPIs           map[string]float64 `json:"kpis"`
	Rationale      string             `json:"rationale"`
}

// PipelineSummary reports the outcome of one full pipeline run.
type PipelineSummary struct {
	AssetSymbol          string    `json:"assetSymbol"`
	Resolution           string    `json:"resolution"`
	IngestedCount        int       `json:"ingestedCount"`
	IndicatorComputed    bool      `json:"indicatorComputed"`
	AnalysisGenerated    bool      `json:"analysisGenerated"`
	InsightGenerated     bool      `json:"insightGenerated"`
	Trend                string    `json:"trend"`
	RecommendationAction string    `json:"recommendationAction"`
	ExecutedAt           time.Time `json:"executedAt"`
}
