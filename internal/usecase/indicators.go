package usecase

import (
	"math"
	"sort"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

const (
	smaWindow        = 20
	emaWindow        = 20
	rsiPeriod        = 14
	volWindow        = 30
	sharpeWindow     = 30
	riskFreeRate     = 0.02
	tradingDaysYearF = 252.0
)

// IndicatorEngine computes the fixed indicator set from a price series.
// Stateless; safe for concurrent use.
type IndicatorEngine struct{}

func NewIndicatorEngine() *IndicatorEngine { return &IndicatorEngine{} }

// Compute derives indicators from the closing price series. The input may be
// unordered; it is sorted ascending by timestamp first. Indicators whose
// window exceeds the series length come back nil, which is a valid
// "insufficient history" state rather than an error.
func (e *IndicatorEngine) Compute(points []models.PricePoint, resolution domrepo.Resolution) (models.IndicatorSet, error) {
	if len(points) == 0 {
		return models.IndicatorSet{}, models.ErrEmptyInput
	}

	sorted := make([]models.PricePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	closes := make([]float64, len(sorted))
	for i, p := range sorted {
		closes[i] = p.Close
	}
	latest := sorted[len(sorted)-1]

	return models.IndicatorSet{
		Symbol:        latest.Symbol,
		Timestamp:     latest.Timestamp,
		Resolution:    string(resolution),
		SMA20:         calcSMA(closes, smaWindow),
		EMA20:         calcEMA(closes, emaWindow),
		RSI14:         calcRSI(closes, rsiPeriod),
		Volatility30d: calcVolatility(closes, volWindow),
		Sharpe30d:     calcSharpe(closes, sharpeWindow),
	}, nil
}

func calcSMA(prices []float64, period int) *float64 {
	if len(prices) < period {
		return nil
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	v := sum / float64(period)
	return &v
}

// calcEMA seeds with the SMA of the first `period` closes, then applies the
// standard recursive update over the remainder.
func calcEMA(prices []float64, period int) *float64 {
	if len(prices) < period {
		return nil
	}
	multiplier := 2.0 / float64(period+1)
	ema := *calcSMA(prices[:period], period)
	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
	}
	return &ema
}

// calcRSI is the Wilder-style RSI: seed averages over the first `period`
// changes, then smooth with avg = (avg*(period-1) + value) / period.
func calcRSI(prices []float64, period int) *float64 {
	if len(prices) < period+1 {
		return nil
	}

	gains := make([]float64, 0, len(prices)-1)
	losses := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, math.Abs(change))
		}
	}

	avgGain := mean(gains[:period])
	avgLoss := mean(losses[:period])
	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
	}

	var rsi float64
	if avgLoss == 0 {
		rsi = 100
	} else {
		rsi = 100 - 100/(1+avgGain/avgLoss)
	}
	return &rsi
}

func calcVolatility(prices []float64, period int) *float64 {
	if len(prices) < period {
		return nil
	}
	returns := logReturns(prices[len(prices)-period:])
	m := mean(returns)
	variance := 0.0
	for _, r := range returns {
		variance += (r - m) * (r - m)
	}
	variance /= float64(len(returns))
	v := math.Sqrt(variance) * math.Sqrt(tradingDaysYearF)
	return &v
}

func calcSharpe(prices []float64, period int) *float64 {
	if len(prices) < period {
		return nil
	}
	returns := logReturns(prices[len(prices)-period:])
	m := mean(returns)
	variance := 0.0
	for _, r := range returns {
		variance += (r - m) * (r - m)
	}
	variance /= float64(len(returns))
	stdDev := math.Sqrt(variance)

	v := 0.0
	if stdDev != 0 {
		annualizedReturn := m * tradingDaysYearF
		annualizedStdDev := stdDev * math.Sqrt(tradingDaysYearF)
		v = (annualizedReturn - riskFreeRate) / annualizedStdDev
	}
	return &v
}

func logReturns(prices []float64) []float64 {
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out = append(out, math.Log(prices[i]/prices[i-1]))
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
