package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

func seriesFromCloses(closes ...float64) []models.PricePoint {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.PricePoint, 0, len(closes))
	for i, c := range closes {
		points = append(points, models.PricePoint{
			Symbol:    "TEST",
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		})
	}
	return points
}

func steppedCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestComputeEmptySeries(t *testing.T) {
	_, err := NewIndicatorEngine().Compute(nil, domrepo.Res1d)
	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestComputeShortSeriesYieldsNilWindows(t *testing.T) {
	points := seriesFromCloses(steppedCloses(19, 100, 1)...)

	ind, err := NewIndicatorEngine().Compute(points, domrepo.Res1d)
	require.NoError(t, err)

	assert.Nil(t, ind.SMA20, "19 points cannot fill a 20 window")
	assert.Nil(t, ind.EMA20)
	assert.NotNil(t, ind.RSI14, "15+ points suffice for RSI")
	assert.Nil(t, ind.Volatility30d)
	assert.Nil(t, ind.Sharpe30d)
}

func TestComputeRSINeedsFifteenPoints(t *testing.T) {
	ind, err := NewIndicatorEngine().Compute(seriesFromCloses(steppedCloses(14, 100, 1)...), domrepo.Res1d)
	require.NoError(t, err)
	assert.Nil(t, ind.RSI14)

	ind, err = NewIndicatorEngine().Compute(seriesFromCloses(steppedCloses(15, 100, 1)...), domrepo.Res1d)
	require.NoError(t, err)
	assert.NotNil(t, ind.RSI14)
}

func TestComputeSMA(t *testing.T) {
	// closes 100..119, mean 109.5
	ind, err := NewIndicatorEngine().Compute(seriesFromCloses(steppedCloses(20, 100, 1)...), domrepo.Res1d)
	require.NoError(t, err)

	require.NotNil(t, ind.SMA20)
	assert.InDelta(t, 109.5, *ind.SMA20, 1e-9)
	require.NotNil(t, ind.EMA20)
	assert.InDelta(t, 109.5, *ind.EMA20, 1e-9, "EMA seeded by SMA with no further updates")
}

func TestComputeRSIExtremes(t *testing.T) {
	rising, err := NewIndicatorEngine().Compute(seriesFromCloses(steppedCloses(30, 100, 2)...), domrepo.Res1d)
	require.NoError(t, err)
	require.NotNil(t, rising.RSI14)
	assert.Greater(t, *rising.RSI14, 70.0)

	falling, err := NewIndicatorEngine().Compute(seriesFromCloses(steppedCloses(30, 200, -2)...), domrepo.Res1d)
	require.NoError(t, err)
	require.NotNil(t, falling.RSI14)
	assert.Less(t, *falling.RSI14, 30.0)
}

func TestComputeVolatilityAndSharpe(t *testing.T) {
	ind, err := NewIndicatorEngine().Compute(seriesFromCloses(steppedCloses(30, 100, 1)...), domrepo.Res1d)
	require.NoError(t, err)

	require.NotNil(t, ind.Volatility30d)
	assert.Greater(t, *ind.Volatility30d, 0.0)
	require.NotNil(t, ind.Sharpe30d)
	assert.Greater(t, *ind.Sharpe30d, 0.0, "steady uptrend should earn a positive sharpe")
}

func TestComputeConstantSeriesZeroSharpe(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	ind, err := NewIndicatorEngine().Compute(seriesFromCloses(closes...), domrepo.Res1d)
	require.NoError(t, err)

	require.NotNil(t, ind.Volatility30d)
	assert.Zero(t, *ind.Volatility30d)
	require.NotNil(t, ind.Sharpe30d)
	assert.Zero(t, *ind.Sharpe30d, "zero stddev must yield sharpe 0, not a division blowup")
}

func TestComputeDeterministic(t *testing.T) {
	points := seriesFromCloses(steppedCloses(30, 100, 1.5)...)

	first, err := NewIndicatorEngine().Compute(points, domrepo.Res1d)
	require.NoError(t, err)
	second, err := NewIndicatorEngine().Compute(points, domrepo.Res1d)
	require.NoError(t, err)

	require.NotNil(t, first.SMA20)
	require.NotNil(t, first.EMA20)
	require.NotNil(t, first.RSI14)
	require.NotNil(t, first.Volatility30d)
	require.NotNil(t, first.Sharpe30d)

	assert.Equal(t, *first.SMA20, *second.SMA20)
	assert.Equal(t, *first.EMA20, *second.EMA20)
	assert.Equal(t, *first.RSI14, *second.RSI14)
	assert.Equal(t, *first.Volatility30d, *second.Volatility30d)
	assert.Equal(t, *first.Sharpe30d, *second.Sharpe30d)
}

func TestComputeSortsUnorderedInput(t *testing.T) {
	points := seriesFromCloses(steppedCloses(20, 100, 1)...)
	// reverse
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	ind, err := NewIndicatorEngine().Compute(points, domrepo.Res1d)
	require.NoError(t, err)
	require.NotNil(t, ind.SMA20)
	assert.InDelta(t, 109.5, *ind.SMA20, 1e-9)
	assert.Equal(t, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), ind.Timestamp)
}
