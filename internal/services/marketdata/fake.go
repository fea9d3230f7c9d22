package marketdata

import (
	"context"
	"math"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

const fakePointCount = 30

var fakeBaseDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeSource generates a deterministic synthetic daily OHLCV series per
// symbol. The same symbol always yields the same series, which makes it
// usable both for local development and end-to-end tests without network
// access.
type FakeSource struct{}

var _ domrepo.MarketDataSource = (*FakeSource)(nil)

// NewFakeSource creates a deterministic synthetic market data source.
func NewFakeSource() *FakeSource { return &FakeSource{} }

// Fetch generates 30 daily points starting at 2025-01-01 seeded by the
// symbol. Bars are OHLC-coherent by construction, prices rounded to cents.
func (s *FakeSource) Fetch(_ context.Context, symbol string) ([]models.PricePoint, error) {
	rand := newSeededRand(hashSymbol(symbol))

	points := make([]models.PricePoint, 0, fakePointCount)
	basePrice := 100 + rand()*900

	for i := 0; i < fakePointCount; i++ {
		ts := fakeBaseDate.AddDate(0, 0, i)

		volatility := 0.02 + rand()*0.03
		change := (rand() - 0.5) * 2 * volatility * basePrice
		open := basePrice
		closep := basePrice + change

		highExtra := rand() * volatility * basePrice
		lowExtra := rand() * volatility * basePrice

		high := math.Max(open, closep) + highExtra
		low := math.Min(open, closep) - lowExtra

		volume := math.Floor(1000000 + rand()*9000000)

		points = append(points, models.PricePoint{
			Symbol:    symbol,
			Timestamp: ts,
			Open:      round2(open),
			High:      round2(high),
			Low:       round2(low),
			Close:     round2(closep),
			Volume:    volume,
		})

		basePrice = closep
	}

	return points, nil
}

// hashSymbol folds the symbol into a non-negative 31-bit seed. Arithmetic is
// int32 so overflow wraps the same way for every platform.
func hashSymbol(symbol string) int64 {
	var hash int32
	for _, c := range symbol {
		hash = (hash << 5) - hash + int32(c)
	}
	if hash < 0 {
		hash = -hash
	}
	return int64(hash)
}

// newSeededRand is a small LCG over the 31-bit range, returning values in
// [0, 1].
func newSeededRand(seed int64) func() float64 {
	state := seed
	return func() float64 {
		state = (state*1103515245 + 12345) & 0x7fffffff
		return float64(state) / float64(0x7fffffff)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
