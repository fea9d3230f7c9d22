package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"MarketLens/internal/domain/models"
)

type recordingCache struct {
	key string
	ttl time.Duration
}

func (r *recordingCache) GetBytes(key string) ([]byte, bool, error) { return nil, false, nil }

func (r *recordingCache) SetBytes(key string, b []byte, ttl time.Duration) error {
	r.key = key
	r.ttl = ttl
	return nil
}

func TestSetCacheUsesConfiguredTTL(t *testing.T) {
	rc := &recordingCache{}
	h := NewPipelineHandler(nil, nil, nil, nil, nil)
	h.SetCache(rc, 2*time.Minute)

	h.cacheSet("rec:latest:TEST", map[string]string{"k": "v"})

	assert.Equal(t, "rec:latest:TEST", rc.key)
	assert.Equal(t, 2*time.Minute, rc.ttl)
}

func TestSetCacheZeroTTLFallsBackToDefault(t *testing.T) {
	rc := &recordingCache{}
	h := NewPipelineHandler(nil, nil, nil, nil, nil)
	h.SetCache(rc, 0)

	h.cacheSet("k", map[string]string{"k": "v"})

	assert.Equal(t, defaultLatestCacheTTL, rc.ttl)
}

func dailyPoints(n int) []models.PricePoint {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.PricePoint, n)
	for i := range points {
		points[i] = models.PricePoint{
			Symbol:    "TEST",
			Timestamp: base.AddDate(0, 0, i),
			Open:      100,
			High:      101,
			Low:       99,
			Close:     100,
			Volume:    1000,
		}
	}
	return points
}

func TestClipRangeInclusive(t *testing.T) {
	points := dailyPoints(10)
	from := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	got := clipRange(points, from, to)

	assert.Len(t, got, 4)
	assert.Equal(t, from, got[0].Timestamp)
	assert.Equal(t, to, got[len(got)-1].Timestamp)
}

func TestClipRangeEmptyWindow(t *testing.T) {
	points := dailyPoints(5)
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, clipRange(points, from, to))
}
