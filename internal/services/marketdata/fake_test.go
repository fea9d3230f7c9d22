package marketdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeSourceDeterministic(t *testing.T) {
	src := NewFakeSource()

	a, err := src.Fetch(context.Background(), "BTC-USD")
	require.NoError(t, err)
	b, err := src.Fetch(context.Background(), "BTC-USD")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 30)
}

func TestFakeSourceVariesBySymbol(t *testing.T) {
	src := NewFakeSource()

	a, err := src.Fetch(context.Background(), "BTC-USD")
	require.NoError(t, err)
	b, err := src.Fetch(context.Background(), "ETH-USD")
	require.NoError(t, err)

	assert.NotEqual(t, a[0].Open, b[0].Open)
}

func TestFakeSourceCoherentBars(t *testing.T) {
	src := NewFakeSource()

	points, err := src.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	prev := points[0].Timestamp
	for i, p := range points {
		require.NoError(t, p.Validate(), "point %d", i)
		if i > 0 {
			assert.True(t, p.Timestamp.After(prev), "timestamps must ascend")
			prev = p.Timestamp
		}
	}
}
