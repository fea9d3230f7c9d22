package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalJSONSortsKeysRecursively(t *testing.T) {
	v := map[string]interface{}{
		"b": 1,
		"a": map[string]interface{}{
			"z": true,
			"y": []interface{}{map[string]interface{}{"k2": 1, "k1": 2}},
		},
	}

	got, err := CanonicalJSON(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"y":[{"k1":2,"k2":1}],"z":true},"b":1}`, string(got))
}

func TestCanonicalJSONPreservesNumbers(t *testing.T) {
	got, err := CanonicalJSON(map[string]interface{}{"x": 0.1})
	require.NoError(t, err)
	assert.Equal(t, `{"x":0.1}`, string(got))
}

func TestCanonicalJSONMapOrderIndependence(t *testing.T) {
	a := map[string]float64{"rsi14": 75, "priceVsSma": 10, "sharpe30d": 1.1}
	b := map[string]float64{"sharpe30d": 1.1, "priceVsSma": 10, "rsi14": 75}

	ca, err := CanonicalJSON(a)
	require.NoError(t, err)
	cb, err := CanonicalJSON(b)
	require.NoError(t, err)
	assert.Equal(t, ca, cb)
}
