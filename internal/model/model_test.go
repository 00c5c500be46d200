package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSideJSONRoundTrip(t *testing.T) {
	for _, side := range []Side{Buy, Sell} {
		data, err := json.Marshal(side)
		require.NoError(t, err)
		assert.Equal(t, `"`+side.String()+`"`, string(data))

		var decoded Side
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, side, decoded)
	}
}

func TestKindJSONRoundTrip(t *testing.T) {
	for _, kind := range []Kind{Limit, Market} {
		data, err := json.Marshal(kind)
		require.NoError(t, err)
		assert.Equal(t, `"`+kind.String()+`"`, string(data))

		var decoded Kind
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, kind, decoded)
	}
}

func TestSideUnmarshalRejectsUnknownValue(t *testing.T) {
	var s Side
	err := json.Unmarshal([]byte(`"long"`), &s)
	assert.Error(t, err)
}

func TestKindUnmarshalRejectsUnknownValue(t *testing.T) {
	var k Kind
	err := json.Unmarshal([]byte(`"stop"`), &k)
	assert.Error(t, err)
}

func TestOrderMarshalsSideAndKindAsStrings(t *testing.T) {
	o := Order{ID: "o1", Side: Sell, Kind: Market, Price: 10, Qty: 1}
	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"side":"sell"`)
	assert.Contains(t, string(data), `"kind":"market"`)
}
