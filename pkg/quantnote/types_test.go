package quantnote

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeUnmarshalSpellings(t *testing.T) {
	cases := map[string]int64{
		`"2022-01-01T00:00:00Z"`: 1640995200,
		`"2022-01-01T00:00:00"`:  1640995200,
		`"2022-01-01 00:00:00"`:  1640995200,
		`"2022-01-01"`:           1640995200,
		`1640995200`:             1640995200,
	}
	for raw, expected := range cases {
		var ts Time
		require.NoErrorf(t, json.Unmarshal([]byte(raw), &ts), "unmarshal %s", raw)
		require.Equalf(t, expected, ts.Unix(), "unmarshal %s", raw)
	}
}

func TestTimeUnmarshalEmpty(t *testing.T) {
	for _, raw := range []string{`null`, `""`} {
		var ts Time
		require.NoErrorf(t, json.Unmarshal([]byte(raw), &ts), "unmarshal %s", raw)
		assert.Truef(t, ts.IsZero(), "unmarshal %s", raw)
	}
}

func TestTimeUnmarshalGarbage(t *testing.T) {
	var ts Time
	require.Error(t, json.Unmarshal([]byte(`"soon"`), &ts))
	require.Error(t, json.Unmarshal([]byte(`true`), &ts))
}

func TestTimeMarshal(t *testing.T) {
	data, err := json.Marshal(Time{Time: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2022-01-01T00:00:00Z"`, string(data))

	data, err = json.Marshal(Time{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestTokenDecode(t *testing.T) {
	raw := `{
		"active": true, "chain": 56, "circulating_supply": "287858680.17",
		"contract": "0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82",
		"decimals": 18, "id": 42, "name": "PancakeSwap Token", "symbol": "Cake",
		"total_supply": "387741150.55", "market_cap": 1200000000.5,
		"price_usd": "4.17", "price_change_24_h": "-2.35", "volume_24_h": 91000000
	}`
	var token Token
	require.NoError(t, json.Unmarshal([]byte(raw), &token))
	assert.Equal(t, int64(56), token.Chain)
	assert.Equal(t, "Cake", token.Symbol)
	assert.Equal(t, int64(18), token.Decimals)
	assert.Equal(t, "4.17", token.PriceUSD.String())
	assert.Equal(t, "-2.35", token.PriceChange24H.String())
	assert.Equal(t, "91000000", token.Volume24H.String())
	assert.Equal(t, "1200000000.5", token.MarketCap.String())
}

func TestLPTokenDecodesPooledSides(t *testing.T) {
	raw := `{
		"chain": 56, "contract": "0x0ed7e52944161450477ee417de9cd3a859b14fd0",
		"decimals": 18, "id": 7, "name": "Pancake LPs", "symbol": "Cake-LP",
		"total_supply": "7421189.2",
		"token_0": {"chain": 56, "symbol": "Cake", "contract": "0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82"},
		"token_1": {"chain": 56, "symbol": "WBNB", "contract": "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c"}
	}`
	var lp LPToken
	require.NoError(t, json.Unmarshal([]byte(raw), &lp))
	assert.Equal(t, "Cake-LP", lp.Symbol)
	assert.Equal(t, "Cake", lp.Token0.Symbol)
	assert.Equal(t, "WBNB", lp.Token1.Symbol)
}

func TestCandleDecodeToleratesNumericTime(t *testing.T) {
	raw := `[{"time":1640995200,"open":"1.0","high":"1.2","low":"0.9","close":"1.1"}]`
	var candles []Candle
	require.NoError(t, json.Unmarshal([]byte(raw), &candles))
	require.Len(t, candles, 1)
	assert.Equal(t, int64(1640995200), candles[0].Time.Unix())
	assert.Equal(t, "1.1", candles[0].Close.String())
}
