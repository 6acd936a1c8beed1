package quantnote

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFarms(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chain/56/farms", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"name":"PancakeSwap","true_name":"pancakeswap","tvl":"1800000000"},
			{"name":"Beefy","true_name":"beefy","tvl":"240000000"}
		]`))
	}))

	farms, err := c.GetFarms(context.Background(), ChainParams{})
	require.NoError(t, err)
	require.Len(t, farms, 2)
	assert.Equal(t, "pancakeswap", farms[0].TrueName)
	assert.Equal(t, "1800000000", farms[0].TVL.String())
}

func TestFarmCountPaths(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`14`))
	}))

	count, err := c.GetOptimizerFarmCount(context.Background(), ChainParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(14), count)
	assert.Equal(t, "/v1/chain/56/farms/optimizers/number", gotPath)

	_, err = c.GetYieldFarmCount(context.Background(), ChainParams{Chain: "polygon"})
	require.NoError(t, err)
	assert.Equal(t, "/v1/chain/137/farms/yields/number", gotPath)
}

func TestGetPoolsGroupedDecode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chain/56/farms/pancakeswap/pools", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"lp_pools":[{"token":"Cake-WBNB","token_address":"` + cakeWbnbLP + `","reward_token":"Cake"}],
			"optimizer_lp_pools":[],
			"optimizer_single_asset_pools":[{"token":"Cake","from_platform":"pancakeswap","reward_token":"Cake"}],
			"single_asset_pools":[{"token":"Cake","reward_token":"Cake"}]
		}`))
	}))

	pools, err := c.GetPools(context.Background(), PoolsParams{Platform: "pancakeswap"})
	require.NoError(t, err)
	require.Len(t, pools.LPPools, 1)
	assert.Equal(t, cakeWbnbLP, pools.LPPools[0].TokenAddress)
	assert.Empty(t, pools.OptimizerLPPools)
	require.Len(t, pools.OptimizerSingleAssetPools, 1)
	assert.Equal(t, "pancakeswap", pools.OptimizerSingleAssetPools[0].FromPlatform)
	require.Len(t, pools.SingleAssetPools, 1)
}

func TestGetPoolsInfoStats(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chain/56/farms/beefy/pools/info", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"optimizer_lp_pools":[{"token":"Cake-WBNB","apy":"42.5","farm_apr":"31.2","rewards_apr":"4.1","tvl":"12000000"}]
		}`))
	}))

	info, err := c.GetPoolsInfo(context.Background(), PoolsParams{Platform: "beefy"})
	require.NoError(t, err)
	require.Len(t, info.OptimizerLPPools, 1)
	assert.Equal(t, "42.5", info.OptimizerLPPools[0].APY.String())
	assert.Equal(t, "12000000", info.OptimizerLPPools[0].TVL.String())
}

func TestGetPoolsRequiresPlatform(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	_, err := c.GetPools(context.Background(), PoolsParams{})
	var perr *ParamsError
	require.ErrorAs(t, err, &perr)
	require.Len(t, perr.Violations, 1)
	assert.Equal(t, "platform", perr.Violations[0].Field)
	assert.Equal(t, "value is required", perr.Violations[0].Reason)
}
