package quantnote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cakeContract   = "0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82"
	wbnbContract   = "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c"
	adaBSCContract = "0x3ee2200efb3400fabb9aacf31297cbdd1d435d47"
	adaETHContract = "0x43110d4f2113d50574412e852ebd96f1593179e4"
	walletAddress  = "0x8894e0a0c962cb723c1976a4421c95949be2d4e3"
)

// testDirectory is the canned symbol directory used across the suite. ADA is
// listed on two chains to exercise ambiguity handling.
func testDirectory() []Asset {
	return []Asset{
		{Chain: 56, Contract: cakeContract, Symbol: "Cake"},
		{Chain: 56, Contract: wbnbContract, IsDefault: true, Symbol: "WBNB"},
		{Chain: 56, Contract: adaBSCContract, Symbol: "ADA"},
		{Chain: 1, Contract: adaETHContract, Symbol: "ADA"},
	}
}

func TestResolveContractUnique(t *testing.T) {
	c := NewClient("test-token", WithAssetDirectory(testDirectory()))
	contract, err := c.resolveContract(context.Background(), "cake", 0)
	require.NoError(t, err)
	assert.Equal(t, cakeContract, contract)
}

func TestResolveContractUnknown(t *testing.T) {
	c := NewClient("test-token", WithAssetDirectory(testDirectory()))
	_, err := c.resolveContract(context.Background(), "DOGE", 0)
	require.ErrorIs(t, err, ErrUnknownSymbol)
	assert.Contains(t, err.Error(), "DOGE")
}

func TestResolveContractAmbiguousAcrossChains(t *testing.T) {
	c := NewClient("test-token", WithAssetDirectory(testDirectory()))
	_, err := c.resolveContract(context.Background(), "ADA", 0)
	require.ErrorIs(t, err, ErrAmbiguousSymbol)
	assert.Contains(t, err.Error(), "bsc")
	assert.Contains(t, err.Error(), "eth")
}

func TestResolveContractChainNarrows(t *testing.T) {
	c := NewClient("test-token", WithAssetDirectory(testDirectory()))
	contract, err := c.resolveContract(context.Background(), "ada", 1)
	require.NoError(t, err)
	assert.Equal(t, adaETHContract, contract)
}

func TestResolveContractLazyLoadsOnce(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/assets", r.URL.Path)
		atomic.AddInt32(&hits, 1)
		_ = json.NewEncoder(w).Encode(testDirectory())
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	for i := 0; i < 3; i++ {
		contract, err := c.resolveContract(context.Background(), "Cake", 0)
		require.NoError(t, err)
		require.Equal(t, cakeContract, contract)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestRefreshAssetsPicksUpNewListings(t *testing.T) {
	doge := Asset{Chain: 56, Contract: "0xba2ae424d960c26247dd6c32edc70b295c744c43", Symbol: "DOGE"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(append(testDirectory(), doge))
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL), WithAssetDirectory(testDirectory()))
	_, err := c.resolveContract(context.Background(), "DOGE", 0)
	require.ErrorIs(t, err, ErrUnknownSymbol)

	require.NoError(t, c.RefreshAssets(context.Background()))
	contract, err := c.resolveContract(context.Background(), "DOGE", 0)
	require.NoError(t, err)
	assert.Equal(t, doge.Contract, contract)
}

func TestGetAssetsChainFilter(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(testDirectory())
	}))

	assets, err := c.GetAssets(context.Background(), "polygon")
	require.NoError(t, err)
	assert.Len(t, assets, 4)
	assert.Equal(t, "137", gotQuery.Get("chain"))

	_, err = c.GetAssets(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, gotQuery.Has("chain"))
}

func TestGetAssetsUnknownChain(t *testing.T) {
	c := NewClient("test-token")
	_, err := c.GetAssets(context.Background(), "sol")
	var perr *ParamsError
	require.ErrorAs(t, err, &perr)
	require.Len(t, perr.Violations, 1)
	assert.Equal(t, "chain", perr.Violations[0].Field)
}
