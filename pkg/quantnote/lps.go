package quantnote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// LPsParams pages through the LP token listing.
type LPsParams struct {
	Chain Chain  `param:"chain" default:"bsc" validate:"chain"`
	Limit int    `param:"limit" validate:"omitempty,min=1,max=500"`
	Page  int64  `param:"page" validate:"omitempty,min=1,max=922337203685477581"`
	Sort  string `param:"sort" validate:"omitempty,sortexpr=listing"`
}

// GetLPs lists LP tokens on a chain with their extended market stats.
func (c *Client) GetLPs(ctx context.Context, p LPsParams) ([]Token, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	q := url.Values{}
	setPageQuery(q, p.Limit, p.Page, p.Sort)
	var lps []Token
	if err := c.get(ctx, fmt.Sprintf("chain/%d/lps", mustChainID(p.Chain)), q, &lps); err != nil {
		return nil, err
	}
	return lps, nil
}

// GetLPCount reports how many LP tokens the service tracks on a chain.
func (c *Client) GetLPCount(ctx context.Context, p ChainParams) (int64, error) {
	if err := checkParams(&p, nil); err != nil {
		return 0, err
	}
	var count int64
	if err := c.get(ctx, fmt.Sprintf("chain/%d/lps/number", mustChainID(p.Chain)), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetLPToken fetches one LP token's record with its two pooled sides.
func (c *Client) GetLPToken(ctx context.Context, p TokenRef) (*LPToken, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	var lp LPToken
	if err := c.get(ctx, fmt.Sprintf("chain/%d/lps/%s", chainID, contract), nil, &lp); err != nil {
		return nil, err
	}
	if lp.Contract == "" {
		return nil, fmt.Errorf("%w: lp record for %s without contract", ErrMalformedResponse, contract)
	}
	return &lp, nil
}

// GetLPLiquidity fetches the pooled liquidity of an LP token over a time
// range, one value per pooled side.
func (c *Client) GetLPLiquidity(ctx context.Context, p SeriesParams) ([]LiquidityPoint, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("chain/%d/lps/%s/liquidity", chainID, contract)
	return fetchSeries[LiquidityPoint](ctx, c, path, nil, p.From, p.To, p.Resolution)
}

// GetLPPrice reports the most recent price of an LP token.
func (c *Client) GetLPPrice(ctx context.Context, p TokenRef) (decimal.Decimal, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return decimal.Zero, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return decimal.Zero, err
	}
	var price decimal.Decimal
	if err := c.get(ctx, fmt.Sprintf("chain/%d/lps/%s/price", chainID, contract), nil, &price); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

// LPSwapsParams filters an LP pool's swap listing.
type LPSwapsParams struct {
	TokenRef
	FromWallet    string `param:"from_wallet" validate:"omitempty,hexaddr"`
	TokenContract string `param:"token_contract" validate:"omitempty,hexaddr"`
	From          string `param:"from" validate:"omitempty,date"`
	To            string `param:"to" validate:"omitempty,date"`
	Limit         int    `param:"limit" validate:"omitempty,min=1,max=500"`
	Page          int64  `param:"page" validate:"omitempty,min=1,max=922337203685477581"`
	Sort          string `param:"sort" validate:"omitempty,sortexpr=swaps"`
}

// GetLPSwaps lists the most recent swaps through an LP pool, with
// pagination.
func (c *Client) GetLPSwaps(ctx context.Context, p LPSwapsParams) ([]Swap, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	if p.FromWallet != "" {
		q.Set("from_wallet", p.FromWallet)
	}
	if p.TokenContract != "" {
		q.Set("token_contract", p.TokenContract)
	}
	if err := c.setRangeQuery(q, p.From, p.To); err != nil {
		return nil, err
	}
	setPageQuery(q, p.Limit, p.Page, p.Sort)
	var swaps []Swap
	if err := c.get(ctx, fmt.Sprintf("chain/%d/lps/%s/swaps", chainID, contract), q, &swaps); err != nil {
		return nil, err
	}
	return swaps, nil
}

// MarketDepthParams selects the V3 pool and time range for depth
// snapshots.
type MarketDepthParams struct {
	PoolContract string `param:"pool_contract" validate:"required,hexaddr"`
	From         string `param:"from" validate:"omitempty,date"`
	To           string `param:"to" validate:"omitempty,date"`
	Chain        Chain  `param:"chain" default:"bsc" validate:"chain"`
}

// GetMarketDepth fetches market depth snapshots for a V3 LP pool. The
// bounds pass to the service verbatim; no range splitting applies.
func (c *Client) GetMarketDepth(ctx context.Context, p MarketDepthParams) ([]MarketDepth, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	q := url.Values{}
	if err := c.setRangeQuery(q, p.From, p.To); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("chain/%d/lps/%s/market_depth", mustChainID(p.Chain), p.PoolContract)
	var depths []MarketDepth
	if err := c.get(ctx, path, q, &depths); err != nil {
		return nil, err
	}
	return depths, nil
}
