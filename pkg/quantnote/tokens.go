package quantnote

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// TokensParams pages through the token listing.
type TokensParams struct {
	Chain    Chain  `param:"chain" default:"bsc" validate:"chain"`
	Limit    int    `param:"limit" validate:"omitempty,min=1,max=500"`
	Page     int64  `param:"page" validate:"omitempty,min=1,max=922337203685477581"`
	Sort     string `param:"sort" validate:"omitempty,sortexpr=listing"`
	Extended bool   `param:"extended"`
}

// GetTokens lists the top tokens on a chain by market weight.
func (c *Client) GetTokens(ctx context.Context, p TokensParams) ([]Token, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	q := url.Values{}
	setPageQuery(q, p.Limit, p.Page, p.Sort)
	if p.Extended {
		q.Set("extended", "true")
	}
	var tokens []Token
	if err := c.get(ctx, fmt.Sprintf("chain/%d/tokens", mustChainID(p.Chain)), q, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// GetTokenCount reports how many tokens the service tracks on a chain.
func (c *Client) GetTokenCount(ctx context.Context, p ChainParams) (int64, error) {
	if err := checkParams(&p, nil); err != nil {
		return 0, err
	}
	var count int64
	if err := c.get(ctx, fmt.Sprintf("chain/%d/tokens/number", mustChainID(p.Chain)), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// TokenParams selects one token, optionally with its extended market stats.
type TokenParams struct {
	TokenRef
	Extended bool `param:"extended"`
}

// GetToken fetches one token's record.
func (c *Client) GetToken(ctx context.Context, p TokenParams) (*Token, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	if p.Extended {
		q.Set("extended", "true")
	}
	var token Token
	if err := c.get(ctx, fmt.Sprintf("chain/%d/tokens/%s", chainID, contract), q, &token); err != nil {
		return nil, err
	}
	if token.Contract == "" {
		return nil, fmt.Errorf("%w: token record for %s without contract", ErrMalformedResponse, contract)
	}
	return &token, nil
}

// GetActiveAddresses fetches the active address counts of a token over a
// time range, splitting the range into as many calls as the service needs.
func (c *Client) GetActiveAddresses(ctx context.Context, p SeriesParams) ([]CountPoint, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("chain/%d/tokens/%s/active_addresses", chainID, contract)
	return fetchSeries[CountPoint](ctx, c, path, nil, p.From, p.To, p.Resolution)
}

// CandlesParams selects a token's price series. Against picks the quote
// currency; Platform restricts the exchanges prices are taken from, comma
// separated.
type CandlesParams struct {
	SeriesParams
	Against  string `param:"against" validate:"omitempty,against"`
	Platform string `param:"platform"`
}

// GetCandles fetches OHLC price candles for a token over a time range.
func (c *Client) GetCandles(ctx context.Context, p CandlesParams) ([]Candle, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	base := url.Values{}
	if a := strings.TrimSpace(p.Against); a != "" {
		base.Set("against", strings.ToUpper(a))
	}
	if p.Platform != "" {
		base.Set("platform", p.Platform)
	}
	path := fmt.Sprintf("chain/%d/tokens/%s/candles", chainID, contract)
	return fetchSeries[Candle](ctx, c, path, base, p.From, p.To, p.Resolution)
}

// GetHolderCount reports the number of holders of a token.
func (c *Client) GetHolderCount(ctx context.Context, p TokenRef) (int64, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return 0, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := c.get(ctx, fmt.Sprintf("chain/%d/tokens/%s/holders", chainID, contract), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetMarketCap reports a token's current market capitalization.
func (c *Client) GetMarketCap(ctx context.Context, p TokenRef) (decimal.Decimal, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return decimal.Zero, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return decimal.Zero, err
	}
	var marketCap decimal.Decimal
	if err := c.get(ctx, fmt.Sprintf("chain/%d/tokens/%s/market_cap", chainID, contract), nil, &marketCap); err != nil {
		return decimal.Zero, err
	}
	return marketCap, nil
}

// GetPairs fetches a token's LP pairs against the chain's peg and stable
// coins, keyed by pair name.
func (c *Client) GetPairs(ctx context.Context, p TokenRef) (map[string]LPToken, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	var pairs map[string]LPToken
	if err := c.get(ctx, fmt.Sprintf("chain/%d/tokens/%s/pairs", chainID, contract), nil, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// PriceParams selects the token and quote currency for a spot price.
type PriceParams struct {
	TokenRef
	Against string `param:"against" validate:"omitempty,against"`
}

// GetPrice reports the most recent price of a token.
func (c *Client) GetPrice(ctx context.Context, p PriceParams) (decimal.Decimal, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return decimal.Zero, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return decimal.Zero, err
	}
	q := url.Values{}
	if a := strings.TrimSpace(p.Against); a != "" {
		q.Set("against", strings.ToUpper(a))
	}
	var price decimal.Decimal
	if err := c.get(ctx, fmt.Sprintf("chain/%d/tokens/%s/price", chainID, contract), q, &price); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

// PriceChangeParams selects the token and lookback interval for a change
// percentage.
type PriceChangeParams struct {
	TokenRef
	Interval Resolution `param:"interval" default:"D1" validate:"resolution"`
	Against  string     `param:"against" validate:"omitempty,against"`
}

// GetPriceChange reports a token's price change in percent over the
// interval.
func (c *Client) GetPriceChange(ctx context.Context, p PriceChangeParams) (decimal.Decimal, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return decimal.Zero, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return decimal.Zero, err
	}
	q := url.Values{}
	q.Set("interval", string(p.Interval.normalize()))
	if a := strings.TrimSpace(p.Against); a != "" {
		q.Set("against", strings.ToUpper(a))
	}
	var change decimal.Decimal
	if err := c.get(ctx, fmt.Sprintf("chain/%d/tokens/%s/price/change", chainID, contract), q, &change); err != nil {
		return decimal.Zero, err
	}
	return change, nil
}

// SwapsParams filters a token's swap listing.
type SwapsParams struct {
	TokenRef
	FromWallet string `param:"from_wallet" validate:"omitempty,hexaddr"`
	LPToken    string `param:"lp_token" validate:"omitempty,hexaddr"`
	From       string `param:"from" validate:"omitempty,date"`
	To         string `param:"to" validate:"omitempty,date"`
	Limit      int    `param:"limit" validate:"omitempty,min=1,max=500"`
	Page       int64  `param:"page" validate:"omitempty,min=1,max=922337203685477581"`
	Sort       string `param:"sort" validate:"omitempty,sortexpr=swaps"`
}

// GetSwaps lists the most recent swaps touching a token, with pagination.
func (c *Client) GetSwaps(ctx context.Context, p SwapsParams) ([]Swap, error) {
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
	if p.LPToken != "" {
		q.Set("lp_token", p.LPToken)
	}
	if err := c.setRangeQuery(q, p.From, p.To); err != nil {
		return nil, err
	}
	setPageQuery(q, p.Limit, p.Page, p.Sort)
	var swaps []Swap
	if err := c.get(ctx, fmt.Sprintf("chain/%d/tokens/%s/swaps", chainID, contract), q, &swaps); err != nil {
		return nil, err
	}
	return swaps, nil
}

// GetSwapCounts fetches the swap counts of a token over a time range.
func (c *Client) GetSwapCounts(ctx context.Context, p SeriesParams) ([]CountPoint, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("chain/%d/tokens/%s/swaps/number", chainID, contract)
	return fetchSeries[CountPoint](ctx, c, path, nil, p.From, p.To, p.Resolution)
}

// GetVolumes fetches the traded volume of a token over a time range.
func (c *Client) GetVolumes(ctx context.Context, p SeriesParams) ([]VolumePoint, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("chain/%d/tokens/%s/volumes", chainID, contract)
	return fetchSeries[VolumePoint](ctx, c, path, nil, p.From, p.To, p.Resolution)
}

// VolumeIntervalParams selects the token and interval for volume stats.
type VolumeIntervalParams struct {
	TokenRef
	Interval Resolution `param:"interval" default:"D1" validate:"resolution"`
}

// GetVolumeChange reports the change in a token's traded volume over the
// interval.
func (c *Client) GetVolumeChange(ctx context.Context, p VolumeIntervalParams) (decimal.Decimal, error) {
	return c.volumeStat(ctx, p, "volumes/change")
}

// GetLatestVolume reports the total volume traded in the most recent
// interval.
func (c *Client) GetLatestVolume(ctx context.Context, p VolumeIntervalParams) (decimal.Decimal, error) {
	return c.volumeStat(ctx, p, "volumes/latest")
}

func (c *Client) volumeStat(ctx context.Context, p VolumeIntervalParams, suffix string) (decimal.Decimal, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return decimal.Zero, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return decimal.Zero, err
	}
	q := url.Values{}
	q.Set("interval", string(p.Interval.normalize()))
	var value decimal.Decimal
	if err := c.get(ctx, fmt.Sprintf("chain/%d/tokens/%s/%s", chainID, contract, suffix), q, &value); err != nil {
		return decimal.Zero, err
	}
	return value, nil
}
