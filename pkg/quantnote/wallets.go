package quantnote

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// GetWalletCount reports how many unique wallet addresses the service has
// seen on a chain.
func (c *Client) GetWalletCount(ctx context.Context, p ChainParams) (int64, error) {
	if err := checkParams(&p, nil); err != nil {
		return 0, err
	}
	var count int64
	if err := c.get(ctx, fmt.Sprintf("chain/%d/wallets/number", mustChainID(p.Chain)), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// WalletParams selects one wallet on a chain.
type WalletParams struct {
	Address string `param:"address" validate:"required,hexaddr"`
	Chain   Chain  `param:"chain" default:"bsc" validate:"chain"`
}

// GetFarmPortfolio fetches a wallet's balances across all supported farms,
// grouped by pool kind.
func (c *Client) GetFarmPortfolio(ctx context.Context, p WalletParams) (*FarmsPortfolio, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	var portfolio FarmsPortfolio
	path := fmt.Sprintf("chain/%d/wallets/%s/farm_portfolio", mustChainID(p.Chain), p.Address)
	if err := c.get(ctx, path, nil, &portfolio); err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// GetWalletPortfolio fetches the token balances a wallet currently holds.
func (c *Client) GetWalletPortfolio(ctx context.Context, p WalletParams) ([]TokenBalance, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	var balances []TokenBalance
	path := fmt.Sprintf("chain/%d/wallets/%s/portfolio", mustChainID(p.Chain), p.Address)
	if err := c.get(ctx, path, nil, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// HistoricPortfolioParams selects the wallet and time range for portfolio
// snapshots. The wallet must be whitelisted with the service.
type HistoricPortfolioParams struct {
	Address string `param:"address" validate:"required,hexaddr"`
	From    string `param:"from" validate:"omitempty,date"`
	To      string `param:"to" validate:"omitempty,date"`
	Chain   Chain  `param:"chain" default:"bsc" validate:"chain"`
}

// GetHistoricFarmPortfolio fetches snapshots of a wallet's farm balances
// over time.
func (c *Client) GetHistoricFarmPortfolio(ctx context.Context, p HistoricPortfolioParams) ([]PortfolioPoint, error) {
	return c.historicPortfolio(ctx, p, "historic_farm_portfolio")
}

// GetHistoricPortfolio fetches snapshots of a wallet's token balances over
// time.
func (c *Client) GetHistoricPortfolio(ctx context.Context, p HistoricPortfolioParams) ([]PortfolioPoint, error) {
	return c.historicPortfolio(ctx, p, "historic_portfolio")
}

func (c *Client) historicPortfolio(ctx context.Context, p HistoricPortfolioParams, suffix string) ([]PortfolioPoint, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	q := url.Values{}
	if err := c.setRangeQuery(q, p.From, p.To); err != nil {
		return nil, err
	}
	var points []PortfolioPoint
	path := fmt.Sprintf("chain/%d/wallets/%s/%s", mustChainID(p.Chain), p.Address, suffix)
	if err := c.get(ctx, path, q, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// WalletMovesParams selects the wallet, tokens and time range for balance
// moves. TokenContract narrows to the given contracts, comma separated.
type WalletMovesParams struct {
	Address       string     `param:"address" validate:"required,hexaddr"`
	TokenContract string     `param:"token_contract"`
	From          string     `param:"from" validate:"omitempty,date"`
	To            string     `param:"to" validate:"omitempty,date"`
	Chain         Chain      `param:"chain" default:"bsc" validate:"chain"`
	Resolution    Resolution `param:"resolution" default:"H1" validate:"series_resolution"`
}

func (p *WalletMovesParams) checkContracts(add func(field, reason string)) {
	if strings.TrimSpace(p.TokenContract) == "" {
		return
	}
	for _, part := range strings.Split(p.TokenContract, ",") {
		if !common.IsHexAddress(strings.TrimSpace(part)) {
			add("token_contract", fmt.Sprintf("%q is not a contract address", strings.TrimSpace(part)))
		}
	}
}

// GetWalletMoves fetches a wallet's balance moves as a time series,
// splitting the range into as many calls as the service needs.
func (c *Client) GetWalletMoves(ctx context.Context, p WalletMovesParams) ([]WalletMove, error) {
	if err := checkParams(&p, p.checkContracts); err != nil {
		return nil, err
	}
	base := url.Values{}
	if tc := strings.TrimSpace(p.TokenContract); tc != "" {
		base.Set("token_contract", tc)
	}
	path := fmt.Sprintf("chain/%d/wallets/%s/moves", mustChainID(p.Chain), p.Address)
	return fetchSeries[WalletMove](ctx, c, path, base, p.From, p.To, p.Resolution)
}

// WalletSwapsParams filters a wallet's swap listing.
type WalletSwapsParams struct {
	Address       string `param:"address" validate:"required,hexaddr"`
	TokenContract string `param:"token_contract" validate:"omitempty,hexaddr"`
	LPToken       string `param:"lp_token" validate:"omitempty,hexaddr"`
	From          string `param:"from" validate:"omitempty,date"`
	To            string `param:"to" validate:"omitempty,date"`
	Limit         int    `param:"limit" validate:"omitempty,min=1,max=500"`
	Page          int64  `param:"page" validate:"omitempty,min=1,max=922337203685477581"`
	Sort          string `param:"sort" validate:"omitempty,sortexpr=swaps"`
	Chain         Chain  `param:"chain" default:"bsc" validate:"chain"`
}

// GetWalletSwaps lists the most recent swaps made by a wallet, with
// pagination.
func (c *Client) GetWalletSwaps(ctx context.Context, p WalletSwapsParams) ([]Swap, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	q := url.Values{}
	if p.TokenContract != "" {
		q.Set("token_contract", p.TokenContract)
	}
	if p.LPToken != "" {
		q.Set("lp_token", p.LPToken)
	}
	if err := c.setRangeQuery(q, p.From, p.To); err != nil {
		return nil, err
	}
	setPageQuery(q, p.Limit, p.Page, p.Sort)
	var swaps []Swap
	path := fmt.Sprintf("chain/%d/wallets/%s/swaps", mustChainID(p.Chain), p.Address)
	if err := c.get(ctx, path, q, &swaps); err != nil {
		return nil, err
	}
	return swaps, nil
}

// WalletTransactionsParams filters a wallet's transaction listing.
type WalletTransactionsParams struct {
	Address string `param:"address" validate:"required,hexaddr"`
	From    string `param:"from" validate:"omitempty,date"`
	To      string `param:"to" validate:"omitempty,date"`
	Limit   int    `param:"limit" validate:"omitempty,min=1,max=500"`
	Page    int64  `param:"page" validate:"omitempty,min=1,max=922337203685477581"`
	Chain   Chain  `param:"chain" default:"bsc" validate:"chain"`
}

// GetWalletTransactions lists a wallet's on-chain transactions, with
// pagination.
func (c *Client) GetWalletTransactions(ctx context.Context, p WalletTransactionsParams) ([]Transaction, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	q := url.Values{}
	if err := c.setRangeQuery(q, p.From, p.To); err != nil {
		return nil, err
	}
	setPageQuery(q, p.Limit, p.Page, "")
	var txs []Transaction
	path := fmt.Sprintf("chain/%d/wallets/%s/txs", mustChainID(p.Chain), p.Address)
	if err := c.get(ctx, path, q, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
