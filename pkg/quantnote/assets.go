package quantnote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// normalizeSymbol is the directory lookup key form.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// storeAssets replaces the cached symbol directory and its lookup index.
func (c *Client) storeAssets(assets []Asset) {
	bySymbol := make(map[string][]Asset, len(assets))
	for _, a := range assets {
		key := normalizeSymbol(a.Symbol)
		bySymbol[key] = append(bySymbol[key], a)
	}
	c.assetsMu.Lock()
	c.assets = assets
	c.bySymbol = bySymbol
	c.assetsLoaded = true
	c.assetsMu.Unlock()
}

func (c *Client) assetsFromCache(symbol string) ([]Asset, bool) {
	c.assetsMu.RLock()
	defer c.assetsMu.RUnlock()
	if !c.assetsLoaded {
		return nil, false
	}
	return c.bySymbol[normalizeSymbol(symbol)], true
}

// RefreshAssets reloads the symbol directory from the service. Symbol
// resolution loads it lazily on first use; call this to pick up newly
// listed assets during a long-lived client's life.
func (c *Client) RefreshAssets(ctx context.Context) error {
	var assets []Asset
	if err := c.get(ctx, "assets", nil, &assets); err != nil {
		return err
	}
	c.storeAssets(assets)
	c.logf("quantnote: symbol directory loaded, %d assets", len(assets))
	return nil
}

// GetAssets lists the tradable assets the service knows, optionally
// filtered to one chain. An empty chain lists every chain.
func (c *Client) GetAssets(ctx context.Context, chain Chain) ([]Asset, error) {
	q := url.Values{}
	if strings.TrimSpace(string(chain)) != "" {
		id, ok := chain.ID()
		if !ok {
			return nil, &ParamsError{Violations: []Violation{{
				Field:  "chain",
				Reason: fmt.Sprintf("unsupported chain %q, use bsc, eth, polygon, avax, ftm or a known chain id", chain),
			}}}
		}
		q.Set("chain", strconv.FormatInt(id, 10))
	}
	var assets []Asset
	if err := c.get(ctx, "assets", q, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// resolveContract turns a ticker symbol into its contract address using the
// cached directory, loading the directory on first use. chainID narrows the
// search when the symbol is listed on several chains; pass 0 to leave it
// open. Matching is case-insensitive.
func (c *Client) resolveContract(ctx context.Context, symbol string, chainID int64) (string, error) {
	matches, cached := c.assetsFromCache(symbol)
	if !cached {
		if err := c.RefreshAssets(ctx); err != nil {
			return "", err
		}
		matches, _ = c.assetsFromCache(symbol)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}
	if len(matches) == 1 {
		return matches[0].Contract, nil
	}

	if chainID != 0 {
		var narrowed []Asset
		for _, a := range matches {
			if a.Chain == chainID {
				narrowed = append(narrowed, a)
			}
		}
		switch len(narrowed) {
		case 1:
			return narrowed[0].Contract, nil
		case 0:
			// fall through to the cross-chain listing below
		default:
			contracts := make([]string, 0, len(narrowed))
			for _, a := range narrowed {
				contracts = append(contracts, a.Contract)
			}
			return "", fmt.Errorf("%w: %q maps to several contracts on chain %d, pass one of %s",
				ErrAmbiguousSymbol, symbol, chainID, strings.Join(contracts, ", "))
		}
	}

	seen := make(map[int64]bool, len(matches))
	chains := make([]int64, 0, len(matches))
	for _, a := range matches {
		if !seen[a.Chain] {
			seen[a.Chain] = true
			chains = append(chains, a.Chain)
		}
	}
	return "", fmt.Errorf("%w: %q is listed on chains %s, specify one",
		ErrAmbiguousSymbol, symbol, strings.Join(chainNames(chains), ", "))
}
