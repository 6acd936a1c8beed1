package quantnote

import (
	"context"
	"fmt"
)

// GetFarms lists the yield platforms supported on a chain.
func (c *Client) GetFarms(ctx context.Context, p ChainParams) ([]Farm, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	var farms []Farm
	if err := c.get(ctx, fmt.Sprintf("chain/%d/farms", mustChainID(p.Chain)), nil, &farms); err != nil {
		return nil, err
	}
	return farms, nil
}

// GetOptimizerFarmCount reports how many optimizer farms are supported on
// a chain.
func (c *Client) GetOptimizerFarmCount(ctx context.Context, p ChainParams) (int64, error) {
	return c.farmCount(ctx, p, "farms/optimizers/number")
}

// GetYieldFarmCount reports how many yield farms are supported on a chain.
func (c *Client) GetYieldFarmCount(ctx context.Context, p ChainParams) (int64, error) {
	return c.farmCount(ctx, p, "farms/yields/number")
}

func (c *Client) farmCount(ctx context.Context, p ChainParams, suffix string) (int64, error) {
	if err := checkParams(&p, nil); err != nil {
		return 0, err
	}
	var count int64
	if err := c.get(ctx, fmt.Sprintf("chain/%d/%s", mustChainID(p.Chain), suffix), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// PoolsParams selects the farm platform whose pools to list.
type PoolsParams struct {
	Platform string `param:"platform" validate:"required"`
	Chain    Chain  `param:"chain" default:"bsc" validate:"chain"`
}

// GetPools lists the pools of one farm platform, grouped by pool kind.
func (c *Client) GetPools(ctx context.Context, p PoolsParams) (*Pools, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	var pools Pools
	path := fmt.Sprintf("chain/%d/farms/%s/pools", mustChainID(p.Chain), p.Platform)
	if err := c.get(ctx, path, nil, &pools); err != nil {
		return nil, err
	}
	return &pools, nil
}

// GetPoolsInfo lists the pools of one farm platform with their latest APR,
// APY and TVL stats, grouped by pool kind.
func (c *Client) GetPoolsInfo(ctx context.Context, p PoolsParams) (*PoolsInfo, error) {
	if err := checkParams(&p, nil); err != nil {
		return nil, err
	}
	var info PoolsInfo
	path := fmt.Sprintf("chain/%d/farms/%s/pools/info", mustChainID(p.Chain), p.Platform)
	if err := c.get(ctx, path, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
