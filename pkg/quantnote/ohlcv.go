package quantnote

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
)

// OHLCVRow joins one price candle with the volume traded in its bucket.
type OHLCVRow struct {
	Time   Time            `json:"time"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

// OHLCVASRow extends OHLCVRow with address and swap activity in the
// bucket.
type OHLCVASRow struct {
	OHLCVRow
	AddressesCount int64 `json:"addresses_count"`
	SwapsCount     int64 `json:"swaps_count"`
}

// OHLCVParams selects the token, range and resolution for the joined
// series.
type OHLCVParams struct {
	SeriesParams
	Against  string `param:"against" default:"USD" validate:"against"`
	Platform string `param:"platform"`
}

// GetOHLCV fetches price candles and traded volumes for one token and
// joins them per bucket. Rows follow the candle series; buckets the volume
// series misses carry a zero volume.
func (c *Client) GetOHLCV(ctx context.Context, p OHLCVParams) ([]OHLCVRow, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	fromTS, toTS, err := c.resolveRange(p.From, p.To)
	if err != nil {
		return nil, err
	}
	ref := TokenRef{Contract: contract, Chain: p.Chain}
	series := SeriesParams{
		TokenRef:   ref,
		From:       strconv.FormatInt(fromTS, 10),
		To:         strconv.FormatInt(toTS, 10),
		Resolution: p.Resolution,
	}

	candles, err := c.GetCandles(ctx, CandlesParams{
		SeriesParams: series,
		Against:      p.Against,
		Platform:     p.Platform,
	})
	if err != nil {
		return nil, err
	}
	volumes, err := c.GetVolumes(ctx, series)
	if err != nil {
		return nil, err
	}

	volumeAt := make(map[int64]decimal.Decimal, len(volumes))
	for _, v := range volumes {
		volumeAt[v.Time.Unix()] = v.Volume
	}
	rows := make([]OHLCVRow, 0, len(candles))
	for _, candle := range candles {
		rows = append(rows, OHLCVRow{
			Time:   candle.Time,
			Open:   candle.Open,
			High:   candle.High,
			Low:    candle.Low,
			Close:  candle.Close,
			Volume: volumeAt[candle.Time.Unix()],
		})
	}
	return rows, nil
}

// GetOHLCVAS fetches the full per-bucket picture of one token: price
// candles, traded volume, active address counts and swap counts, joined
// per bucket. Rows follow the candle series; counts missing a bucket are
// zero.
func (c *Client) GetOHLCVAS(ctx context.Context, p OHLCVParams) ([]OHLCVASRow, error) {
	if err := checkParams(&p, p.requireTarget); err != nil {
		return nil, err
	}
	chainID := mustChainID(p.Chain)
	contract, err := c.resolveTarget(ctx, p.Symbol, p.Contract, chainID)
	if err != nil {
		return nil, err
	}
	fromTS, toTS, err := c.resolveRange(p.From, p.To)
	if err != nil {
		return nil, err
	}
	base := p
	base.Symbol = ""
	base.Contract = contract
	base.From = strconv.FormatInt(fromTS, 10)
	base.To = strconv.FormatInt(toTS, 10)

	rows, err := c.GetOHLCV(ctx, base)
	if err != nil {
		return nil, err
	}
	addresses, err := c.GetActiveAddresses(ctx, base.SeriesParams)
	if err != nil {
		return nil, err
	}
	swaps, err := c.GetSwapCounts(ctx, base.SeriesParams)
	if err != nil {
		return nil, err
	}

	addressesAt := make(map[int64]int64, len(addresses))
	for _, a := range addresses {
		addressesAt[a.Time.Unix()] = a.Count
	}
	swapsAt := make(map[int64]int64, len(swaps))
	for _, s := range swaps {
		swapsAt[s.Time.Unix()] = s.Count
	}
	out := make([]OHLCVASRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, OHLCVASRow{
			OHLCVRow:       row,
			AddressesCount: addressesAt[row.Time.Unix()],
			SwapsCount:     swapsAt[row.Time.Unix()],
		})
	}
	return out, nil
}
