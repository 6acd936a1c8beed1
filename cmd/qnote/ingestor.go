package main

import (
	"context"
	"strconv"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/QuantNodeAI/quantnote-go/internal/store"
	"github.com/QuantNodeAI/quantnote-go/pkg/quantnote"
)

// ingestor mirrors the asset directory, and optionally one candle series,
// into the archive. A zero interval runs a single pass; otherwise the pass
// repeats until the context is cancelled.
type ingestor struct {
	client     *quantnote.Client
	archive    *store.Archive
	ref        quantnote.TokenRef
	resolution quantnote.Resolution
	from       string
	interval   time.Duration
}

func (ing *ingestor) run(ctx context.Context) error {
	if err := ing.runOnce(ctx); err != nil {
		return err
	}
	if ing.interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(ing.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := ing.runOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logx.Errorf("ingest: %v", err)
			}
		}
	}
}

func (ing *ingestor) runOnce(ctx context.Context) error {
	assets, err := ing.client.GetAssets(ctx, "")
	if err != nil {
		return err
	}
	if err := ing.archive.UpsertAssets(ctx, assets); err != nil {
		return err
	}
	logx.Infof("ingest: mirrored %d assets", len(assets))

	if ing.ref.Symbol == "" && ing.ref.Contract == "" {
		return nil
	}

	token, err := ing.client.GetToken(ctx, quantnote.TokenParams{TokenRef: ing.ref})
	if err != nil {
		return err
	}

	from := ing.from
	if from == "" {
		latest, latestErr := ing.archive.LatestCandleTime(ctx, token.Chain, token.Contract, ing.resolution)
		if latestErr != nil {
			return latestErr
		}
		if !latest.IsZero() {
			// Refetch the newest stored bucket; it may still have been open.
			from = strconv.FormatInt(latest.Unix(), 10)
		}
	}

	candles, err := ing.client.GetCandles(ctx, quantnote.CandlesParams{
		SeriesParams: quantnote.SeriesParams{
			TokenRef:   ing.ref,
			From:       from,
			Resolution: ing.resolution,
		},
	})
	if err != nil {
		return err
	}
	if err := ing.archive.UpsertCandles(ctx, token.Chain, token.Contract, ing.resolution, candles); err != nil {
		return err
	}
	logx.Infof("ingest: stored %d %s candles for %s", len(candles), ing.resolution, token.Symbol)
	return nil
}
