// Package store archives QuantNote market data in Postgres.
//
// EnsureSchema creates the quantnote_assets and quantnote_candles
// tables when they are missing; all other statements assume they exist.
package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"github.com/QuantNodeAI/quantnote-go/pkg/quantnote"
)

// Config holds Postgres connection settings.
type Config struct {
	DSN string `yaml:"dsn"`
}

// Archive persists assets and candle series fetched from the API.
type Archive struct {
	sqlConn sqlx.SqlConn
}

// Open connects to Postgres through the pgx driver. Environment
// references in the DSN are expanded first.
func Open(cfg Config) (*Archive, error) {
	dsn := strings.TrimSpace(os.ExpandEnv(cfg.DSN))
	if dsn == "" {
		return nil, errors.New("store: missing postgres dsn")
	}
	return NewArchive(sqlx.NewSqlConn("pgx", dsn)), nil
}

// NewArchive wraps an existing connection. Returns nil when conn is nil.
func NewArchive(conn sqlx.SqlConn) *Archive {
	if conn == nil {
		return nil
	}
	return &Archive{sqlConn: conn}
}

// EnsureSchema creates the archive tables when they do not exist yet.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if a == nil || a.sqlConn == nil {
		return nil
	}
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS public.quantnote_assets (
    chain_id   BIGINT      NOT NULL,
    contract   TEXT        NOT NULL,
    symbol     TEXT        NOT NULL,
    is_default BOOLEAN     NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (chain_id, contract)
);`,
		`
CREATE TABLE IF NOT EXISTS public.quantnote_candles (
    chain_id   BIGINT      NOT NULL,
    contract   TEXT        NOT NULL,
    resolution TEXT        NOT NULL,
    bucket_at  TIMESTAMPTZ NOT NULL,
    open       NUMERIC     NOT NULL,
    high       NUMERIC     NOT NULL,
    low        NUMERIC     NOT NULL,
    close      NUMERIC     NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (chain_id, contract, resolution, bucket_at)
);`,
	}
	for _, stmt := range stmts {
		if _, err := a.sqlConn.ExecCtx(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// UpsertAssets persists the asset directory.
func (a *Archive) UpsertAssets(ctx context.Context, assets []quantnote.Asset) error {
	if a == nil || a.sqlConn == nil || len(assets) == 0 {
		return nil
	}
	stmt := `
INSERT INTO public.quantnote_assets (
    chain_id, contract, symbol, is_default, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, NOW(), NOW()
)
ON CONFLICT (chain_id, contract) DO UPDATE SET
    symbol = EXCLUDED.symbol,
    is_default = EXCLUDED.is_default,
    updated_at = NOW();`
	for _, asset := range assets {
		contract := strings.ToLower(strings.TrimSpace(asset.Contract))
		if contract == "" {
			continue
		}
		if _, err := a.sqlConn.ExecCtx(ctx, stmt,
			asset.Chain,
			contract,
			asset.Symbol,
			asset.IsDefault,
		); err != nil {
			return err
		}
	}
	return nil
}

// UpsertCandles persists one candle series for a token and resolution.
func (a *Archive) UpsertCandles(ctx context.Context, chainID int64, contract string, resolution quantnote.Resolution, candles []quantnote.Candle) error {
	if a == nil || a.sqlConn == nil || len(candles) == 0 {
		return nil
	}
	stmt := `
INSERT INTO public.quantnote_candles (
    chain_id, contract, resolution, bucket_at, open, high, low, close, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
)
ON CONFLICT (chain_id, contract, resolution, bucket_at) DO UPDATE SET
    open = EXCLUDED.open,
    high = EXCLUDED.high,
    low = EXCLUDED.low,
    close = EXCLUDED.close,
    updated_at = NOW();`
	contract = strings.ToLower(strings.TrimSpace(contract))
	for _, candle := range candles {
		if candle.Time.IsZero() {
			continue
		}
		if _, err := a.sqlConn.ExecCtx(ctx, stmt,
			chainID,
			contract,
			string(resolution),
			candle.Time.UTC(),
			candle.Open.String(),
			candle.High.String(),
			candle.Low.String(),
			candle.Close.String(),
		); err != nil {
			return err
		}
	}
	return nil
}

// LatestCandleTime reports the newest stored bucket for a series, or the
// zero time when the series has no rows yet.
func (a *Archive) LatestCandleTime(ctx context.Context, chainID int64, contract string, resolution quantnote.Resolution) (time.Time, error) {
	if a == nil || a.sqlConn == nil {
		return time.Time{}, nil
	}
	stmt := `
SELECT COALESCE(MAX(bucket_at), 'epoch'::timestamptz)
FROM public.quantnote_candles
WHERE chain_id = $1 AND contract = $2 AND resolution = $3;`
	var latest time.Time
	err := a.sqlConn.QueryRowCtx(ctx, &latest, stmt,
		chainID,
		strings.ToLower(strings.TrimSpace(contract)),
		string(resolution),
	)
	if err != nil {
		if err == sqlx.ErrNotFound {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	if latest.Unix() <= 0 {
		return time.Time{}, nil
	}
	return latest.UTC(), nil
}
