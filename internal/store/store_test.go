package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QuantNodeAI/quantnote-go/pkg/quantnote"
)

func TestOpenRequiresDSN(t *testing.T) {
	archive, err := Open(Config{})
	require.Error(t, err)
	assert.Nil(t, archive)

	archive, err = Open(Config{DSN: "   "})
	require.Error(t, err)
	assert.Nil(t, archive)
}

func TestNewArchiveNilConn(t *testing.T) {
	assert.Nil(t, NewArchive(nil))
}

func TestNilArchiveIsSafe(t *testing.T) {
	var archive *Archive
	ctx := context.Background()

	assert.NoError(t, archive.EnsureSchema(ctx))
	assert.NoError(t, archive.UpsertAssets(ctx, []quantnote.Asset{{Symbol: "CAKE"}}))
	assert.NoError(t, archive.UpsertCandles(ctx, 56, "0xabc", quantnote.ResolutionH1, nil))

	latest, err := archive.LatestCandleTime(ctx, 56, "0xabc", quantnote.ResolutionH1)
	assert.NoError(t, err)
	assert.True(t, latest.IsZero())
}
