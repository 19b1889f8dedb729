package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumeraProtocol/pastadrop/pastadrop/config"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/sdk/action"
)

func TestRecordPasteWritesHistory(t *testing.T) {
	appConfig = config.DefaultConfig(t.TempDir())
	t.Cleanup(func() { appConfig = nil })

	res := action.PasteResult{FileHash: "f00d", ItemHash: "beef", Sender: "0xAbC", Chain: storekit.ChainETH}
	recordPaste(context.Background(), res, "hello")

	store, err := openHistory()
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.List(context.Background(), "ETH", "0xabc")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "f00d", entries[0].Hash)

	meta, ok, err := store.ExplorerMeta(context.Background(), "f00d")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "beef", meta.ItemHash)
}

func TestRecordPasteToleratesBrokenHistory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	appConfig = config.DefaultConfig(dir)
	appConfig.History.DBPath = filepath.Join(blocker, "history.db")
	t.Cleanup(func() { appConfig = nil })

	_, err := openHistory()
	require.Error(t, err)

	assert.NotPanics(t, func() {
		recordPaste(context.Background(), action.PasteResult{FileHash: "f00d", Chain: storekit.ChainSOL}, "hello")
	})
}
