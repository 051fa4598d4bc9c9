package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/leitnerbox/internal/config"
	"github.com/conorfennell/leitnerbox/internal/leitner"
)

func testConfig(t *testing.T, deckPath string) *config.Config {
	t.Helper()
	return &config.Config{
		Deck:   config.DeckConfig{Path: deckPath, Driver: "json", Boxes: leitner.DefaultSizes},
		Import: config.ImportConfig{ReposDir: t.TempDir()},
		Log:    config.LogConfig{Level: "info"},
		Serve:  config.ServeConfig{Addr: "127.0.0.1:0"},
	}
}

func TestAddRefillStats(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, filepath.Join(t.TempDir(), "deck.json"))
	var out bytes.Buffer

	require.NoError(t, run(ctx, cfg, "", []string{"add", "Hund", "dog"}, &out))
	require.NoError(t, run(ctx, cfg, "", []string{"add", "Hund", "dog"}, &out))
	require.NoError(t, run(ctx, cfg, "", []string{"refill"}, &out))
	require.NoError(t, run(ctx, cfg, "", []string{"stats"}, &out))

	got := out.String()
	assert.Contains(t, got, "Added 1 card.")
	assert.Contains(t, got, "Card already in the deck.")
	assert.Contains(t, got, "Moved 1 cards into box 1.")
	assert.Contains(t, got, "Box 1: 1/20")
	assert.Contains(t, got, "Next:  box 1")
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "cards.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("front,back\nHund,dog\nKatze,cat\n"), 0o644))
	cfg := testConfig(t, filepath.Join(dir, "deck.json"))
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), cfg, "", []string{"import", csvPath}, &out))
	assert.Equal(t, "Imported 2 cards.\n", out.String())
}

func TestCorruptDeckIsReturned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"queues":[]}`), 0o644))
	cfg := testConfig(t, path)

	err := run(context.Background(), cfg, "", []string{"stats"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, leitner.ErrCorruptDeck))
}

func TestUsageErrors(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "deck.json"))
	for _, args := range [][]string{
		{"frobnicate"},
		{"import"},
		{"add", "only-front"},
		{"stats", "extra"},
	} {
		err := run(context.Background(), cfg, "", args, &bytes.Buffer{})
		var uerr usageError
		assert.True(t, errors.As(err, &uerr), "args %v", args)
	}
	_, err := os.Stat(cfg.Deck.Path)
	assert.True(t, os.IsNotExist(err), "usage errors must not touch the deck")
}
