package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/conorfennell/leitnerbox/internal/leitner"
)

// FileStore keeps the deck as one JSON document.
type FileStore struct {
	path  string
	sizes []int
}

func NewFileStore(path string, sizes []int) *FileStore {
	return &FileStore{path: path, sizes: sizes}
}

func (s *FileStore) Load(ctx context.Context) (*leitner.Deck, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("path", s.path).Msg("no-deck-found-creating-new")
		return freshDeck(s.sizes)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read deck %s: %w", s.path, err)
	}
	deck := &leitner.Deck{}
	if err := json.Unmarshal(data, deck); err != nil {
		return nil, fmt.Errorf("failed to decode deck %s: %w", s.path, err)
	}
	return deck, nil
}

// Save writes to a temporary file next to the deck and renames it over the
// old one.
func (s *FileStore) Save(ctx context.Context, deck *leitner.Deck) error {
	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write deck: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write deck: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to save deck %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
