package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conorfennell/leitnerbox/internal/leitner"
)

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Store loads and saves a whole deck at once.
type Store interface {
	// Load returns the stored deck, or a fresh one when nothing has been
	// stored yet. Any other failure is an error.
	Load(ctx context.Context) (*leitner.Deck, error)
	// Save replaces the stored deck.
	Save(ctx context.Context, deck *leitner.Deck) error
	Close() error
}

// DetectDriver picks a driver from the file extension.
func DetectDriver(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return DriverSQLite
	default:
		return DriverJSON
	}
}

// Open returns the store for path. An empty driver is detected from the
// path. sizes is the box layout used when the store holds no deck yet.
func Open(path, driver string, sizes []int) (Store, error) {
	if driver == "" {
		driver = DetectDriver(path)
	}
	switch driver {
	case DriverJSON:
		return NewFileStore(path, sizes), nil
	case DriverSQLite:
		return OpenSQL(path, sizes)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func freshDeck(sizes []int) (*leitner.Deck, error) {
	if len(sizes) == 0 {
		return leitner.New(), nil
	}
	return leitner.NewWithSizes(sizes)
}
