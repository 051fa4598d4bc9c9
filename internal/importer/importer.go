package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/conorfennell/leitnerbox/internal/domain"
	"github.com/conorfennell/leitnerbox/internal/gitsource"
	"github.com/conorfennell/leitnerbox/internal/leitner"
	"github.com/conorfennell/leitnerbox/internal/parser"
)

var ErrSourceNotFound = errors.New("importer: source not found")

// Source names the file to import. With Repo set, Path is relative to the
// root of that git repository.
type Source struct {
	Path string
	Repo string
}

func (s Source) String() string {
	if s.Repo == "" {
		return s.Path
	}
	return s.Repo + "#" + s.Path
}

type Options struct {
	Sheet    string
	ReposDir string
	Progress io.Writer
}

// Result reports what an import did to the stash.
type Result struct {
	Added      int
	Duplicates []domain.Card
	Malformed  []parser.Problem
}

// Import reads every record of the source into the deck's stash. Duplicate
// and malformed records are logged and skipped; a missing or unreadable
// source fails the whole import and leaves the deck untouched.
func Import(ctx context.Context, deck *leitner.Deck, src Source, opts Options) (Result, error) {
	path, err := resolve(ctx, src, opts)
	if err != nil {
		return Result{}, err
	}
	records, problems, err := parser.ParseFile(path, opts.Sheet)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse %s: %w", src, err)
	}
	for _, p := range problems {
		log.Warn().Str("source", src.String()).Int("line", p.Line).Err(p.Err).Msg("malformed-record")
	}

	cards := make([]domain.Card, len(records))
	for i, rec := range records {
		cards[i] = domain.NewCard(rec.Front, rec.Back)
	}
	added, dups := deck.AddAll(cards)
	for _, card := range dups {
		log.Warn().Str("source", src.String()).Str("front", card.Front).Str("back", card.Back).
			Msg("card-already-exists")
	}

	log.Info().Str("source", src.String()).
		Int("records", len(records)).
		Int("added", added).
		Int("duplicates", len(dups)).
		Int("malformed", len(problems)).
		Msg("import-complete")

	return Result{Added: added, Duplicates: dups, Malformed: problems}, nil
}

func resolve(ctx context.Context, src Source, opts Options) (string, error) {
	path := src.Path
	if src.Repo != "" {
		reposDir := opts.ReposDir
		if reposDir == "" {
			reposDir = "repos"
		}
		localRepoPath, err := gitsource.LocalPath(reposDir, src.Repo)
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(filepath.Dir(localRepoPath), os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create repos directory: %w", err)
		}
		if err := gitsource.Sync(ctx, src.Repo, localRepoPath, opts.Progress); err != nil {
			return "", err
		}
		path = filepath.Join(localRepoPath, src.Path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, src)
		}
		return "", fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, src)
	}
	return path, nil
}
