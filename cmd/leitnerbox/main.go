package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/conorfennell/leitnerbox/internal/config"
	"github.com/conorfennell/leitnerbox/internal/domain"
	"github.com/conorfennell/leitnerbox/internal/importer"
	"github.com/conorfennell/leitnerbox/internal/leitner"
	"github.com/conorfennell/leitnerbox/internal/review"
	"github.com/conorfennell/leitnerbox/internal/storage"
	"github.com/conorfennell/leitnerbox/internal/tui"
)

const usage = `Usage: leitnerbox [flags] [command] [args]

Commands:
  learn                 review due cards in the terminal (default)
  import <file>         add cards from a CSV or XLSX file to the stash
  add <front> <back>    add a single card to the stash
  refill                move stash cards into box 1
  stats                 show how many cards are in each box
  serve                 review in the browser

Flags:
`

// usageError is a bad command line; main prints it with the usage text.
type usageError string

func (e usageError) Error() string { return string(e) }

func main() {
	fs := config.Flags("leitnerbox")
	repo := fs.String("repo", "", "git repository to import from; the file argument is a path inside it")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logCloser, err := cfg.Log.SetupLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, *repo, fs.Args(), os.Stdout)
	stop()

	code := 0
	var uerr usageError
	switch {
	case errors.As(err, &uerr):
		fmt.Fprintf(os.Stderr, "%s\n\n", uerr)
		fs.Usage()
		code = 2
	case err != nil:
		log.Error().Err(err).Str("deck", cfg.Deck.Path).Msg("leitnerbox-failed")
		code = 1
	}
	logCloser.Close()
	os.Exit(code)
}

// run opens the deck, executes one command and saves. Every resource it
// opens is closed before it returns.
func run(ctx context.Context, cfg *config.Config, repo string, args []string, out io.Writer) error {
	command := "learn"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}
	switch command {
	case "learn", "refill", "stats", "serve":
		if len(args) != 0 {
			return usageError(command + " takes no arguments")
		}
	case "import":
		if len(args) != 1 {
			return usageError("import takes exactly one file")
		}
	case "add":
		if len(args) != 2 {
			return usageError("add takes a front and a back")
		}
	default:
		return usageError("unknown command " + command)
	}

	store, err := storage.Open(cfg.Deck.Path, cfg.Deck.Driver, cfg.Deck.Boxes)
	if err != nil {
		return fmt.Errorf("failed to open deck: %w", err)
	}
	defer store.Close()

	deck, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load deck: %w", err)
	}

	switch command {
	case "learn":
		logger := log.Logger
		if cfg.Log.File == "" {
			// the terminal belongs to the TUI until it exits
			log.Logger = zerolog.Nop()
		}
		session := review.NewSession(deck, store, cfg.Deck.Autosave)
		err := tui.Run(ctx, session, cfg.Deck.Path)
		log.Logger = logger
		if err != nil {
			log.Error().Err(err).Msg("terminal-failed")
		}
		return save(context.Background(), store, deck)

	case "import":
		res, err := importer.Import(ctx, deck, importer.Source{Path: args[0], Repo: repo}, importer.Options{
			Sheet:    cfg.Import.Sheet,
			ReposDir: cfg.Import.ReposDir,
			Progress: os.Stderr,
		})
		if err != nil {
			return err
		}
		if err := save(ctx, store, deck); err != nil {
			return err
		}
		fmt.Fprintf(out, "Imported %d cards.\n", res.Added)

	case "add":
		if err := deck.Add(domain.NewCard(args[0], args[1])); err != nil {
			if errors.Is(err, leitner.ErrDuplicateCard) {
				fmt.Fprintln(out, "Card already in the deck.")
				return nil
			}
			return err
		}
		if err := save(ctx, store, deck); err != nil {
			return err
		}
		fmt.Fprintln(out, "Added 1 card.")

	case "refill":
		moved := deck.Refill()
		if err := save(ctx, store, deck); err != nil {
			return err
		}
		fmt.Fprintf(out, "Moved %d cards into box 1.\n", moved)

	case "stats":
		printStats(out, deck)

	case "serve":
		session := review.NewSession(deck, store, cfg.Deck.Autosave)
		if err := serve(ctx, cfg.Serve.Addr, session, cfg.Deck.Path); err != nil {
			return fmt.Errorf("failed to serve on %s: %w", cfg.Serve.Addr, err)
		}
		return save(context.Background(), store, deck)
	}
	return nil
}

func save(ctx context.Context, store storage.Store, deck *leitner.Deck) error {
	if err := store.Save(ctx, deck); err != nil {
		return fmt.Errorf("failed to save deck: %w", err)
	}
	return nil
}

func printStats(out io.Writer, deck *leitner.Deck) {
	for i, n := range deck.Counts() {
		q, _ := deck.Queue(i)
		fmt.Fprintf(out, "Box %d: %d/%d\n", i+1, n, q.Capacity())
	}
	fmt.Fprintf(out, "Stash: %d\n", deck.StashSize())
	fmt.Fprintf(out, "Done:  %d\n", len(deck.Done()))
	if i, ok := deck.NextQueue(); ok {
		fmt.Fprintf(out, "Next:  box %d\n", i+1)
	} else if deck.CanRefill() {
		fmt.Fprintln(out, "Next:  nothing due, refill to continue")
	} else {
		fmt.Fprintln(out, "Next:  nothing due")
	}
}
