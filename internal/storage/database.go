package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/conorfennell/leitnerbox/internal/domain"
	"github.com/conorfennell/leitnerbox/internal/leitner"
)

const (
	containerStash = "stash"
	containerQueue = "queue"
	containerDone  = "done"
)

// SQLStore keeps the deck in a SQLite database.
type SQLStore struct {
	conn  *sqlx.DB
	sizes []int
}

type boxRow struct {
	Position int `db:"position"`
	Capacity int `db:"capacity"`
}

type cardRow struct {
	domain.Card
	Container string `db:"container"`
	Box       int    `db:"box"`
	Position  int    `db:"position"`
}

// OpenSQL creates a new database connection and ensures the schema is up to date.
func OpenSQL(dsn string, sizes []int) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLStore{conn: db, sizes: sizes}, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.conn.Close()
}

func (s *SQLStore) Load(ctx context.Context) (*leitner.Deck, error) {
	var boxes []boxRow
	err := s.conn.SelectContext(ctx, &boxes, `SELECT position, capacity FROM boxes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load boxes: %w", err)
	}
	if len(boxes) == 0 {
		return freshDeck(s.sizes)
	}

	var rows []cardRow
	err = s.conn.SelectContext(ctx, &rows, `
		SELECT id, front, back, container, box, position
		FROM cards ORDER BY container, box, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}

	snap := leitner.Snapshot{Queues: make([]leitner.QueueSnapshot, len(boxes))}
	for i, b := range boxes {
		if b.Position != i {
			return nil, fmt.Errorf("%w: box positions are not contiguous", leitner.ErrCorruptDeck)
		}
		snap.Queues[i].Capacity = b.Capacity
	}
	for _, row := range rows {
		switch row.Container {
		case containerStash:
			snap.Stash = append(snap.Stash, row.Card)
		case containerDone:
			snap.Done = append(snap.Done, row.Card)
		case containerQueue:
			if row.Box < 0 || row.Box >= len(snap.Queues) {
				return nil, fmt.Errorf("%w: card %s is in unknown box %d", leitner.ErrCorruptDeck, row.ID, row.Box)
			}
			snap.Queues[row.Box].Cards = append(snap.Queues[row.Box].Cards, row.Card)
		}
	}
	return leitner.FromSnapshot(snap)
}

// Save replaces the stored deck inside a single transaction.
func (s *SQLStore) Save(ctx context.Context, deck *leitner.Deck) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback() // Roll back the transaction if it isn't committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM boxes`); err != nil {
		return fmt.Errorf("failed to clear boxes: %w", err)
	}

	snap := deck.Snapshot()
	for i, q := range snap.Queues {
		_, err := tx.NamedExecContext(ctx, `INSERT INTO boxes (position, capacity) VALUES (:position, :capacity)`,
			boxRow{Position: i, Capacity: q.Capacity})
		if err != nil {
			return fmt.Errorf("failed to insert box %d: %w", i+1, err)
		}
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO cards (id, front, back, container, box, position)
		VALUES (:id, :front, :back, :container, :box, :position)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer stmt.Close()

	insert := func(container string, box int, cards []domain.Card) error {
		for pos, card := range cards {
			row := cardRow{Card: card, Container: container, Box: box, Position: pos}
			if _, err := stmt.ExecContext(ctx, row); err != nil {
				return fmt.Errorf("failed to insert card %s: %w", card.ID, err)
			}
		}
		return nil
	}
	if err := insert(containerStash, 0, snap.Stash); err != nil {
		return err
	}
	for i, q := range snap.Queues {
		if err := insert(containerQueue, i, q.Cards); err != nil {
			return err
		}
	}
	if err := insert(containerDone, 0, snap.Done); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
