package review

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/conorfennell/leitnerbox/internal/domain"
	"github.com/conorfennell/leitnerbox/internal/leitner"
	"github.com/conorfennell/leitnerbox/internal/storage"
)

// Screen is what the learner is looking at.
type Screen int

const (
	// Asking shows the front of the current card.
	Asking Screen = iota
	// Checking shows both sides and waits for a judgement.
	Checking
)

func (s Screen) String() string {
	if s == Checking {
		return "checking"
	}
	return "asking"
}

var (
	ErrNothingToReview = errors.New("review: nothing to review")
	ErrNotRevealed     = errors.New("review: card has not been revealed")
	ErrReviewPending   = errors.New("review: cannot refill while a box is due")
)

// Session drives a deck through one study sitting. It is safe for use by
// concurrent callers; every method runs under one lock so the deck only
// ever has a single mutator.
type Session struct {
	mu       sync.Mutex
	deck     *leitner.Deck
	store    storage.Store
	autosave bool

	queue    int
	hasQueue bool
	screen   Screen
}

// NewSession wraps a loaded deck. With autosave the deck is written to
// store after every answer and refill.
func NewSession(deck *leitner.Deck, store storage.Store, autosave bool) *Session {
	s := &Session{deck: deck, store: store, autosave: autosave}
	s.selectQueue()
	return s
}

// State is a consistent view of the session for rendering.
type State struct {
	Screen     Screen
	Queue      int
	HasQueue   bool
	Card       domain.Card
	Counts     []int
	Capacities []int
	StashSize  int
	DoneCount  int
	CanRefill  bool
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Screen:    s.screen,
		Queue:     s.queue,
		HasQueue:  s.hasQueue,
		Counts:    s.deck.Counts(),
		StashSize: s.deck.StashSize(),
		DoneCount: len(s.deck.Done()),
		CanRefill: s.deck.CanRefill(),
	}
	for i := 0; i < s.deck.NumQueues(); i++ {
		q, _ := s.deck.Queue(i)
		st.Capacities = append(st.Capacities, q.Capacity())
	}
	if s.hasQueue {
		if q, err := s.deck.Queue(s.queue); err == nil {
			st.Card, _ = q.PeekNext()
		}
	}
	return st
}

// Reveal flips the current card to its back.
func (s *Session) Reveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasQueue {
		return ErrNothingToReview
	}
	s.screen = Checking
	return nil
}

// Answer records whether the learner knew the revealed card and moves on to
// the next one.
func (s *Session) Answer(ctx context.Context, recalled bool) (leitner.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasQueue {
		return leitner.Move{}, ErrNothingToReview
	}
	if s.screen != Checking {
		return leitner.Move{}, ErrNotRevealed
	}
	move, err := s.deck.Process(s.queue, recalled)
	if err != nil {
		return leitner.Move{}, err
	}
	log.Debug().Str("card", move.Card.ID).Bool("recalled", recalled).
		Int("from", move.From+1).Int("to", move.To+1).Bool("graduated", move.Graduated).
		Msg("card-processed")

	s.screen = Asking
	s.selectQueue()
	return move, s.autosaveLocked(ctx)
}

// Refill moves stash cards into box 1. Like the terminal driver it only
// does so when no box is due.
func (s *Session) Refill(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasQueue {
		return 0, ErrReviewPending
	}
	moved := s.deck.Refill()
	log.Info().Int("moved", moved).Int("stash", s.deck.StashSize()).Msg("refilled")
	s.selectQueue()
	if moved == 0 {
		return 0, nil
	}
	return moved, s.autosaveLocked(ctx)
}

// Save writes the deck to the store.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(ctx, s.deck)
}

func (s *Session) selectQueue() {
	s.queue, s.hasQueue = s.deck.NextQueue()
	if !s.hasQueue {
		s.screen = Asking
	}
}

func (s *Session) autosaveLocked(ctx context.Context) error {
	if !s.autosave {
		return nil
	}
	return s.store.Save(ctx, s.deck)
}
