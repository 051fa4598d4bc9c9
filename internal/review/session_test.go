package review

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"

	"github.com/conorfennell/leitnerbox/internal/domain"
	"github.com/conorfennell/leitnerbox/internal/leitner"
)

type memStore struct {
	saves int
	err   error
}

func (m *memStore) Load(ctx context.Context) (*leitner.Deck, error) { return leitner.New(), nil }

func (m *memStore) Save(ctx context.Context, deck *leitner.Deck) error {
	m.saves++
	return m.err
}

func (m *memStore) Close() error { return nil }

func deckWithStash(t *testing.T, n int) *leitner.Deck {
	t.Helper()
	deck := leitner.New()
	for i := 0; i < n; i++ {
		if err := deck.Add(domain.NewCard(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))); err != nil {
			t.Fatal(err)
		}
	}
	return deck
}

func TestEmptyDeckHasNothingToReview(t *testing.T) {
	is := is.New(t)
	s := NewSession(leitner.New(), &memStore{}, false)

	st := s.State()
	is.True(!st.HasQueue)
	is.Equal(st.Screen, Asking)
	is.True(errors.Is(s.Reveal(), ErrNothingToReview))
	_, err := s.Answer(context.Background(), true)
	is.True(errors.Is(err, ErrNothingToReview))
}

func TestRefillThenReview(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store := &memStore{}
	s := NewSession(deckWithStash(t, 5), store, false)

	moved, err := s.Refill(ctx)
	is.NoErr(err)
	is.Equal(moved, 5)

	st := s.State()
	is.True(st.HasQueue)
	is.Equal(st.Queue, 0)
	is.Equal(st.Counts[0], 5)
	is.Equal(st.StashSize, 0)
	first := st.Card

	// answering before revealing is refused
	_, err = s.Answer(ctx, true)
	is.True(errors.Is(err, ErrNotRevealed))

	is.NoErr(s.Reveal())
	is.Equal(s.State().Screen, Checking)
	move, err := s.Answer(ctx, true)
	is.NoErr(err)
	is.Equal(move.Card, first)
	is.Equal(move.To, 1)

	st = s.State()
	is.Equal(st.Screen, Asking)
	is.Equal(st.Counts[:2], []int{4, 1})
	is.True(st.Card != first)
	is.Equal(store.saves, 0)

	// refilling is only offered when nothing is due
	_, err = s.Refill(ctx)
	is.True(errors.Is(err, ErrReviewPending))
}

func TestAutosave(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	store := &memStore{}
	s := NewSession(deckWithStash(t, 2), store, true)

	_, err := s.Refill(ctx)
	is.NoErr(err)
	is.Equal(store.saves, 1)

	is.NoErr(s.Reveal())
	_, err = s.Answer(ctx, false)
	is.NoErr(err)
	is.Equal(store.saves, 2)

	store.err = errors.New("disk full")
	is.NoErr(s.Reveal())
	_, err = s.Answer(ctx, true)
	is.True(err != nil)
	// the answer itself still counted
	is.Equal(s.State().Counts[:2], []int{1, 1})
}

func TestSave(t *testing.T) {
	is := is.New(t)
	store := &memStore{}
	s := NewSession(leitner.New(), store, false)
	is.NoErr(s.Save(context.Background()))
	is.Equal(store.saves, 1)
}

func TestSessionEndsWhenBoxOneEmpties(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s := NewSession(deckWithStash(t, 2), &memStore{}, false)
	_, err := s.Refill(ctx)
	is.NoErr(err)

	for s.State().HasQueue {
		is.NoErr(s.Reveal())
		_, err := s.Answer(ctx, true)
		is.NoErr(err)
	}
	st := s.State()
	is.Equal(st.Counts, []int{0, 2, 0, 0, 0})
	is.Equal(st.Screen, Asking)
}
