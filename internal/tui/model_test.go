package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matryer/is"

	"github.com/conorfennell/leitnerbox/internal/domain"
	"github.com/conorfennell/leitnerbox/internal/leitner"
	"github.com/conorfennell/leitnerbox/internal/review"
)

type stubStore struct{ err error }

func (s stubStore) Load(context.Context) (*leitner.Deck, error) { return leitner.New(), nil }
func (s stubStore) Save(context.Context, *leitner.Deck) error   { return s.err }
func (s stubStore) Close() error                                { return nil }

func press(t *testing.T, m tea.Model, keys ...string) tea.Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func newModel(t *testing.T, store stubStore, cards ...domain.Card) (Model, *review.Session) {
	t.Helper()
	deck := leitner.New()
	for _, c := range cards {
		if err := deck.Add(c); err != nil {
			t.Fatal(err)
		}
	}
	s := review.NewSession(deck, store, true)
	return New(context.Background(), s, "deck.json"), s
}

func TestQuitKeys(t *testing.T) {
	is := is.New(t)
	m, _ := newModel(t, stubStore{})

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(k)
		is.True(cmd != nil)
		_, ok := cmd().(tea.QuitMsg)
		is.True(ok)
	}
}

func TestNothingToLearnOffersRefill(t *testing.T) {
	is := is.New(t)
	m, s := newModel(t, stubStore{}, domain.NewCard("2 x 3", "6"))

	view := m.View()
	is.True(strings.Contains(view, "Nothing to learn"))
	is.True(strings.Contains(view, "refill"))

	// y/n are ignored while nothing is selected
	out := press(t, m, "y")
	is.True(!s.State().HasQueue)

	out = press(t, out, "r")
	st := s.State()
	is.True(st.HasQueue)
	is.Equal(st.Card.Front, "2 x 3")
	is.True(strings.Contains(out.View(), "moved 1 cards into box 1"))
}

func TestFlipThenAnswer(t *testing.T) {
	is := is.New(t)
	m, s := newModel(t, stubStore{}, domain.NewCard("capital of France", "Paris"))
	out := press(t, m, "r")

	view := out.View()
	is.True(strings.Contains(view, "capital of France"))
	is.True(!strings.Contains(view, "Paris"))
	is.True(strings.Contains(view, "Do you know this?"))

	out = press(t, out, "x")
	is.Equal(s.State().Screen, review.Checking)
	view = out.View()
	is.True(strings.Contains(view, "Paris"))
	is.True(strings.Contains(view, "Did you know this?"))

	// anything but y/n keeps the card on its back
	out = press(t, out, "x")
	is.Equal(s.State().Screen, review.Checking)

	out = press(t, out, "y")
	st := s.State()
	is.Equal(st.Counts, []int{0, 1, 0, 0, 0})
	is.True(!st.HasQueue)
	is.True(strings.Contains(out.View(), "boxes 0 1 0 0 0"))
}

func TestMissGoesBackToBoxOne(t *testing.T) {
	is := is.New(t)
	m, s := newModel(t, stubStore{}, domain.NewCard("7 x 8", "56"))

	press(t, m, "r", " ", "n")
	st := s.State()
	is.Equal(st.Counts, []int{1, 0, 0, 0, 0})
	is.True(st.HasQueue)
	is.Equal(st.Screen, review.Asking)
}

func TestSaveErrorShownInStatus(t *testing.T) {
	is := is.New(t)
	m, s := newModel(t, stubStore{err: errors.New("disk full")}, domain.NewCard("a", "b"))

	out := press(t, m, "r")
	is.True(strings.Contains(out.View(), "disk full"))
	is.True(s.State().HasQueue)

	out = press(t, out, " ", "y")
	is.True(strings.Contains(out.View(), "could not save: disk full"))
	is.Equal(s.State().Counts, []int{0, 1, 0, 0, 0})
}

func TestSessionRefusalsAreNotSaveErrors(t *testing.T) {
	is := is.New(t)
	m, _ := newModel(t, stubStore{}, domain.NewCard("a", "b"))

	m.answer(true)
	is.Equal(m.status, review.ErrNothingToReview.Error())

	out := press(t, m, "r").(Model)
	out.answer(true)
	is.Equal(out.status, review.ErrNotRevealed.Error())

	out.refill()
	is.Equal(out.status, review.ErrReviewPending.Error())
}
