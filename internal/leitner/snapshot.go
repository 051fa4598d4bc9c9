package leitner

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/conorfennell/leitnerbox/internal/domain"
)

// QueueSnapshot is the persisted form of one box.
type QueueSnapshot struct {
	Cards    []domain.Card `json:"cards"`
	Capacity int           `json:"capacity"`
}

// Snapshot is the persisted form of a whole deck. Field order matches the
// data files written by earlier versions.
type Snapshot struct {
	Stash  []domain.Card   `json:"stash"`
	Done   []domain.Card   `json:"done"`
	Queues []QueueSnapshot `json:"queues"`
}

// Snapshot copies the full deck state.
func (d *Deck) Snapshot() Snapshot {
	s := Snapshot{
		Stash:  make([]domain.Card, len(d.stash)),
		Done:   d.Done(),
		Queues: make([]QueueSnapshot, len(d.queues)),
	}
	copy(s.Stash, d.stash)
	for i, q := range d.queues {
		s.Queues[i] = QueueSnapshot{Cards: q.Cards(), Capacity: q.capacity}
	}
	return s
}

// FromSnapshot rebuilds a deck. Cards without an identifier get a fresh one.
func FromSnapshot(s Snapshot) (*Deck, error) {
	if len(s.Queues) == 0 {
		return nil, fmt.Errorf("%w: no boxes", ErrCorruptDeck)
	}
	d := &Deck{
		queues: make([]*Queue, len(s.Queues)),
		stash:  withIDs(s.Stash),
		done:   withIDs(s.Done),
		index:  map[string]int{},
	}
	for i, qs := range s.Queues {
		if qs.Capacity <= 0 {
			return nil, fmt.Errorf("%w: box %d has capacity %d", ErrCorruptDeck, i+1, qs.Capacity)
		}
		cards := withIDs(qs.Cards)
		if cards == nil {
			cards = make([]domain.Card, 0, qs.Capacity)
		}
		d.queues[i] = &Queue{cards: cards, capacity: qs.Capacity}
		for _, card := range cards {
			d.remember(card)
		}
	}
	for _, card := range d.stash {
		d.remember(card)
	}
	return d, nil
}

func withIDs(cards []domain.Card) []domain.Card {
	if len(cards) == 0 {
		return nil
	}
	out := make([]domain.Card, len(cards))
	for i, card := range cards {
		if card.ID == "" {
			card.ID = uuid.NewString()
		}
		out[i] = card
	}
	return out
}

func (d *Deck) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Snapshot())
}

func (d *Deck) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	restored, err := FromSnapshot(s)
	if err != nil {
		return err
	}
	*d = *restored
	return nil
}
