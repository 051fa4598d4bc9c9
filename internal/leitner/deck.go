// Package leitner schedules flashcards with the Leitner box method.
//
// Cards enter an unordered stash, are refilled into box 1 on request, move
// one box forward on every correct answer and back to box 1 on every wrong
// one. A correct answer in the last box graduates the card to the done list,
// which is never scheduled again.
//
// There is no calendar in this scheduler. A box becomes due by filling up:
// box 1 is due as soon as it holds more than MaxBacklog cards, any other box
// once it has less than CardsPerCM free slots.
package leitner

import (
	"fmt"

	"github.com/conorfennell/leitnerbox/internal/cardkey"
	"github.com/conorfennell/leitnerbox/internal/domain"
)

// MaxBacklog is the number of cards box 1 may hold before it is reviewed
// ahead of every other box.
const MaxBacklog = 3

// Deck owns the boxes, the stash of cards not yet scheduled and the done
// list of graduated cards. A card lives in exactly one of them.
//
// The zero value is an empty deck without boxes: cards can be added to the
// stash but nothing is ever due. Use New, NewWithSizes or FromSnapshot.
type Deck struct {
	queues []*Queue
	stash  []domain.Card
	done   []domain.Card

	// content keys of stash and queues, counted
	index map[string]int
}

// Move describes what Process did with a card.
type Move struct {
	Card      domain.Card
	From      int
	To        int
	Graduated bool
}

// New creates an empty deck with the DefaultSizes layout.
func New() *Deck {
	d, _ := NewWithSizes(DefaultSizes)
	return d
}

// NewWithSizes creates an empty deck with one box per size, box 1 first.
func NewWithSizes(sizes []int) (*Deck, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: need at least one box", ErrInvalidSize)
	}
	queues := make([]*Queue, len(sizes))
	for i, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("%w: box %d has size %d", ErrInvalidSize, i+1, size)
		}
		queues[i] = NewQueue(size)
	}
	return &Deck{
		queues: queues,
		index:  map[string]int{},
	}, nil
}

// NumQueues returns the number of boxes.
func (d *Deck) NumQueues() int { return len(d.queues) }

// Queue returns box i (0-based).
func (d *Deck) Queue(i int) (*Queue, error) {
	if i < 0 || i >= len(d.queues) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchQueue, i)
	}
	return d.queues[i], nil
}

// Counts returns the number of cards in every box.
func (d *Deck) Counts() []int {
	counts := make([]int, len(d.queues))
	for i, q := range d.queues {
		counts[i] = q.Len()
	}
	return counts
}

func (d *Deck) StashSize() int { return len(d.stash) }

// Done returns a copy of the graduated cards.
func (d *Deck) Done() []domain.Card {
	out := make([]domain.Card, len(d.done))
	copy(out, d.done)
	return out
}

// NextQueue selects the box to review next. Box 1 wins whenever it holds
// more than MaxBacklog cards; otherwise the first box with less than
// CardsPerCM free slots is due. It returns false when no box is due.
func (d *Deck) NextQueue() (int, bool) {
	if len(d.queues) == 0 {
		return 0, false
	}
	if d.queues[0].Len() > MaxBacklog {
		return 0, true
	}
	for i, q := range d.queues {
		if q.FreeSpace() < CardsPerCM {
			return i, true
		}
	}
	return 0, false
}

// Process takes the front card of box i and files it according to the
// answer: a miss sends it to the back of box 1, a hit to the back of the
// next box, a hit in the last box to the done list. Capacities are not
// checked here, so box 1 can overflow.
//
// Callers should only pass an index returned by NextQueue. An unknown index
// or an empty box is reported as an error and leaves the deck untouched.
func (d *Deck) Process(i int, recalled bool) (Move, error) {
	q, err := d.Queue(i)
	if err != nil {
		return Move{}, err
	}
	card, ok := q.popFront()
	if !ok {
		return Move{}, fmt.Errorf("%w: box %d", ErrEmptyQueue, i+1)
	}
	move := Move{Card: card, From: i}
	switch {
	case !recalled:
		move.To = 0
		d.queues[0].pushBack(card)
	case i < len(d.queues)-1:
		move.To = i + 1
		d.queues[i+1].pushBack(card)
	default:
		move.To = -1
		move.Graduated = true
		d.done = append(d.done, card)
		d.forget(card)
	}
	return move, nil
}

// Contains reports whether a card with the same front and back is in the
// stash or in any box. Graduated cards do not count.
func (d *Deck) Contains(card domain.Card) bool {
	return d.index[cardkey.Key(card)] > 0
}

// Add puts a card into the stash unless its content already exists.
func (d *Deck) Add(card domain.Card) error {
	if d.Contains(card) {
		return fmt.Errorf("%w: %q / %q", ErrDuplicateCard, card.Front, card.Back)
	}
	d.stash = append(d.stash, card)
	d.remember(card)
	return nil
}

// AddAll adds every card it can and returns how many went into the stash
// along with the rejected duplicates, in input order.
func (d *Deck) AddAll(cards []domain.Card) (int, []domain.Card) {
	added := 0
	var dups []domain.Card
	for _, card := range cards {
		if err := d.Add(card); err != nil {
			dups = append(dups, card)
			continue
		}
		added++
	}
	return added, dups
}

// CanRefill reports whether box 1 has room and the stash has cards.
func (d *Deck) CanRefill() bool {
	return len(d.queues) > 0 && d.queues[0].FreeSpace() > 0 && len(d.stash) > 0
}

// Refill moves cards from the stash into box 1 until either box 1 is full
// or the stash is empty, and returns how many cards moved.
func (d *Deck) Refill() int {
	moved := 0
	for d.CanRefill() {
		last := len(d.stash) - 1
		card := d.stash[last]
		d.stash[last] = domain.Card{}
		d.stash = d.stash[:last]
		d.queues[0].pushBack(card)
		moved++
	}
	return moved
}

func (d *Deck) remember(card domain.Card) {
	if d.index == nil {
		d.index = map[string]int{}
	}
	d.index[cardkey.Key(card)]++
}

func (d *Deck) forget(card domain.Card) {
	key := cardkey.Key(card)
	if d.index[key] <= 1 {
		delete(d.index, key)
		return
	}
	d.index[key]--
}
