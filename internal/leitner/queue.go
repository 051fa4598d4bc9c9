package leitner

import "github.com/conorfennell/leitnerbox/internal/domain"

// CardThicknessMM is the thickness of one index card. Box capacity follows
// from how many cards fit into a box of a given length.
const CardThicknessMM = 0.5

// CardsPerCM is the number of cards per centimetre of box, which is also the
// headroom below which a box counts as due.
const CardsPerCM = int(10 / CardThicknessMM)

// DefaultSizes are the box lengths in centimetres of a fresh deck.
var DefaultSizes = []int{1, 2, 5, 8, 14}

// Queue is one Leitner box: cards in FIFO order with a fixed capacity.
type Queue struct {
	cards    []domain.Card
	capacity int
}

// NewQueue creates an empty box sizeCM centimetres long.
func NewQueue(sizeCM int) *Queue {
	capacity := CardsPerCM * sizeCM
	return &Queue{
		cards:    make([]domain.Card, 0, capacity),
		capacity: capacity,
	}
}

func (q *Queue) Len() int { return len(q.cards) }

func (q *Queue) Capacity() int { return q.capacity }

// FreeSpace is capacity minus the number of cards. Box 1 can be overfilled
// by demotions, so the result may be negative.
func (q *Queue) FreeSpace() int {
	return q.capacity - len(q.cards)
}

// PeekNext returns the card at the front without removing it.
func (q *Queue) PeekNext() (domain.Card, bool) {
	if len(q.cards) == 0 {
		return domain.Card{}, false
	}
	return q.cards[0], true
}

// Cards returns a copy of the cards in review order.
func (q *Queue) Cards() []domain.Card {
	out := make([]domain.Card, len(q.cards))
	copy(out, q.cards)
	return out
}

func (q *Queue) pushBack(card domain.Card) {
	q.cards = append(q.cards, card)
}

func (q *Queue) popFront() (domain.Card, bool) {
	if len(q.cards) == 0 {
		return domain.Card{}, false
	}
	card := q.cards[0]
	q.cards[0] = domain.Card{}
	q.cards = q.cards[1:]
	return card, true
}
