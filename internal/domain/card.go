package domain

import "github.com/google/uuid"

// Card represents a single flashcard: a prompt on the front and the answer
// on the back. ID is assigned once at creation and survives every move
// between stash, boxes and the done list.
type Card struct {
	ID    string `json:"id" db:"id"`
	Front string `json:"front" db:"front"`
	Back  string `json:"back" db:"back"`
}

// NewCard creates a card with a fresh identifier.
func NewCard(front, back string) Card {
	return Card{
		ID:    uuid.NewString(),
		Front: front,
		Back:  back,
	}
}

// SameContent reports whether both cards carry identical front and back text.
// Identifiers are ignored; two cards authored separately with the same text
// are the same card for dedup purposes.
func (c Card) SameContent(other Card) bool {
	return c.Front == other.Front && c.Back == other.Back
}
