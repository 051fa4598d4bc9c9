package leitner

import "errors"

var (
	ErrNoSuchQueue   = errors.New("leitner: no such queue")
	ErrEmptyQueue    = errors.New("leitner: queue is empty")
	ErrDuplicateCard = errors.New("leitner: card already exists")
	ErrInvalidSize   = errors.New("leitner: box size must be positive")
	ErrCorruptDeck   = errors.New("leitner: corrupt deck")
)
