package cardkey

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/leitnerbox/internal/domain"
)

// separator cannot appear in keyboard-entered text, so "ab"+"c" and "a"+"bc"
// never produce the same content.
const separator = "\x1f"

// Content joins the card's front and back exactly as written. No trimming or
// case folding takes place: dedup is structural equality.
func Content(card domain.Card) string {
	return strings.Join([]string{card.Front, card.Back}, separator)
}

// Key returns the SHA-256 hash of the card content as a hex string.
func Key(card domain.Card) string {
	sum := sha256.Sum256([]byte(Content(card)))
	return fmt.Sprintf("%x", sum)
}
