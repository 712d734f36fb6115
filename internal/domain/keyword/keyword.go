package keyword

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Keyword is a content-addressed atomic term extracted from conversation text.
// Identity is the hash of the normalized term, so the same term always maps to
// the same keyword regardless of where it was extracted.
type Keyword struct {
	id   string
	term string
}

// Normalize lowercases a term, trims it, and collapses internal whitespace.
func Normalize(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}

// Hash returns the identity hash for a normalized term.
func Hash(normalized string) string {
	h := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(h[:])
}

// New creates a keyword from a raw term.
func New(term string) (Keyword, error) {
	n := Normalize(term)
	if n == "" {
		return Keyword{}, fmt.Errorf("keyword term is empty")
	}
	return Keyword{id: Hash(n), term: n}, nil
}

// Reconstruct rebuilds a keyword from stored data without re-validation.
func Reconstruct(id, term string) Keyword {
	return Keyword{id: id, term: term}
}

// ID returns the identity hash.
func (k Keyword) ID() string { return k.id }

// Term returns the normalized term.
func (k Keyword) Term() string { return k.term }
