package wordbank

import (
	"fmt"

	"github.com/samber/lo"
)

var defaultWords = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "I",
	"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
	"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
	"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
	"when", "make", "can", "like", "time", "no", "just", "him", "know", "take",
	"people", "into", "year", "your", "good", "some", "could", "them", "see", "other",
	"than", "then", "now", "look", "only", "come", "its", "over", "think", "also",
	"back", "after", "use", "two", "how", "our", "work", "first", "well", "way",
	"even", "new", "want", "because", "any", "these", "give", "day", "most", "us",
	"is", "are", "was", "were", "had", "has", "it's", "been", "being", "am",
}

// Bank is an immutable, ordered set of distinct practice words.
type Bank struct {
	words []string
}

// New builds a Bank from words, dropping entries that fail the printable
// filter and later duplicates. Order of first occurrence is kept.
func New(words []string) (*Bank, error) {
	kept := lo.Uniq(lo.Filter(words, func(word string, _ int) bool {
		return PrintableASCII(word)
	}))
	if len(kept) == 0 {
		return nil, fmt.Errorf("word bank is empty")
	}
	return &Bank{words: kept}, nil
}

// Default returns the built-in vocabulary.
func Default() *Bank {
	bank, err := New(defaultWords)
	if err != nil {
		panic(err)
	}
	return bank
}

// Len returns the number of words.
func (b *Bank) Len() int {
	return len(b.words)
}

// At returns the i-th word.
func (b *Bank) At(i int) string {
	return b.words[i]
}

// Words returns a copy of the vocabulary.
func (b *Bank) Words() []string {
	out := make([]string, len(b.words))
	copy(out, b.words)
	return out
}
