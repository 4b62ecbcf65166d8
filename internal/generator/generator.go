// Package generator builds typing text sequences.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/wpmtest/internal/wordbank"
)

// DefaultWords is the number of words in a round when none is configured.
const DefaultWords = 10

// Generator produces randomized round targets.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Sample draws min(count, bank.Len()) distinct words in random order.
func (g *Generator) Sample(bank *wordbank.Bank, count int) []string {
	if bank == nil || count <= 0 {
		return nil
	}
	n := bank.Len()
	if count > n {
		count = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// Partial Fisher-Yates: the first count slots end up a uniform sample.
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		j := i + g.rnd.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		result = append(result, bank.At(idx[i]))
	}
	return result
}

// Target builds one round's target phrase.
func (g *Generator) Target(bank *wordbank.Bank, count int) string {
	return strings.Join(g.Sample(bank, count), " ")
}
