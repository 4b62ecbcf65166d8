// Package wordbank holds the practice vocabulary.
package wordbank

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// PrintableASCII keeps non-empty words made of printable ASCII without spaces.
func PrintableASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch <= ' ' || ch > '~' {
			return false
		}
	}
	return true
}
