// Package stats computes typing metrics and formats round history.
package stats

import (
	"math"
	"strings"
	"time"
)

// MinElapsed floors the elapsed time used for WPM so the rate stays finite.
const MinElapsed = time.Millisecond

// CharsPerWord is the standard word length used for WPM.
const CharsPerWord = 5.0

const sparkChars = " .:-=+*#%@"

// WPM returns words per minute for typedChars characters typed between start
// and end.
func WPM(start, end time.Time, typedChars int) float64 {
	if typedChars <= 0 {
		return 0
	}
	elapsed := end.Sub(start)
	if elapsed < MinElapsed {
		elapsed = MinElapsed
	}
	return RateFor(typedChars, elapsed)
}

// RateFor returns words per minute for typedChars over elapsed.
func RateFor(typedChars int, elapsed time.Duration) float64 {
	if typedChars <= 0 {
		return 0
	}
	if elapsed < MinElapsed {
		elapsed = MinElapsed
	}
	words := float64(typedChars) / CharsPerWord
	return words / elapsed.Minutes()
}

// Accuracy returns the percentage of correct characters, or 0 when nothing
// was typed.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	correct = max(0, min(correct, total))
	return 100 * float64(correct) / float64(total)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
