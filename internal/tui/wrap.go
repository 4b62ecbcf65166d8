package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	cursor  bool
}

// buildStyledRunes overlays typed on target. Typed characters past the end of
// target are not drawn.
func buildStyledRunes(target, typed []rune, cursorIndex int) []styledRune {
	words := findWords(target)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(target))
	for i, want := range target {
		displayed := want
		style := pendingStyle
		if i < len(typed) {
			got := typed[i]
			displayed = got
			switch {
			case got == want:
				style = correctStyle
			case got == ' ':
				displayed = wrongSpaceGlyph
				style = incorrectStyle
			default:
				style = incorrectStyle
			}
		} else if want != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		if i == cursorIndex && i >= len(typed) {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: want == ' ',
			cursor:  i == cursorIndex,
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(target []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range target {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(target)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks runes into lines no wider than width, preferring
// breaks at target spaces. It returns the line holding the cursor, or the
// last line when there is no cursor.
func wrapStyledRunes(runes []styledRune, width int) ([]string, int) {
	if width <= 0 {
		return []string{renderStyledRunes(runes)}, 0
	}
	var lines []string
	cursorLine := -1
	flush := func(part []styledRune) {
		for _, item := range part {
			if item.cursor {
				cursorLine = len(lines)
			}
		}
		lines = append(lines, renderStyledRunes(part))
	}

	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1
	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				flush(line[:lastSpaceIdx])
				// The space itself is dropped but may carry the cursor.
				if line[lastSpaceIdx].cursor {
					cursorLine = len(lines)
				}
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				flush(line)
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	flush(line)
	if cursorLine < 0 || cursorLine >= len(lines) {
		cursorLine = len(lines) - 1
	}
	return lines, cursorLine
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// windowLines keeps at most height lines, scrolled so focus stays visible.
func windowLines(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	focus = max(0, min(focus, len(lines)-1))
	start := focus - height/2
	start = max(0, min(start, len(lines)-height))
	return lines[start : start+height]
}

// clampText truncates plain text to width cells.
func clampText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "")
}
