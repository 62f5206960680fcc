package ogimage

import (
	"strings"
	"unicode/utf8"
)

// WrapTitle splits title into lines of at most maxPerLine characters using greedy
// word wrapping. Words are never broken: a word longer than maxPerLine gets a line
// of its own. Runs of whitespace collapse to a single space.
//
// An empty or blank title yields a single empty line. maxPerLine below 1 is treated as 1.
func WrapTitle(title string, maxPerLine int) []string {
	if maxPerLine < 1 {
		maxPerLine = 1
	}

	words := strings.Fields(title)
	if len(words) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, 3)
	current := words[0]
	currentLen := utf8.RuneCountInString(current)

	for _, word := range words[1:] {
		wordLen := utf8.RuneCountInString(word)
		if currentLen+1+wordLen <= maxPerLine {
			current += " " + word
			currentLen += 1 + wordLen
			continue
		}
		lines = append(lines, current)
		current = word
		currentLen = wordLen
	}

	return append(lines, current)
}
