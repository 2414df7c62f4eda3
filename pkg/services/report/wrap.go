package report

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks label into lines of at most maxLineChars characters. Words are never split unless a single
// word is longer than a line; such a word is cut into maxLineChars-1 character pieces, each followed by
// a hyphen, and the remainder continues the next line. Lengths are counted in runes, not rendered width.
func Wrap(label string, maxLineChars int) []string {
	if maxLineChars < 2 {
		maxLineChars = 2
	}

	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(label) {
		if utf8.RuneCountInString(word) > maxLineChars {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			runes := []rune(word)
			for len(runes) > maxLineChars {
				lines = append(lines, string(runes[:maxLineChars-1])+"-")
				runes = runes[maxLineChars-1:]
			}
			current = string(runes)
			continue
		}

		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= maxLineChars:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	return lines
}

// FitWidth splits line so that every piece measures at most width. Pieces break between words
// first; a word that alone is too wide is cut rune by rune with a trailing hyphen. A single rune
// wider than width is kept on its own line.
func FitWidth(line string, width float64, measure func(string) float64) []string {
	if measure(line) <= width {
		return []string{line}
	}

	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(line) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure(candidate) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		if measure(word) <= width {
			current = word
			continue
		}

		runes := []rune(word)
		for len(runes) > 1 && measure(string(runes)) > width {
			n := 1
			for n < len(runes) && measure(string(runes[:n+1])+"-") <= width {
				n++
			}
			lines = append(lines, string(runes[:n])+"-")
			runes = runes[n:]
		}
		current = string(runes)
	}
	if current != "" {
		lines = append(lines, current)
	}

	return lines
}
