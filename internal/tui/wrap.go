// Package tui provides the Bubble Tea study interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks s into lines no wider than width display cells, preferring
// word boundaries and hard-splitting words that are wider than the line.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width)...)
	}
	return strings.Join(lines, "\n")
}

func wrapParagraph(paragraph string, width int) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var line string
	lineWidth := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)
		if w > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
				lineWidth = 0
			}
			lines = append(lines, splitWide(word, width)...)
			last := lines[len(lines)-1]
			lines = lines[:len(lines)-1]
			line = last
			lineWidth = runewidth.StringWidth(last)
			continue
		}
		switch {
		case line == "":
			line = word
			lineWidth = w
		case lineWidth+1+w <= width:
			line += " " + word
			lineWidth += 1 + w
		default:
			lines = append(lines, line)
			line = word
			lineWidth = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func splitWide(word string, width int) []string {
	var parts []string
	var part string
	partWidth := 0
	for _, r := range word {
		w := runewidth.RuneWidth(r)
		if partWidth+w > width && part != "" {
			parts = append(parts, part)
			part = ""
			partWidth = 0
		}
		part += string(r)
		partWidth += w
	}
	if part != "" {
		parts = append(parts, part)
	}
	return parts
}

// truncate shortens s to at most width display cells, ending with an
// ellipsis when anything was cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
