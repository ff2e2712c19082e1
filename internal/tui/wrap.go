// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// tabStop is the display width of a literal tab in a snippet.
const tabStop = 4

type styledRune struct {
	s       string
	width   int
	isSpace bool
	isBreak bool
}

// buildStyledRunes styles every target rune against the typed input:
// typed-correct, typed-incorrect, or pending, with the cursor underlined.
// Newlines render as a visible return mark followed by a hard break, and
// tabs expand to a fixed stop, so code snippets keep their shape.
func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		style := pendingStyle
		if i < len(inputRunes) {
			if inputRunes[i] == target {
				style = correctStyle
			} else {
				style = incorrectStyle
			}
		}
		if i == cursorIndex && i >= len(inputRunes) {
			style = style.Underline(true)
		}

		display, width := displayRune(target, i < len(inputRunes) && inputRunes[i] != target)
		out = append(out, styledRune{
			s:       style.Render(display),
			width:   width,
			isSpace: target == ' ',
			isBreak: target == '\n',
		})
	}
	return out
}

func displayRune(target rune, mistyped bool) (string, int) {
	switch target {
	case '\n':
		return "↵", 1
	case '\t':
		return strings.Repeat(" ", tabStop), tabStop
	case ' ':
		if mistyped {
			return "•", 1
		}
		return " ", 1
	default:
		return string(target), runewidth.RuneWidth(target)
	}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
		if item.isBreak {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// wrapStyledRunes soft-wraps at the given width, breaking on spaces when
// possible. Hard breaks from the snippet itself always reset the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func(upto int) {
		out.WriteString(renderStyledRunes(line[:upto]))
		out.WriteRune('\n')
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if item.isBreak {
			line = append(line, item)
			out.WriteString(renderStyledRunes(line))
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				flush(lastSpaceIdx)
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				flush(len(line))
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
	out.WriteString(renderStyledRunes(line))
	return out.String()
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
