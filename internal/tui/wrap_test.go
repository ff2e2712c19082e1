package tui

import (
	"strings"
	"testing"
)

func plain(s string, width int, isSpace, isBreak bool) styledRune {
	return styledRune{s: s, width: width, isSpace: isSpace, isBreak: isBreak}
}

func plainWord(word string) []styledRune {
	out := make([]styledRune, 0, len(word))
	for _, r := range word {
		out = append(out, plain(string(r), 1, r == ' ', false))
	}
	return out
}

func TestDisplayRune(t *testing.T) {
	tests := []struct {
		target    rune
		mistyped  bool
		wantS     string
		wantWidth int
	}{
		{'\n', false, "↵", 1},
		{'\t', false, "    ", tabStop},
		{' ', false, " ", 1},
		{' ', true, "•", 1},
		{'a', false, "a", 1},
		{'本', false, "本", 2},
	}
	for _, tt := range tests {
		s, width := displayRune(tt.target, tt.mistyped)
		if s != tt.wantS || width != tt.wantWidth {
			t.Errorf("displayRune(%q, %v) = %q, %d; want %q, %d",
				tt.target, tt.mistyped, s, width, tt.wantS, tt.wantWidth)
		}
	}
}

func TestBuildStyledRunesFlags(t *testing.T) {
	target := []rune("a \nb\tc")
	runes := buildStyledRunes(target, []rune("a"), 1)
	if len(runes) != len(target) {
		t.Fatalf("expected %d styled runes, got %d", len(target), len(runes))
	}
	if !runes[1].isSpace {
		t.Errorf("expected index 1 to be a space")
	}
	if !runes[2].isBreak {
		t.Errorf("expected index 2 to be a break")
	}
	if runes[2].isSpace {
		t.Errorf("break must not count as a wrappable space")
	}
	if runes[4].width != tabStop {
		t.Errorf("expected tab width %d, got %d", tabStop, runes[4].width)
	}
}

func TestRenderStyledRunesHardBreak(t *testing.T) {
	runes := []styledRune{
		plain("a", 1, false, false),
		plain("↵", 1, false, true),
		plain("b", 1, false, false),
	}
	got := renderStyledRunes(runes)
	if got != "a↵\nb" {
		t.Errorf("expected %q, got %q", "a↵\nb", got)
	}
}

func TestWrapStyledRunesBreaksOnSpace(t *testing.T) {
	var runes []styledRune
	runes = append(runes, plainWord("hello world again")...)
	got := wrapStyledRunes(runes, 11)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "hello" {
		t.Errorf("expected first line %q, got %q", "hello", lines[0])
	}
	if lines[1] != "world again" {
		t.Errorf("expected second line %q, got %q", "world again", lines[1])
	}
}

func TestWrapStyledRunesLongWordHardSplit(t *testing.T) {
	runes := plainWord("abcdefghij")
	got := wrapStyledRunes(runes, 4)
	for i, line := range strings.Split(got, "\n") {
		if len([]rune(line)) > 4 {
			t.Errorf("line %d exceeds width: %q", i, line)
		}
	}
}

func TestWrapStyledRunesHardBreakResetsLine(t *testing.T) {
	runes := []styledRune{
		plain("a", 1, false, false),
		plain("b", 1, false, false),
		plain("↵", 1, false, true),
		plain("c", 1, false, false),
	}
	got := wrapStyledRunes(runes, 10)
	if got != "ab↵\nc" {
		t.Errorf("expected %q, got %q", "ab↵\nc", got)
	}
}

func TestWrapStyledRunesZeroWidthPassthrough(t *testing.T) {
	runes := plainWord("abc")
	if got := wrapStyledRunes(runes, 0); got != "abc" {
		t.Errorf("expected passthrough, got %q", got)
	}
}
