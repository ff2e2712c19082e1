// Package scoring compares typed input against a target snippet and
// produces speed and accuracy metrics.
package scoring

import (
	"math"
	"strings"
)

// Result holds the metrics for a single typing attempt. Values are fixed
// once computed; every division in here is guarded, so degenerate input
// (empty target, zero duration) yields zeros rather than NaN.
type Result struct {
	CorrectChars int
	TotalChars   int
	TypedChars   int
	Accuracy     float64 // 0-100
	DurationMs   int64
	WPM          float64
	CPM          float64
	IsComplete   bool
}

// Score diffs typed text against the target. Both strings have line
// endings normalized first so text composed on Windows is not penalized.
// Characters beyond the shorter string are not compared.
func Score(target, typed string, elapsedMs int64) Result {
	targetRunes := []rune(normalize(target))
	typedRunes := []rune(normalize(typed))

	correct := 0
	limit := len(typedRunes)
	if len(targetRunes) < limit {
		limit = len(targetRunes)
	}
	for i := 0; i < limit; i++ {
		if typedRunes[i] == targetRunes[i] {
			correct++
		}
	}

	result := Result{
		CorrectChars: correct,
		TotalChars:   len(targetRunes),
		TypedChars:   len(typedRunes),
		DurationMs:   elapsedMs,
		IsComplete:   len(typedRunes) == len(targetRunes) && correct == len(targetRunes),
	}
	if result.TotalChars > 0 {
		result.Accuracy = round2(float64(correct) / float64(result.TotalChars) * 100)
	}
	if elapsedMs > 0 {
		minutes := float64(elapsedMs) / 60000.0
		result.WPM = round2(float64(result.TypedChars) / 5.0 / minutes)
		result.CPM = round2(float64(result.TypedChars) / minutes)
	}
	return result
}

// CompositeScore is the single figure persisted with each attempt: speed
// discounted by accuracy.
func CompositeScore(wpm, accuracy float64) float64 {
	return round2(wpm * accuracy / 100)
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
