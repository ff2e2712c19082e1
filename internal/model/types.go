// Package model defines shared data structures.
package model

import "time"

// StudyBook is an immutable practice question: a code snippet tagged with a
// language, plus an optional explanation shown after the attempt.
type StudyBook struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Question    string `json:"question"`
	Explanation string `json:"explanation,omitempty"`
}

// LogRecord is one persisted outcome of a completed typing attempt.
// Records are flat and append-only; sessions are only inferred from them.
type LogRecord struct {
	ID           string
	StudyBookID  string
	StartedAt    time.Time
	DurationMs   int64
	TotalChars   int
	CorrectChars int
	WPM          float64
	Accuracy     float64 // 0-100
	Language     string
	Score        float64
	Timestamp    time.Time

	// Explicit problem counts, when the attempt covered more than one
	// question. Zero means not recorded.
	Problems        int
	CorrectProblems float64
}

// PracticeConfig defines practice settings resolved from flags and config.
type PracticeConfig struct {
	Lang             string
	TimeLimitSeconds int
	AllowBackspace   bool
	StrictMode       bool
}

// RemoteConfig points at the practice API. Empty BaseURL disables it.
type RemoteConfig struct {
	BaseURL string
	Token   string
}

// StatsConfig defines filters for the stats report.
type StatsConfig struct {
	Lang  string
	Since *time.Time
	Last  int
}
