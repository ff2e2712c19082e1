package stats

import (
	"testing"

	"github.com/codetype-dev/codetype/internal/model"
)

func langRec(lang string, score float64) model.LogRecord {
	return model.LogRecord{Language: lang, Score: score}
}

func TestBreakdownRanksLanguages(t *testing.T) {
	records := []model.LogRecord{
		langRec("go", 40),
		langRec("go", 60),
		langRec("javascript", 30),
		langRec("python", 45),
	}
	breakdown := Breakdown(records)
	if breakdown.Best == nil || breakdown.Worst == nil {
		t.Fatalf("expected best and worst to be set")
	}
	if breakdown.Best.Language != "go" || breakdown.Best.AverageScore != 50 {
		t.Fatalf("unexpected best: %+v", breakdown.Best)
	}
	if breakdown.Worst.Language != "javascript" {
		t.Fatalf("unexpected worst: %+v", breakdown.Worst)
	}
	if len(breakdown.Languages) != 3 {
		t.Fatalf("expected 3 languages, got %d", len(breakdown.Languages))
	}
	if breakdown.Best.Attempts != 2 {
		t.Fatalf("expected 2 go attempts, got %d", breakdown.Best.Attempts)
	}
}

func TestBreakdownSkipsIncompleteRecords(t *testing.T) {
	records := []model.LogRecord{
		langRec("", 40),
		langRec("go", 0),
		langRec("go", 50),
	}
	breakdown := Breakdown(records)
	if breakdown.Best == nil {
		t.Fatalf("expected a valid record to survive filtering")
	}
	if breakdown.Best.Attempts != 1 {
		t.Fatalf("incomplete records must be excluded, got %d attempts", breakdown.Best.Attempts)
	}
}

func TestBreakdownEmpty(t *testing.T) {
	breakdown := Breakdown([]model.LogRecord{langRec("", 0)})
	if breakdown.Best != nil || breakdown.Worst != nil {
		t.Fatalf("expected nil best/worst with no valid records")
	}
	if len(breakdown.Languages) != 0 {
		t.Fatalf("expected no languages, got %d", len(breakdown.Languages))
	}
}

func TestBreakdownSingleLanguage(t *testing.T) {
	breakdown := Breakdown([]model.LogRecord{langRec("go", 42)})
	if breakdown.Best == nil || breakdown.Worst == nil {
		t.Fatalf("expected best and worst for one language")
	}
	if breakdown.Best.Language != breakdown.Worst.Language {
		t.Fatalf("single language must be both best and worst")
	}
}
