package studybook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codetype-dev/codetype/internal/model"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	content := `[
		{"id": "custom-1", "language": "go", "question": "var x int", "explanation": "declaration"},
		{"language": "go", "question": "x := 1"}
	]`
	if err := os.WriteFile(filepath.Join(dir, "mine.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	books, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if books[0].ID != "custom-1" {
		t.Fatalf("unexpected id: %s", books[0].ID)
	}
	if books[1].ID != "mine-1" {
		t.Fatalf("expected generated id mine-1, got %s", books[1].ID)
	}
}

func TestLoadDirMissing(t *testing.T) {
	books, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir must not error: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("expected no books, got %d", len(books))
	}
}

func TestLoadDirRejectsEmptyQuestion(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`[{"language":"go"}]`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Fatalf("expected error for a book without a question")
	}
}

func TestMergeDedupesAndSorts(t *testing.T) {
	a := []model.StudyBook{
		{ID: "x", Language: "python", Question: "pass"},
		{ID: "y", Language: "go", Question: "var a int"},
	}
	b := []model.StudyBook{
		{ID: "x", Language: "python", Question: "overridden"},
		{ID: "z", Language: "go", Question: "a := 1"},
	}
	merged := Merge(a, b)
	if len(merged) != 3 {
		t.Fatalf("expected 3 books after dedupe, got %d", len(merged))
	}
	if merged[0].Language != "go" {
		t.Fatalf("expected go books first, got %s", merged[0].Language)
	}
	for _, book := range merged {
		if book.ID == "x" && book.Question != "pass" {
			t.Fatalf("first source must win on duplicate id")
		}
	}
}

func TestFilterLang(t *testing.T) {
	books := Builtin()
	goBooks := FilterLang(books, "go")
	if len(goBooks) == 0 {
		t.Fatalf("expected builtin go books")
	}
	for _, book := range goBooks {
		if book.Language != "go" {
			t.Fatalf("filter leaked language %s", book.Language)
		}
	}
	if len(FilterLang(books, "")) != len(books) {
		t.Fatalf("empty filter must keep all books")
	}
}
