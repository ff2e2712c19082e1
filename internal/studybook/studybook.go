// Package studybook loads the practice question catalog.
package studybook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codetype-dev/codetype/internal/model"
)

// Builtin returns the snippet set shipped with the binary, used when no
// user catalog or remote is available.
func Builtin() []model.StudyBook {
	return []model.StudyBook{
		{
			ID:          "builtin-js-log",
			Language:    "javascript",
			Question:    "console.log('Hello World');",
			Explanation: "Prints a line to the console.",
		},
		{
			ID:          "builtin-js-map",
			Language:    "javascript",
			Question:    "const doubled = values.map((v) => v * 2);",
			Explanation: "Array.prototype.map returns a new array.",
		},
		{
			ID:          "builtin-go-hello",
			Language:    "go",
			Question:    "fmt.Println(\"hello, world\")",
			Explanation: "Standard output via the fmt package.",
		},
		{
			ID:          "builtin-go-err",
			Language:    "go",
			Question:    "if err != nil {\n\treturn fmt.Errorf(\"open config: %w\", err)\n}",
			Explanation: "Wrap errors with %w so callers can unwrap them.",
		},
		{
			ID:          "builtin-py-comprehension",
			Language:    "python",
			Question:    "squares = [n * n for n in range(10)]",
			Explanation: "List comprehension over a range.",
		},
		{
			ID:          "builtin-sql-select",
			Language:    "sql",
			Question:    "SELECT name, COUNT(*) FROM users GROUP BY name;",
			Explanation: "Aggregate rows per name.",
		},
	}
}

// LoadDir reads user study book files (*.json, each holding an array of
// books) from the given directory. A missing directory is not an error.
func LoadDir(dir string) ([]model.StudyBook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read study book directory: %w", err)
	}

	var books []model.StudyBook
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var fileBooks []model.StudyBook
		if err := json.Unmarshal(data, &fileBooks); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for i, book := range fileBooks {
			if book.Question == "" {
				return nil, fmt.Errorf("%s: book %d has no question", path, i)
			}
			if book.ID == "" {
				book.ID = fmt.Sprintf("%s-%d", strings.TrimSuffix(entry.Name(), ".json"), i)
			}
			books = append(books, book)
		}
	}
	return books, nil
}

// Merge combines catalogs, dropping duplicate IDs (first source wins)
// and sorting by language then ID for stable listings.
func Merge(sources ...[]model.StudyBook) []model.StudyBook {
	seen := map[string]struct{}{}
	var books []model.StudyBook
	for _, source := range sources {
		for _, book := range source {
			if _, ok := seen[book.ID]; ok {
				continue
			}
			seen[book.ID] = struct{}{}
			books = append(books, book)
		}
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].Language == books[j].Language {
			return books[i].ID < books[j].ID
		}
		return books[i].Language < books[j].Language
	})
	return books
}

// FilterLang returns books for one language; all books when lang is empty.
func FilterLang(books []model.StudyBook, lang string) []model.StudyBook {
	if lang == "" {
		return books
	}
	var out []model.StudyBook
	for _, book := range books {
		if book.Language == lang {
			out = append(out, book)
		}
	}
	return out
}
