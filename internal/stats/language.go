package stats

import (
	"sort"

	"github.com/codetype-dev/codetype/internal/model"
)

// LanguageStats is the per-language aggregate.
type LanguageStats struct {
	Language     string
	AverageScore float64
	Attempts     int
}

// LanguageBreakdown ranks languages by average score.
type LanguageBreakdown struct {
	Best      *LanguageStats
	Worst     *LanguageStats
	Languages []LanguageStats
}

// Breakdown groups records by language and ranks the averages. Records
// with no language or no score are incomplete (remote records carry
// neither) and are skipped rather than rejected. Best and Worst are nil
// when nothing valid remains.
func Breakdown(records []model.LogRecord) LanguageBreakdown {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := map[string]*bucket{}
	for _, rec := range records {
		if rec.Language == "" || rec.Score == 0 {
			continue
		}
		b, ok := buckets[rec.Language]
		if !ok {
			b = &bucket{}
			buckets[rec.Language] = b
		}
		b.sum += rec.Score
		b.count++
	}
	if len(buckets) == 0 {
		return LanguageBreakdown{}
	}

	languages := make([]LanguageStats, 0, len(buckets))
	for lang, b := range buckets {
		languages = append(languages, LanguageStats{
			Language:     lang,
			AverageScore: b.sum / float64(b.count),
			Attempts:     b.count,
		})
	}
	sort.Slice(languages, func(i, j int) bool {
		if languages[i].AverageScore == languages[j].AverageScore {
			return languages[i].Language < languages[j].Language
		}
		return languages[i].AverageScore > languages[j].AverageScore
	})

	return LanguageBreakdown{
		Best:      &languages[0],
		Worst:     &languages[len(languages)-1],
		Languages: languages,
	}
}
