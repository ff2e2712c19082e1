package stats

import (
	"math"
	"sort"

	"github.com/codetype-dev/codetype/internal/model"
	"github.com/codetype-dev/codetype/internal/remote"
)

// defaultAccuracy is reported instead of zero when there is no history,
// so a brand-new user starts from a neutral figure rather than a
// discouraging one.
const defaultAccuracy = 85.0

// RecentWindow is the number of most recent problems averaged into the
// "current form" score.
const RecentWindow = 100

// Rank is a coarse skill classification derived from average accuracy.
type Rank string

const (
	RankBeginner     Rank = "Beginner"
	RankIntermediate Rank = "Intermediate"
	RankAdvanced     Rank = "Advanced"
	RankExpert       Rank = "Expert"
)

// Classify maps an average accuracy to a rank.
func Classify(averageAccuracy float64) Rank {
	switch {
	case averageAccuracy >= 95:
		return RankExpert
	case averageAccuracy >= 85:
		return RankAdvanced
	case averageAccuracy >= 70:
		return RankIntermediate
	default:
		return RankBeginner
	}
}

// Snapshot is the statistics view recomputed from the full attempt log.
// Attempts is the raw record count; Sessions is the inferred cluster
// count. Call sites pick whichever notion of "session" they mean.
type Snapshot struct {
	Attempts        int
	Sessions        int
	TotalProblems   int
	CorrectProblems float64
	AverageAccuracy float64
	BestAccuracy    float64
	AverageWPM      float64
	BestWPM         float64
	Rank            Rank
	RecentScore     float64
	TotalTimeMs     int64
}

// Aggregate computes a snapshot from the flat record list. It is a pure
// function of its input: no state is kept between reads.
func Aggregate(records []model.LogRecord) Snapshot {
	snapshot := Snapshot{
		Attempts: len(records),
		Sessions: len(Cluster(records)),
	}

	var wpmSum float64
	for _, rec := range records {
		problems, correct := problemCounts(rec)
		snapshot.TotalProblems += problems
		snapshot.CorrectProblems += correct

		if rec.Accuracy > snapshot.BestAccuracy {
			snapshot.BestAccuracy = rec.Accuracy
		}
		if rec.WPM > snapshot.BestWPM {
			snapshot.BestWPM = rec.WPM
		}
		wpmSum += rec.WPM
		snapshot.TotalTimeMs += rec.DurationMs
	}

	if snapshot.TotalProblems > 0 {
		snapshot.AverageAccuracy = round1(snapshot.CorrectProblems / float64(snapshot.TotalProblems) * 100)
	} else {
		snapshot.AverageAccuracy = defaultAccuracy
	}
	if snapshot.Attempts > 0 {
		snapshot.AverageWPM = wpmSum / float64(snapshot.Attempts)
	}
	snapshot.Rank = Classify(snapshot.AverageAccuracy)
	snapshot.RecentScore = RecentProblemsScore(records, RecentWindow)
	return snapshot
}

// problemCounts returns the problem totals a record contributes. Records
// without explicit counts are an estimation: one problem, with the
// record's accuracy as the correct fraction of it. Keeping the
// contribution fractional keeps the aggregate ratio inside [0,1].
func problemCounts(rec model.LogRecord) (int, float64) {
	if rec.Problems > 0 {
		return rec.Problems, rec.CorrectProblems
	}
	return 1, rec.Accuracy / 100
}

// RecentProblemsScore averages the scores of the n most recent problems.
// Records with explicit problem counts expand to one entry per problem,
// all carrying the record's score; everything else counts as a single
// problem. Returns 0 for empty input.
func RecentProblemsScore(records []model.LogRecord, n int) float64 {
	if len(records) == 0 || n <= 0 {
		return 0
	}
	sorted := append([]model.LogRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	var sum float64
	count := 0
	for _, rec := range sorted {
		problems := rec.Problems
		if problems <= 0 {
			problems = 1
		}
		for p := 0; p < problems && count < n; p++ {
			sum += rec.Score
			count++
		}
		if count >= n {
			break
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// MergeRemoteSummary folds the remote aggregate into a locally computed
// snapshot, preferring the better best-figures and the larger time
// total. The remote summary arrives already converted to the 0-100
// accuracy scale by the client.
func MergeRemoteSummary(snapshot Snapshot, summary remote.Summary) Snapshot {
	if summary.BestAccuracy > snapshot.BestAccuracy {
		snapshot.BestAccuracy = summary.BestAccuracy
	}
	if summary.BestWPM > snapshot.BestWPM {
		snapshot.BestWPM = summary.BestWPM
	}
	if summary.TotalTimeMs > snapshot.TotalTimeMs {
		snapshot.TotalTimeMs = summary.TotalTimeMs
	}
	return snapshot
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
