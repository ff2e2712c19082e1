package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/codetype-dev/codetype/internal/model"
)

// RenderReport prints the statistics snapshot as plain text. Everything
// shown is derived from the record list on the spot; there is no cached
// aggregate to go stale.
func RenderReport(w io.Writer, records []model.LogRecord) error {
	return RenderReportWith(w, Aggregate(records), records)
}

// RenderReportWith prints the report from a pre-computed snapshot, so
// callers can fold remote aggregates in with MergeRemoteSummary first.
func RenderReportWith(w io.Writer, snapshot Snapshot, records []model.LogRecord) error {
	if err := renderSummary(w, snapshot); err != nil {
		return err
	}
	if err := renderSessions(w, Cluster(records)); err != nil {
		return err
	}
	return renderLanguages(w, Breakdown(records))
}

func renderSummary(w io.Writer, snapshot Snapshot) error {
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	rows := [][]string{
		{"Attempts", fmt.Sprintf("%d", snapshot.Attempts)},
		{"Sessions", fmt.Sprintf("%d", snapshot.Sessions)},
		{"Avg Accuracy", fmt.Sprintf("%.1f%%", snapshot.AverageAccuracy)},
		{"Best Accuracy", fmt.Sprintf("%.1f%%", snapshot.BestAccuracy)},
		{"Avg WPM", fmt.Sprintf("%.2f", snapshot.AverageWPM)},
		{"Best WPM", fmt.Sprintf("%.2f", snapshot.BestWPM)},
		{"Rank", string(snapshot.Rank)},
		{fmt.Sprintf("Recent %d Score", RecentWindow), fmt.Sprintf("%.2f", snapshot.RecentScore)},
		{"Practice Time", formatDuration(snapshot.TotalTimeMs)},
	}
	for _, line := range formatTable(nil, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func renderSessions(w io.Writer, clusters []SessionCluster) error {
	if len(clusters) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Sessions (inferred)"); err != nil {
		return err
	}
	headers := []string{"Start", "Attempts", "Avg Accuracy", "Avg WPM"}
	rows := make([][]string, 0, len(clusters))
	for _, cluster := range clusters {
		var accSum, wpmSum float64
		for _, rec := range cluster.Records {
			accSum += rec.Accuracy
			wpmSum += rec.WPM
		}
		n := float64(len(cluster.Records))
		rows = append(rows, []string{
			cluster.Start().Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", len(cluster.Records)),
			fmt.Sprintf("%.1f%%", accSum/n),
			fmt.Sprintf("%.1f", wpmSum/n),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func renderLanguages(w io.Writer, breakdown LanguageBreakdown) error {
	if len(breakdown.Languages) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Languages"); err != nil {
		return err
	}
	headers := []string{"Language", "Avg Score", "Attempts"}
	rows := make([][]string, 0, len(breakdown.Languages))
	for _, lang := range breakdown.Languages {
		rows = append(rows, []string{
			lang.Language,
			fmt.Sprintf("%.2f", lang.AverageScore),
			fmt.Sprintf("%d", lang.Attempts),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if breakdown.Best != nil && breakdown.Worst != nil && breakdown.Best.Language != breakdown.Worst.Language {
		if _, err := fmt.Fprintf(w, "Strongest: %s  Weakest: %s\n", breakdown.Best.Language, breakdown.Worst.Language); err != nil {
			return err
		}
	}
	return nil
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
