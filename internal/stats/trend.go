package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/codetype-dev/codetype/internal/model"
)

const (
	minTrendWidth     = 20
	defaultTrendWidth = 80
	trendBarRune      = '█'
)

// RenderTrend writes a per-session accuracy bar chart. Each bar is one
// inferred session, scaled so 100% accuracy fills the available width.
func RenderTrend(w io.Writer, records []model.LogRecord, width int) error {
	clusters := Cluster(records)
	if len(clusters) == 0 {
		return nil
	}
	if width < minTrendWidth {
		width = defaultTrendWidth
	}

	if _, err := fmt.Fprintln(w, "Accuracy Trend"); err != nil {
		return fmt.Errorf("failed to write trend: %w", err)
	}

	// "Jan 02 15:04 " label, bar, " 100.0%" value.
	labelWidth := 13
	valueWidth := 7
	barWidth := width - labelWidth - valueWidth
	if barWidth < 10 {
		barWidth = 10
	}

	for _, cluster := range clusters {
		avg := clusterAverageAccuracy(cluster)
		filled := int(avg / 100 * float64(barWidth))
		if filled > barWidth {
			filled = barWidth
		}
		if filled < 0 {
			filled = 0
		}
		line := fmt.Sprintf("%-*s%s%s %5.1f%%",
			labelWidth,
			cluster.Start().Local().Format("Jan 02 15:04"),
			strings.Repeat(string(trendBarRune), filled),
			strings.Repeat("·", barWidth-filled),
			avg,
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write trend: %w", err)
		}
	}
	return nil
}

func clusterAverageAccuracy(cluster SessionCluster) float64 {
	if len(cluster.Records) == 0 {
		return 0
	}
	total := 0.0
	for _, rec := range cluster.Records {
		total += rec.Accuracy
	}
	return total / float64(len(cluster.Records))
}
