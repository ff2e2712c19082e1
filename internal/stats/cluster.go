// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"
	"time"

	"github.com/codetype-dev/codetype/internal/model"
)

// sessionGap is the idle gap that splits inferred sessions. Attempts are
// persisted as independent flat records with no session id, so continuous
// practice periods can only be reconstructed heuristically. The constant
// has no stated derivation in the product; changing it would reclassify
// every historical session.
const sessionGap = 5 * time.Minute

// SessionCluster is an inferred practice session: consecutive attempt
// records with no gap over sessionGap between them. Clusters are derived
// on every read and never persisted.
type SessionCluster struct {
	Records []model.LogRecord
}

// Start returns the effective start time of the first record.
func (c SessionCluster) Start() time.Time {
	if len(c.Records) == 0 {
		return time.Time{}
	}
	return orderTime(c.Records[0])
}

// End returns the effective start time of the last record.
func (c SessionCluster) End() time.Time {
	if len(c.Records) == 0 {
		return time.Time{}
	}
	return orderTime(c.Records[len(c.Records)-1])
}

// Cluster groups a flat record list into inferred sessions. Records are
// ordered by StartedAt, falling back to Timestamp for records that lack
// one. Empty input yields an empty list.
func Cluster(records []model.LogRecord) []SessionCluster {
	if len(records) == 0 {
		return nil
	}
	sorted := append([]model.LogRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool {
		return orderTime(sorted[i]).Before(orderTime(sorted[j]))
	})

	clusters := []SessionCluster{{Records: []model.LogRecord{sorted[0]}}}
	for _, rec := range sorted[1:] {
		current := &clusters[len(clusters)-1]
		prev := current.Records[len(current.Records)-1]
		if orderTime(rec).Sub(orderTime(prev)) > sessionGap {
			clusters = append(clusters, SessionCluster{Records: []model.LogRecord{rec}})
			continue
		}
		current.Records = append(current.Records, rec)
	}
	return clusters
}

func orderTime(rec model.LogRecord) time.Time {
	if !rec.StartedAt.IsZero() {
		return rec.StartedAt
	}
	return rec.Timestamp
}
