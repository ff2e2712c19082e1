// Package typinglog abstracts attempt-log persistence and composes the
// remote and local backends.
package typinglog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/codetype-dev/codetype/internal/model"
)

// Store persists and retrieves attempt records.
type Store interface {
	Save(ctx context.Context, rec model.LogRecord) error
	List(ctx context.Context, cfg model.StatsConfig) ([]model.LogRecord, error)
}

// Resilient writes to the remote store and falls back to the local one
// when the remote fails. Remote failures are logged, not surfaced: losing
// a practice record to a flaky network would be worse than letting the
// copies diverge between devices. Reads prefer remote for the same
// reason. With no remote configured it is a plain wrapper around local.
type Resilient struct {
	remote Store
	local  Store
	log    *zap.Logger
}

// NewResilient composes the two stores. remote may be nil; local must
// not be. A nil logger is replaced with a no-op one.
func NewResilient(remote, local Store, log *zap.Logger) *Resilient {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resilient{remote: remote, local: local, log: log}
}

// Save persists one attempt record, at most once. An error is returned
// only when every backend failed.
func (r *Resilient) Save(ctx context.Context, rec model.LogRecord) error {
	if r.remote != nil {
		err := r.remote.Save(ctx, rec)
		if err == nil {
			return nil
		}
		r.log.Warn("remote save failed, falling back to local store",
			zap.String("record_id", rec.ID),
			zap.Error(err),
		)
	}
	if err := r.local.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save typing log locally: %w", err)
	}
	return nil
}

// List returns the attempt log, from remote when available.
func (r *Resilient) List(ctx context.Context, cfg model.StatsConfig) ([]model.LogRecord, error) {
	if r.remote != nil {
		records, err := r.remote.List(ctx, cfg)
		if err == nil {
			return records, nil
		}
		r.log.Warn("remote list failed, falling back to local store", zap.Error(err))
	}
	return r.local.List(ctx, cfg)
}
