package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

type snapshotRebuilder interface {
	Rebuild(ctx context.Context) error
}

// NewSnapshotRebuildJob constructs the scheduled snapshot rebuild. Request
// handlers regenerate the export best-effort and swallow failures, so the
// cron worker rebuilds it on a cadence to cap how stale it can get.
func NewSnapshotRebuildJob(logg *logger.Logger, rebuilder snapshotRebuilder) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rebuilder == nil {
		return nil, fmt.Errorf("snapshot rebuilder required")
	}
	return &snapshotRebuildJob{logg: logg, rebuilder: rebuilder}, nil
}

type snapshotRebuildJob struct {
	logg      *logger.Logger
	rebuilder snapshotRebuilder
}

func (j *snapshotRebuildJob) Name() string { return "snapshot-rebuild" }

func (j *snapshotRebuildJob) Run(ctx context.Context) error {
	if err := j.rebuilder.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild snapshot: %w", err)
	}
	j.logg.Info(ctx, "snapshot export rebuilt")
	return nil
}
