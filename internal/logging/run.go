package logging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// newRunID is injectable for testing.
var newRunID = func() string {
	return uuid.NewString()
}

// now is injectable for testing stage durations.
var now = time.Now

// StartRun attaches a fresh run ID to ctx unless one is present.
func StartRun(ctx context.Context) context.Context {
	if GetRunID(ctx) != "" {
		return ctx
	}
	return WithRunID(ctx, newRunID())
}

// TrackStage runs fn as a named build stage, logging its duration on
// success and the error on failure. The error from fn is returned as is.
func TrackStage(ctx context.Context, stage string, fn func() error, args ...any) error {
	start := now()
	if err := fn(); err != nil {
		StageError(ctx, stage, err, args...)
		return err
	}
	Stage(ctx, stage, now().Sub(start), args...)
	return nil
}
