package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gserrors "github.com/matzehuels/gemstar/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"interrupted", fmt.Errorf("resolve: %w", context.Canceled), exitInterrupted},
		{"unreadable snapshot", gserrors.Wrap(gserrors.ErrCodeSnapshotUnreadable, errors.New("no repo"), "open"), exitFailure},
		{"invalid config", gserrors.New(gserrors.ErrCodeInvalidConfig, "workers must be at least 1"), exitUsage},
		{"no terminal", gserrors.New(gserrors.ErrCodeInvalidInput, "--pick needs a terminal"), exitUsage},
		{"write failure", fmt.Errorf("write report: %w", errors.New("disk full")), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
