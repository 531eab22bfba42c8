package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// rebuildCommand is a build-shaped message for exercising the dispatcher
// round trip: subscribe, dispatch, retry.
type rebuildCommand struct {
	OutputDir string
}

func (rebuildCommand) Type() string { return "sitegen.test.dispatcher" }

func (rebuildCommand) Validate() error { return nil }

func TestDispatchedBuildRetriesTransientFailure(t *testing.T) {
	t.Parallel()

	var attempts int
	var seenDirs []string
	handler := NewHandler(func(_ context.Context, msg rebuildCommand) error {
		attempts++
		seenDirs = append(seenDirs, msg.OutputDir)
		if attempts == 1 {
			return errors.New("writer busy")
		}
		return nil
	}, WithTimeout[rebuildCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), rebuildCommand{OutputDir: "dist"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts (initial + retry), got %d", attempts)
	}
	// The retry replays the same payload.
	for _, dir := range seenDirs {
		if dir != "dist" {
			t.Fatalf("expected payload preserved across retries, got %v", seenDirs)
		}
	}
}

func TestDispatchedBuildRetryExhaustionSurfacesError(t *testing.T) {
	t.Parallel()

	var attempts int
	handler := NewHandler(func(context.Context, rebuildCommand) error {
		attempts++
		return errors.New("output dir unwritable")
	}, WithTimeout[rebuildCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), rebuildCommand{OutputDir: "dist"}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts (initial + 2 retries), got %d", attempts)
	}
}
