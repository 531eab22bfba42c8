package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sitegen "github.com/goliatone/go-sitegen"
)

type stubBuildHandler struct {
	last   sitegen.BuildSiteCommand
	report *sitegen.BuildResult
	err    error
}

func (s *stubBuildHandler) Execute(ctx context.Context, msg sitegen.BuildSiteCommand) error {
	s.last = msg
	if msg.ResultCallback != nil {
		msg.ResultCallback(sitegen.ResultEnvelope{
			Result:   s.report,
			Metadata: map[string]any{"operation": "build"},
		})
	}
	return s.err
}

type stubCleanHandler struct {
	calls int
	err   error
}

func (s *stubCleanHandler) Execute(ctx context.Context, msg sitegen.CleanSiteCommand) error {
	s.calls++
	return s.err
}

type stubHandlers struct {
	build *stubBuildHandler
	clean *stubCleanHandler
}

func withStubModule(t *testing.T, report *sitegen.BuildResult, buildErr error) *stubHandlers {
	t.Helper()

	original := moduleBuilder
	stubs := &stubHandlers{
		build: &stubBuildHandler{report: report, err: buildErr},
		clean: &stubCleanHandler{},
	}
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		return &moduleResources{
			handlers: handlerSet{
				build: stubs.build,
				clean: stubs.clean,
			},
		}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
	return stubs
}

func TestRunBuildUsesCommandHandler(t *testing.T) {
	report := &sitegen.BuildResult{
		ProductsBuilt: 3,
		TagPagesBuilt: 2,
		FeedEntries:   3,
		Duration:      42 * time.Millisecond,
	}
	stubs := withStubModule(t, report, nil)

	var stdout bytes.Buffer
	args := []string{"build", "--dry-run", "--workers", "2", "--output", "public"}
	if err := runWithOutput(context.Background(), args, &stdout, nil); err != nil {
		t.Fatalf("run build: %v", err)
	}

	got := stubs.build.last
	if !got.DryRun {
		t.Fatal("expected dry-run flag to propagate")
	}
	if got.Workers != 2 {
		t.Fatalf("expected workers 2, got %d", got.Workers)
	}
	if got.OutputDir != "public" {
		t.Fatalf("expected output override, got %q", got.OutputDir)
	}
	if !strings.Contains(stdout.String(), "build complete: 3 products") {
		t.Fatalf("expected build summary, got %q", stdout.String())
	}
}

func TestRunBuildListsEveryError(t *testing.T) {
	first := errors.New("routes: output path collision: shared.html")
	second := errors.New("snapshots: snapshot not found: rendered")
	report := &sitegen.BuildResult{
		ProductsBuilt: 1,
		Errors:        []error{first, second},
	}
	withStubModule(t, report, errors.Join(first, second))

	var stderr bytes.Buffer
	err := runWithOutput(context.Background(), []string{"build"}, nil, &stderr)
	if err == nil {
		t.Fatal("expected build failure")
	}
	if !strings.Contains(err.Error(), "2 error(s)") {
		t.Fatalf("expected error count in failure, got %v", err)
	}

	listing := stderr.String()
	if !strings.Contains(listing, first.Error()) {
		t.Fatalf("expected first error listed, got %q", listing)
	}
	if !strings.Contains(listing, second.Error()) {
		t.Fatalf("expected second error listed, got %q", listing)
	}
}

func TestRunBuildPropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	withStubModule(t, nil, boom)

	err := run(context.Background(), []string{"build"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestRunCleanUsesCommandHandler(t *testing.T) {
	stubs := withStubModule(t, nil, nil)

	var stdout bytes.Buffer
	if err := runWithOutput(context.Background(), []string{"clean"}, &stdout, nil); err != nil {
		t.Fatalf("run clean: %v", err)
	}
	if stubs.clean.calls != 1 {
		t.Fatalf("expected clean handler called once, got %d", stubs.clean.calls)
	}
	if !strings.Contains(stdout.String(), "output directory removed") {
		t.Fatalf("expected clean message, got %q", stdout.String())
	}
}

func TestRunCleanPropagatesHandlerError(t *testing.T) {
	stubs := withStubModule(t, nil, nil)
	stubs.clean.err = errors.New("locked")

	err := run(context.Background(), []string{"clean"})
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Fatalf("expected clean error, got %v", err)
	}
}

func TestRunErrorsWhenHandlersMissing(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		return &moduleResources{}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })

	err := run(context.Background(), []string{"build"})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"unknown"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunBuildModuleErrorPropagates(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		return nil, errors.New("config missing")
	}
	t.Cleanup(func() { moduleBuilder = original })

	err := run(context.Background(), []string{"build"})
	if err == nil || !strings.Contains(err.Error(), "config missing") {
		t.Fatalf("expected module error, got %v", err)
	}
}
