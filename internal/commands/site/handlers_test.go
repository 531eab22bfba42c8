package sitecmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitegen/internal/engine"
	"github.com/goliatone/go-sitegen/internal/logging"
)

func TestBuildSiteHandlerExecutesBuild(t *testing.T) {
	cmd := loadBuildFixture(t, "build_basic.json")

	var capturedOpts engine.BuildOptions
	callbackInvoked := false

	svc := &fakeEngineService{
		buildFunc: func(ctx context.Context, opts engine.BuildOptions) (*engine.BuildResult, error) {
			capturedOpts = opts
			return &engine.BuildResult{ProductsBuilt: 3}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{EngineEnabled: alwaysTrue})

	cmd.ResultCallback = func(env ResultEnvelope) {
		callbackInvoked = true
		if env.Result == nil {
			t.Fatalf("expected build result, got nil")
		}
		if env.Result.ProductsBuilt != 3 {
			t.Fatalf("expected ProductsBuilt 3, got %d", env.Result.ProductsBuilt)
		}
		if env.Metadata["operation"] != "build" {
			t.Fatalf("expected operation build, got %v", env.Metadata["operation"])
		}
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}

	if capturedOpts.Workers != 2 {
		t.Fatalf("expected workers override 2, got %d", capturedOpts.Workers)
	}
	if capturedOpts.OutputDir != "public" {
		t.Fatalf("expected output dir override, got %q", capturedOpts.OutputDir)
	}
	if capturedOpts.DryRun {
		t.Fatalf("expected DryRun false")
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestBuildSiteHandlerAnnotatesContextFields(t *testing.T) {
	var fields map[string]any
	svc := &fakeEngineService{
		buildFunc: func(ctx context.Context, _ engine.BuildOptions) (*engine.BuildResult, error) {
			fields = logging.ContextFields(ctx)
			return &engine.BuildResult{}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{EngineEnabled: alwaysTrue})
	cmd := BuildSiteCommand{DryRun: true, Workers: 2}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}

	if fields["operation"] != "site.build" {
		t.Fatalf("expected operation field, got %v", fields)
	}
	if fields["dry_run"] != true || fields["workers"] != 2 {
		t.Fatalf("expected command fields on context, got %v", fields)
	}
}

func TestCleanSiteHandlerAnnotatesContextFields(t *testing.T) {
	var fields map[string]any
	svc := &fakeEngineService{
		cleanFunc: func(ctx context.Context) error {
			fields = logging.ContextFields(ctx)
			return nil
		},
	}

	handler := NewCleanSiteHandler(svc, nil, FeatureGates{EngineEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("execute clean: %v", err)
	}
	if fields["operation"] != "site.clean" {
		t.Fatalf("expected operation field, got %v", fields)
	}
}

func TestBuildSiteHandlerDryRun(t *testing.T) {
	var capturedOpts engine.BuildOptions
	svc := &fakeEngineService{
		buildFunc: func(ctx context.Context, opts engine.BuildOptions) (*engine.BuildResult, error) {
			capturedOpts = opts
			return &engine.BuildResult{DryRun: true}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{EngineEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), BuildSiteCommand{DryRun: true}); err != nil {
		t.Fatalf("execute dry-run: %v", err)
	}
	if !capturedOpts.DryRun {
		t.Fatal("expected DryRun to propagate")
	}
}

func TestBuildSiteHandlerPropagatesBuildErrors(t *testing.T) {
	buildErr := errors.New("route collision")
	svc := &fakeEngineService{
		buildFunc: func(context.Context, engine.BuildOptions) (*engine.BuildResult, error) {
			return &engine.BuildResult{Errors: []error{buildErr}}, buildErr
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{EngineEnabled: alwaysTrue})

	callbackInvoked := false
	cmd := BuildSiteCommand{ResultCallback: func(env ResultEnvelope) {
		callbackInvoked = true
		if env.Result == nil || len(env.Result.Errors) != 1 {
			t.Fatalf("expected partial result with errors, got %#v", env.Result)
		}
	}}

	err := handler.Execute(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected build error")
	}
	if !errors.Is(err, buildErr) {
		t.Fatalf("expected original error preserved, got %v", err)
	}
	if !callbackInvoked {
		t.Fatal("expected callback even on failure")
	}
}

func TestBuildSiteHandlerEngineDisabled(t *testing.T) {
	handler := NewBuildSiteHandler(&fakeEngineService{}, nil, FeatureGates{EngineEnabled: alwaysFalse})
	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !errors.Is(err, engine.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestCleanSiteHandlerExecutesClean(t *testing.T) {
	cleanCalled := false
	svc := &fakeEngineService{
		cleanFunc: func(ctx context.Context) error {
			cleanCalled = true
			return nil
		},
	}

	handler := NewCleanSiteHandler(svc, nil, FeatureGates{EngineEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("execute clean: %v", err)
	}
	if !cleanCalled {
		t.Fatal("expected Clean to be called")
	}
}

func TestCleanSiteHandlerEngineDisabled(t *testing.T) {
	handler := NewCleanSiteHandler(&fakeEngineService{}, nil, FeatureGates{EngineEnabled: alwaysFalse})
	err := handler.Execute(context.Background(), CleanSiteCommand{})
	if !errors.Is(err, engine.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestBuildSiteCommandValidate(t *testing.T) {
	cmd := loadBuildFixture(t, "build_invalid.json")
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected validation error for negative workers")
	}

	handler := NewBuildSiteHandler(&fakeEngineService{}, nil, FeatureGates{EngineEnabled: alwaysTrue})
	err := handler.Execute(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected validation failure from handler")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func loadBuildFixture(t *testing.T, name string) BuildSiteCommand {
	t.Helper()
	var cmd BuildSiteCommand
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	if err := json.Unmarshal(data, &cmd); err != nil {
		t.Fatalf("unmarshal fixture %s: %v", name, err)
	}
	return cmd
}

type fakeEngineService struct {
	buildFunc func(context.Context, engine.BuildOptions) (*engine.BuildResult, error)
	cleanFunc func(context.Context) error
}

func (f *fakeEngineService) Build(ctx context.Context, opts engine.BuildOptions) (*engine.BuildResult, error) {
	if f.buildFunc != nil {
		return f.buildFunc(ctx, opts)
	}
	return nil, nil
}

func (f *fakeEngineService) Clean(ctx context.Context) error {
	if f.cleanFunc != nil {
		return f.cleanFunc(ctx)
	}
	return nil
}

func alwaysTrue() bool  { return true }
func alwaysFalse() bool { return false }
