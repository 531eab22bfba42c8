package sitecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitegen/internal/engine"
)

const (
	buildSiteMessageType = "sitegen.site.build"
	cleanSiteMessageType = "sitegen.site.clean"
)

// ResultCallback receives build results produced by engine operations. The
// callback is optional and is invoked synchronously from the handler when a
// BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a site command execution that
// produced a BuildResult.
type ResultEnvelope struct {
	Result   *engine.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand executes an engine build with optional per-run overrides.
type BuildSiteCommand struct {
	DryRun         bool           `json:"dry_run,omitempty"`
	Workers        int            `json:"workers,omitempty"`
	OutputDir      string         `json:"output_dir,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures per-run overrides are well-formed.
func (m BuildSiteCommand) Validate() error {
	errs := validation.Errors{}
	if m.Workers < 0 {
		errs["workers"] = validation.NewError("sitegen.site.build.workers_invalid", "workers must be zero or positive")
	}
	if m.OutputDir != "" && strings.TrimSpace(m.OutputDir) == "" {
		errs["output_dir"] = validation.NewError("sitegen.site.build.output_dir_invalid", "output_dir must not be blank")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CleanSiteCommand clears the engine's published output tree.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	EngineEnabled func() bool
}

func (g FeatureGates) engineEnabled() bool {
	if g.EngineEnabled == nil {
		return false
	}
	return g.EngineEnabled()
}
