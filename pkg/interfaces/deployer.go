package interfaces

import "context"

// DeployOptions carries the knobs a deployment target may honour.
type DeployOptions struct {
	Target  string
	DryRun  bool
	Exclude []string
}

// Deployer is the publish collaborator contract: it takes a finished output
// tree and moves it somewhere public. The engine only produces the tree; no
// implementation ships with this module.
type Deployer interface {
	Deploy(ctx context.Context, outputDir string, opts DeployOptions) error
}
