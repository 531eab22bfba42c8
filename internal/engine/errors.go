package engine

import "errors"

var (
	// ErrServiceDisabled indicates the build engine feature is disabled.
	ErrServiceDisabled   = errors.New("engine: service disabled")
	errSourceRequired    = errors.New("engine: content source is required")
	errRegistryRequired  = errors.New("engine: rule registry is required")
	errOutputDirRequired = errors.New("engine: output directory is required")
	errRendererRequired  = errors.New("engine: template renderer is required")
)
