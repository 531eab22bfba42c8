package sitegen

import (
	"github.com/goliatone/go-sitegen/internal/engine"
	"github.com/goliatone/go-sitegen/internal/items"
	"github.com/goliatone/go-sitegen/internal/routes"
	"github.com/goliatone/go-sitegen/internal/rules"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/internal/snapshots"
	"github.com/goliatone/go-sitegen/internal/tags"
)

// Configuration validation sentinels, matchable with errors.Is.
var (
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrOutputDirRequired       = runtimeconfig.ErrOutputDirRequired
	ErrBaseURLRequired         = runtimeconfig.ErrBaseURLRequired
	ErrBaseURLInvalid          = runtimeconfig.ErrBaseURLInvalid
	ErrFeedsFeatureRequired    = runtimeconfig.ErrFeedsFeatureRequired
	ErrTagsFeatureRequired     = runtimeconfig.ErrTagsFeatureRequired
	ErrTagRouteTemplateInvalid = runtimeconfig.ErrTagRouteTemplateInvalid
	ErrFeedLimitInvalid        = runtimeconfig.ErrFeedLimitInvalid
	ErrWorkersInvalid          = runtimeconfig.ErrWorkersInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

// Build-time sentinels surfaced through BuildResult.Errors and Build's return.
var (
	ErrServiceDisabled  = engine.ErrServiceDisabled
	ErrPatternAmbiguity = rules.ErrPatternAmbiguity
	ErrStepFailed       = rules.ErrStepFailed
	ErrRouteCollision   = routes.ErrRouteCollision
	ErrSnapshotNotFound = snapshots.ErrSnapshotNotFound
	ErrTagCollision     = tags.ErrTagCollision
	ErrTagUnsanitizable = tags.ErrTagUnsanitizable
	ErrFieldMissing     = items.ErrFieldMissing
	ErrFieldUnparsable  = items.ErrFieldUnparsable
)

// Structured error types, matchable with errors.As for richer diagnostics.
type (
	// StepError identifies the item and compiler step behind a failed product.
	StepError = rules.StepError
	// RouteCollisionError carries both identifiers claiming one output path.
	RouteCollisionError = routes.CollisionError
	// TagCollisionError carries both raw tags sanitizing to one segment.
	TagCollisionError = tags.CollisionError
	// SnapshotNotFoundError reports a consumer running before its producer.
	SnapshotNotFoundError = snapshots.NotFoundError
)
