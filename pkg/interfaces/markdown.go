package interfaces

// DocumentParser defines how raw Markdown bytes are converted into HTML. The
// engine treats content bodies as opaque strings; everything about dialects,
// extensions, and sanitisation lives behind this contract so hosts can swap
// parsers without touching the pipeline.
type DocumentParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}
