package docrag

// ExtractResult holds the main content of an HTML page.
type ExtractResult struct {
	Title string

	// ContentHTML is the main content with navigation, footers and
	// sidebars removed. Structure is preserved.
	ContentHTML string
}

// Extractor removes boilerplate from HTML pages before partitioning.
type Extractor interface {
	// Extract returns the main content of rawHTML. The language is an
	// ISO 639-1 hint; empty means detect.
	Extract(rawHTML, language string) (*ExtractResult, error)
}
