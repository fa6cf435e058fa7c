// Package trafilatura extracts the main content of documentation pages
// with go-trafilatura before they are partitioned.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/docrag"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ docrag.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura.
type Extractor struct {
	// Fallback enables the readability and dom-distiller fallbacks.
	Fallback bool
}

// NewExtractor creates a new Extractor with fallbacks enabled.
func NewExtractor() *Extractor {
	return &Extractor{Fallback: true}
}

// Extract returns the main content of rawHTML. A non-empty language
// restricts extraction to pages in that language.
func (e *Extractor) Extract(rawHTML, language string) (*docrag.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docrag.Errorf(docrag.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: e.Fallback,
		TargetLanguage: language,
		IncludeLinks:   true,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if result.ContentNode != nil {
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
	}

	return &docrag.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: buf.String(),
	}, nil
}
