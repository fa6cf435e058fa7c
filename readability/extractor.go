// Package readability extracts the main content of pages with go-readability.
// It is an alternative to the trafilatura extractor for pages where the
// latter keeps too much navigation.
package readability

import (
	"strings"

	"github.com/fwojciec/docrag"
	"github.com/go-shiori/go-readability"
)

var _ docrag.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML. Readability does not use the language hint.
func (e *Extractor) Extract(rawHTML, _ string) (*docrag.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docrag.Errorf(docrag.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &docrag.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
