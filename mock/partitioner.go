package mock

import (
	"io"

	"github.com/fwojciec/docrag"
)

var _ docrag.Partitioner = (*Partitioner)(nil)

// Partitioner is a mock implementation of docrag.Partitioner.
type Partitioner struct {
	PartitionFn func(r io.Reader, language string) ([]docrag.Element, error)
}

func (p *Partitioner) Partition(r io.Reader, language string) ([]docrag.Element, error) {
	return p.PartitionFn(r, language)
}

var _ docrag.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docrag.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML, language string) (*docrag.ExtractResult, error)
}

func (e *Extractor) Extract(rawHTML, language string) (*docrag.ExtractResult, error) {
	return e.ExtractFn(rawHTML, language)
}

var _ docrag.Converter = (*Converter)(nil)

// Converter is a mock implementation of docrag.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
