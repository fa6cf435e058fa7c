package main

import (
	"fmt"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/crawl"
	"github.com/fwojciec/docrag/ingest"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	res, err := crawlSite(deps, docrag.CrawlRequest{URL: c.URL, Limit: c.Limit, MaxDepth: c.MaxDepth})
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, res.URI)
	return nil
}

// crawlSite runs a crawl and prints its summary. A timed out crawl is
// reported as an ETIMEOUT error.
func crawlSite(deps *Dependencies, req docrag.CrawlRequest) (*crawl.Result, error) {
	res, err := deps.Crawler.Crawl(deps.Ctx, req, deps.Dest)
	if err != nil {
		return nil, errorf(deps, err)
	}
	fmt.Fprintln(deps.Stderr, crawl.Summary(res))
	for name, ferr := range res.Failures {
		fmt.Fprintf(deps.Stderr, "  failed %s: %v\n", name, ferr)
	}
	if res.Status != crawl.StatusCompleted {
		return res, errorf(deps, docrag.Errorf(docrag.ETIMEOUT, "crawl %s: %s", res.ID, res.Error))
	}
	return res, nil
}

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	report, err := ingestURI(deps, c.URI, func(phase ingest.Phase, r *ingest.Report) {
		printPhase(deps, phase, r)
	})
	if err != nil {
		return err
	}
	if report.Skipped > 0 || report.EmbedFailed > 0 {
		fmt.Fprintf(deps.Stderr, "  skipped %d files, %d chunks failed to embed\n", report.Skipped, report.EmbedFailed)
	}
	return nil
}

// ingestURI chunks, embeds and stores the pages under rawURI.
func ingestURI(deps *Dependencies, rawURI string, progress ingest.ProgressFunc) (*ingest.Report, error) {
	uri, err := docrag.ParseObjectURI(rawURI)
	if err != nil {
		return nil, errorf(deps, err)
	}
	objects, err := deps.OpenObjects(deps.Ctx, uri)
	if err != nil {
		return nil, errorf(deps, err)
	}
	deps.Ingester.Processor.Objects = objects

	report, err := deps.Ingester.Ingest(deps.Ctx, uri.Prefix, progress)
	if err != nil {
		return report, errorf(deps, err)
	}
	return report, nil
}

func printPhase(deps *Dependencies, phase ingest.Phase, r *ingest.Report) {
	switch phase {
	case ingest.PhaseProcessed:
		fmt.Fprintf(deps.Stdout, "✓ Created %d document chunks from %d files\n", r.Chunks, r.Files)
	case ingest.PhaseEmbedded:
		fmt.Fprintf(deps.Stdout, "✓ Generated embeddings for %d chunks\n", r.Embedded)
	case ingest.PhaseStored:
		fmt.Fprintf(deps.Stdout, "✓ Stored %d chunks\n", r.Stored)
	}
}
