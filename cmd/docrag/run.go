package main

import (
	"fmt"
	"strconv"

	"github.com/fwojciec/docrag"
	"github.com/fwojciec/docrag/ingest"
)

// Run executes the interactive pipeline: crawl, ingest, then chat.
func (c *RunCmd) Run(deps *Dependencies) error {
	lines := newLineReader(deps.Stdin)
	defer lines.stop()
	fmt.Fprintln(deps.Stdout, "Starting RAG Documentation Pipeline")

	req, err := promptCrawl(deps, lines)
	if err != nil {
		return errorf(deps, err)
	}

	fmt.Fprintln(deps.Stdout, "\nStep 1: Crawling documentation...")
	res, err := crawlSite(deps, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "✓ Crawled %d files to %s\n", res.FileCount, res.URI)

	fmt.Fprintln(deps.Stdout, "\nStep 2: Processing documents...")
	_, err = ingestURI(deps, res.URI, func(phase ingest.Phase, r *ingest.Report) {
		printPhase(deps, phase, r)
		switch phase {
		case ingest.PhaseProcessed:
			fmt.Fprintln(deps.Stdout, "\nStep 3: Generating embeddings...")
		case ingest.PhaseEmbedded:
			fmt.Fprintln(deps.Stdout, "\nStep 4: Storing chunks...")
		}
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, "\nRAG System Ready!")
	fmt.Fprintf(deps.Stdout, "\nYou can now ask questions about: %s\n", req.URL)
	chat(deps, lines)
	fmt.Fprintln(deps.Stdout, "\nSession ended successfully!")
	return nil
}

// promptCrawl asks for the crawl URL, page limit and depth. Empty answers
// keep the defaults.
func promptCrawl(deps *Dependencies, lines *lineReader) (docrag.CrawlRequest, error) {
	req := docrag.CrawlRequest{Limit: docrag.DefaultCrawlLimit, MaxDepth: docrag.DefaultCrawlMaxDepth}

	var err error
	if req.URL, err = prompt(deps, lines, "\nEnter URL to crawl: "); err != nil {
		return req, err
	}
	if req.Limit, err = promptInt(deps, lines, fmt.Sprintf("Number of pages to crawl (default %d): ", req.Limit), req.Limit); err != nil {
		return req, err
	}
	if req.MaxDepth, err = promptInt(deps, lines, fmt.Sprintf("Max crawl depth (default %d): ", req.MaxDepth), req.MaxDepth); err != nil {
		return req, err
	}
	return req, req.Validate()
}

func prompt(deps *Dependencies, lines *lineReader, text string) (string, error) {
	fmt.Fprint(deps.Stdout, text)
	line, ok := lines.next(deps.Ctx)
	if !ok {
		if err := deps.Ctx.Err(); err != nil {
			return "", err
		}
		return "", docrag.Errorf(docrag.EINVALID, "input ended")
	}
	return line, nil
}

func promptInt(deps *Dependencies, lines *lineReader, text string, def int) (int, error) {
	line, err := prompt(deps, lines, text)
	if err != nil {
		return 0, err
	}
	if line == "" {
		return def, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, docrag.Errorf(docrag.EINVALID, "not a number: %q", line)
	}
	return n, nil
}
