package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docrag"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if cerr := m.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Deps is filled in by Run. Tests may preset services to skip wiring.
	Deps *Dependencies

	closers []io.Closer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the store, browser and crawl jobs opened by Run.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run parses args, wires the services the command needs and runs it.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := m.Deps
	if deps == nil {
		deps = &Dependencies{}
		m.Deps = deps
	}
	deps.Ctx = ctx
	deps.Stdin = stdin
	deps.Stdout = stdout
	deps.Stderr = stderr

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docrag"),
		kong.Description("Ask questions about a documentation site."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docrag --help' to see available commands")
	}
	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	if deps.Logger == nil {
		deps.Logger = newLogger(stderr, cli.LogLevel)
	}

	if err := m.wire(ctx, kongCtx.Command(), cli, deps); err != nil {
		if docrag.ErrorCode(err) == docrag.ECONFIG {
			fmt.Fprintln(stderr, "Hint: settings can be passed as flags, environment variables or a .env file")
		}
		return err
	}
	return kongCtx.Run(deps)
}

// wire fills in the dependencies of command that tests did not preset.
func (m *Main) wire(ctx context.Context, command string, cli *CLI, deps *Dependencies) error {
	var needs need
	switch command {
	case "run":
		needs = needCrawl | needObjects | needStore | needEmbedder | needGenerator
	case "crawl <url>":
		needs = needCrawl | needObjects
	case "ingest <uri>":
		needs = needStore | needEmbedder
	case "ask <question>", "chat":
		needs = needStore | needEmbedder | needGenerator
	case "clear", "create-index":
		needs = needStore
	}
	if deps.Crawler != nil {
		needs &^= needCrawl | needObjects
	}
	if deps.Store != nil {
		needs &^= needStore
	}
	if deps.Ingester != nil && deps.Asker != nil {
		needs &^= needEmbedder | needGenerator
	}
	if err := cli.Require(needs); err != nil {
		return err
	}

	w := &wiring{cfg: &cli.Config, logger: deps.Logger, main: m}
	if deps.OpenObjects == nil {
		deps.OpenObjects = w.openObjects
	}

	if needs&needCrawl != 0 && deps.Crawler == nil {
		dest, err := docrag.ParseObjectURI(cli.BucketURI)
		if err != nil {
			return err
		}
		deps.Dest = dest
		if deps.Crawler, err = w.crawler(ctx, dest); err != nil {
			return err
		}
	}

	if needs&needStore != 0 && deps.Store == nil {
		store, indexer, err := w.store(ctx)
		if err != nil {
			return err
		}
		deps.Store, deps.Indexer = store, indexer
	}

	if needs&needEmbedder != 0 && (deps.Ingester == nil || deps.Asker == nil) {
		embedder, generator, err := w.models(ctx)
		if err != nil {
			return err
		}
		if deps.Ingester == nil {
			deps.Ingester = w.ingester(embedder, deps.Store)
		}
		if deps.Asker == nil && generator != nil {
			deps.Asker = &docrag.Retriever{
				Embedder:  w.queryCache(embedder),
				Store:     deps.Store,
				Generator: generator,
			}
		}
	}
	return nil
}

// errorf prints an error message for the user and returns err.
func errorf(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", message(err))
	return err
}

// message returns the user-facing text of err.
func message(err error) string {
	if docrag.ErrorCode(err) == docrag.EINTERNAL {
		return err.Error()
	}
	return docrag.ErrorMessage(err)
}
