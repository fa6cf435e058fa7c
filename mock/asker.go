package mock

import (
	"context"

	"github.com/fwojciec/docrag"
)

var _ docrag.Asker = (*Asker)(nil)

// Asker is a mock implementation of docrag.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string) (*docrag.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question string) (*docrag.Answer, error) {
	return a.AskFn(ctx, question)
}

var _ docrag.Generator = (*Generator)(nil)

// Generator is a mock implementation of docrag.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}
