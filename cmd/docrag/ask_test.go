package main_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/docrag"
	main "github.com/fwojciec/docrag/cmd/docrag"
	"github.com/fwojciec/docrag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	asker := &mock.Asker{
		AskFn: func(_ context.Context, q string) (*docrag.Answer, error) {
			if q == "What is HTMX?" {
				return &docrag.Answer{Text: "HTMX is a library.", Context: "\n\n===== Document 1 =====\nHTMX docs"}, nil
			}
			return nil, docrag.Errorf(docrag.ENOTFOUND, "no relevant documents found")
		},
	}

	t.Run("prints the answer", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps("")
		deps.Asker = asker

		err := (&main.AskCmd{Question: "What is HTMX?"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "HTMX is a library.\n", stdout.String())
	})

	t.Run("shows retrieved context on request", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps("")
		deps.Asker = asker

		err := (&main.AskCmd{Question: "What is HTMX?", ShowContext: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), strings.Repeat("=", 80))
		assert.Contains(t, stdout.String(), "===== Document 1 =====\nHTMX docs")
	})

	t.Run("reports errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps("")
		deps.Asker = asker

		err := (&main.AskCmd{Question: "Unknown?"}).Run(deps)

		assert.Equal(t, docrag.ENOTFOUND, docrag.ErrorCode(err))
		assert.Equal(t, "error: no relevant documents found\n", stderr.String())
	})
}

func TestChatCmd_Run(t *testing.T) {
	t.Parallel()

	echo := &mock.Asker{
		AskFn: func(_ context.Context, q string) (*docrag.Answer, error) {
			if q == "boom" {
				return nil, errors.New("model unavailable")
			}
			return &docrag.Answer{Text: "re: " + q}, nil
		},
	}

	t.Run("answers until quit", func(t *testing.T) {
		t.Parallel()

		var asked []string
		deps, stdout, _ := testDeps("first\n\nsecond\nQUIT\nnever\n")
		deps.Asker = &mock.Asker{
			AskFn: func(ctx context.Context, q string) (*docrag.Answer, error) {
				asked = append(asked, q)
				return echo.Ask(ctx, q)
			},
		}

		err := (&main.ChatCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, asked)
		assert.Contains(t, stdout.String(), "**Answer:**\nre: first")
		assert.Contains(t, stdout.String(), "**Answer:**\nre: second")
		assert.NotContains(t, stdout.String(), "Goodbye!")
	})

	t.Run("continues after a failed question", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := testDeps("boom\nafter\nexit\n")
		deps.Asker = echo

		err := (&main.ChatCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "error: model unavailable")
		assert.Contains(t, stdout.String(), "re: after")
	})

	t.Run("says goodbye at end of input", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps("hello\n")
		deps.Asker = echo

		err := (&main.ChatCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "re: hello")
		assert.True(t, strings.HasSuffix(stdout.String(), "Goodbye!\n"))
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		deps, stdout, _ := testDeps("")
		deps.Ctx = ctx
		deps.Stdin = blockingReader{}
		deps.Asker = echo

		err := (&main.ChatCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Goodbye!")
	})
}

// blockingReader never returns.
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }
