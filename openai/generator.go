package openai

import (
	"context"

	"github.com/fwojciec/docrag"
	"github.com/openai/openai-go"
)

var _ docrag.Generator = (*Generator)(nil)

// Generator implements docrag.Generator using chat completions at
// temperature zero.
type Generator struct {
	client *openai.Client

	Model string
}

// NewGenerator returns a Generator using DefaultChatModel.
func NewGenerator(client *openai.Client) *Generator {
	return &Generator{client: client, Model: DefaultChatModel}
}

// Generate sends prompt as a single user message and returns the reply.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(g.Model),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", mapError(err)
	}
	if len(completion.Choices) == 0 {
		return "", docrag.Errorf(docrag.EINTERNAL, "openai returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
