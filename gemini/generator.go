package gemini

import (
	"context"

	"github.com/fwojciec/docrag"
	"google.golang.org/genai"
)

// Ensure Generator implements docrag.Generator at compile time.
var _ docrag.Generator = (*Generator)(nil)

// Generator implements docrag.Generator using Google Gemini.
type Generator struct {
	client *genai.Client

	Model string
}

// NewGenerator creates a new Generator using DefaultChatModel.
func NewGenerator(client *genai.Client) *Generator {
	return &Generator{client: client, Model: DefaultChatModel}
}

// Generate returns the model's reply to prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.Model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", docrag.Errorf(docrag.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
// The prompt carries all instructions, so no system instruction is set.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		Temperature: &temp,
	}
}
