// Package openai implements embedding and text generation using the
// OpenAI API.
package openai

import (
	"errors"
	"net/http"

	"github.com/fwojciec/docrag"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Default models.
const (
	DefaultEmbeddingModel = "text-embedding-3-large"
	DefaultChatModel      = "gpt-4o-mini"
)

// Config holds client settings.
type Config struct {
	APIKey string

	// BaseURL overrides the API endpoint, e.g. for a compatible proxy.
	BaseURL string

	// MaxRetries is the number of retries on transient failures.
	// Zero disables retries.
	MaxRetries int
}

// NewClient returns an API client. Returns ECONFIG if the API key is missing.
func NewClient(cfg Config) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, docrag.Errorf(docrag.ECONFIG, "OpenAI API key required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &client, nil
}

// mapError translates API errors into application error codes.
func mapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return docrag.Errorf(docrag.EINVALID, "openai: %s", apiErr.Message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return docrag.Errorf(docrag.ECONFIG, "openai: authentication failed")
	case http.StatusNotFound:
		return docrag.Errorf(docrag.ENOTFOUND, "openai: %s", apiErr.Message)
	}
	return err
}
