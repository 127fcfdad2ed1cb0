// Package openai implements the generation gateway on any
// OpenAI-compatible chat completion API. Documents are attached as
// base64 data URLs; providers that cannot ingest the document type will
// report an error rather than silently ignoring it.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/anilvk/examaudit/internal/gateway"
	"github.com/anilvk/examaudit/internal/report"
)

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a gateway client. baseURL may point at any compatible
// endpoint; credentials are injected here, never read from the
// environment inside the gateway.
func New(baseURL, apiKey, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: model,
	}
}

// Generate submits the request as a single chat completion constrained to
// JSON output and returns the raw response text.
func (c *Client) Generate(ctx context.Context, req report.Request) (string, error) {
	userParts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: req.CrossReference},
	}
	for _, doc := range req.Documents {
		userParts = append(userParts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: dataURL(doc.MediaType, doc.Content),
			},
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.Instruction + "\n\nOutput schema (JSON Schema):\n" + req.SchemaJSON,
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: userParts,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", gateway.ErrEmptyResponse
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", gateway.ErrEmptyResponse
	}
	slog.Debug("openai response", "model", c.model, "bytes", len(text))
	return text, nil
}

func dataURL(mediaType, b64 string) string {
	return "data:" + mediaType + ";base64," + b64
}
