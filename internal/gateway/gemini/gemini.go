// Package gemini implements the generation gateway on the Gemini API,
// which accepts document blobs inline and can be pinned to JSON output.
package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/anilvk/examaudit/internal/gateway"
	"github.com/anilvk/examaudit/internal/report"
)

// Engine calls the Gemini API. API key and model are injected at
// construction time; nothing is read from the process environment here.
type Engine struct {
	apiKey string
	model  string
}

// New creates a Gemini gateway for the given credentials and model.
func New(apiKey, model string) *Engine {
	return &Engine{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
}

// Generate submits the instruction, both documents and the schema contract
// in a single call and returns the raw response text. No retry is
// attempted on failure; the caller decides whether to re-invoke.
func (e *Engine) Generate(ctx context.Context, req report.Request) (string, error) {
	if e.apiKey == "" {
		return "", fmt.Errorf("%w: missing API key", gateway.ErrUnavailable)
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.apiKey))
	if err != nil {
		return "", fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(req.Instruction),
			genai.Text("Output schema (JSON Schema):\n" + req.SchemaJSON),
		},
	}

	parts := []genai.Part{genai.Text(req.CrossReference)}
	for _, doc := range req.Documents {
		data, err := base64.StdEncoding.DecodeString(doc.Content)
		if err != nil {
			return "", fmt.Errorf("decode document %s: %w", doc.Name, err)
		}
		parts = append(parts, genai.Blob{MIMEType: doc.MediaType, Data: data})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}

	text := firstText(resp)
	if strings.TrimSpace(text) == "" {
		return "", gateway.ErrEmptyResponse
	}
	slog.Debug("gemini response", "model", e.model, "bytes", len(text))
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
