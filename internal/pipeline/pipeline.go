// Package pipeline orchestrates one evaluation run: encode both source
// documents, build the generation request, call the gateway, validate the
// payload, audit the score locally, assemble the report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/anilvk/examaudit/internal/document"
	"github.com/anilvk/examaudit/internal/gateway"
	"github.com/anilvk/examaudit/internal/model"
	"github.com/anilvk/examaudit/internal/report"
)

// Input is one raw source document before encoding.
type Input struct {
	Name      string
	MediaType string
	Data      []byte
}

// Pipeline runs evaluations against a generation gateway. It holds no
// per-run state; every run's entities are request-scoped, so abandoning a
// cancelled run leaves nothing to clean up.
type Pipeline struct {
	gw gateway.Gateway
}

// New creates a pipeline backed by the given gateway.
func New(gw gateway.Gateway) *Pipeline {
	return &Pipeline{gw: gw}
}

// Run evaluates raw artifact and feedback documents. The two encodings are
// independent pure transforms and run concurrently; both must finish
// before the request is built.
func (p *Pipeline) Run(ctx context.Context, artifact, humanFeedback Input) (*model.EvaluationReport, error) {
	var artifactDoc, feedbackDoc model.EncodedDocument

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		artifactDoc, err = document.Encode(artifact.Name, artifact.MediaType, artifact.Data)
		return err
	})
	g.Go(func() error {
		var err error
		feedbackDoc, err = document.Encode(humanFeedback.Name, humanFeedback.MediaType, humanFeedback.Data)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return p.RunEncoded(ctx, artifactDoc, feedbackDoc)
}

// RunEncoded evaluates documents that are already in encoded form, as
// received by the relay surface. Both documents are re-validated against
// the same ingestion rules as raw input.
func (p *Pipeline) RunEncoded(ctx context.Context, artifact, humanFeedback model.EncodedDocument) (*model.EvaluationReport, error) {
	var err error
	if artifact, err = document.Reencode(artifact); err != nil {
		return nil, err
	}
	if humanFeedback, err = document.Reencode(humanFeedback); err != nil {
		return nil, err
	}

	req := report.NewRequest(artifact, humanFeedback)

	// The only long-blocking step. A cancelled ctx abandons the run; no
	// shared state has been touched at this point.
	raw, err := p.gw.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	validated, err := report.Validate(raw)
	if err != nil {
		return nil, err
	}

	audited, err := report.Audit(validated.QuestionWiseFeedback, validated.ScoreVerification.ReportedTotal)
	if err != nil {
		return nil, fmt.Errorf("score audit: %w", err)
	}
	if audited.Status != validated.ScoreVerification.Status {
		slog.Warn("generation audit disagrees with local audit",
			"advisory_status", validated.ScoreVerification.Status,
			"audited_status", audited.Status)
	}

	result := report.Assemble(validated, audited)
	return &result, nil
}
