// Package gateway defines the structured-completion capability the
// pipeline consumes. Implementations take a generation request and return
// raw text expected (but not guaranteed) to be schema-conformant JSON;
// correctness of the content is the validator's and audit engine's
// problem, not the gateway's.
package gateway

import (
	"context"
	"errors"

	"github.com/anilvk/examaudit/internal/report"
)

var (
	// ErrUnavailable wraps transport-level failures (network, timeout,
	// provider-reported errors).
	ErrUnavailable = errors.New("generation gateway unavailable")
	// ErrEmptyResponse is returned when the provider answers with no text.
	ErrEmptyResponse = errors.New("generation gateway returned an empty response")
)

// Gateway is an opaque structured-completion capability.
type Gateway interface {
	// Generate submits the request and returns the raw response text.
	// The call may block for tens of seconds; it must honor ctx
	// cancellation.
	Generate(ctx context.Context, req report.Request) (string, error)
}
