// Package handler exposes the evaluation pipeline over HTTP for the
// relay deployment: one endpoint taking pre-encoded documents, one taking
// multipart file uploads.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anilvk/examaudit/internal/document"
	"github.com/anilvk/examaudit/internal/gateway"
	"github.com/anilvk/examaudit/internal/i18n"
	"github.com/anilvk/examaudit/internal/model"
	"github.com/anilvk/examaudit/internal/pipeline"
	"github.com/anilvk/examaudit/internal/report"
)

// maxBodyBytes bounds uploads; scanned scripts run a few MB each.
const maxBodyBytes = 64 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	pipe *pipeline.Pipeline
}

// New creates a new Handler.
func New(p *pipeline.Pipeline) *Handler {
	return &Handler{pipe: p}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealthz)
	r.Post("/api/evaluate", h.handleEvaluate)
	r.Post("/api/evaluate/upload", h.handleEvaluateUpload)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// evaluateRequest is the relay body: both documents already encoded by the
// caller.
type evaluateRequest struct {
	Artifact      model.EncodedDocument `json:"artifact"`
	HumanFeedback model.EncodedDocument `json:"humanFeedback"`
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rpt, err := h.pipe.RunEncoded(r.Context(), req.Artifact, req.HumanFeedback)
	if err != nil {
		h.writePipelineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpt)
}

func (h *Handler) handleEvaluateUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	artifact, err := formInput(r, "artifact")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	feedback, err := formInput(r, "humanFeedback")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rpt, err := h.pipe.Run(r.Context(), artifact, feedback)
	if err != nil {
		h.writePipelineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpt)
}

// formInput reads one uploaded file field into a pipeline input.
func formInput(r *http.Request, field string) (pipeline.Input, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("missing file field %q", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("read file field %q: %w", field, err)
	}
	return pipeline.Input{
		Name:      header.Filename,
		MediaType: headerMediaType(header),
		Data:      data,
	}, nil
}

func headerMediaType(header *multipart.FileHeader) string {
	// Browsers send application/octet-stream for unknown types; leave it
	// to the encoder's sniffing instead of trusting that.
	ct := header.Header.Get("Content-Type")
	if ct == "application/octet-stream" {
		return ""
	}
	return ct
}

// writePipelineError maps the error taxonomy onto HTTP statuses.
// Ingestion and validation failures carry field-level detail the caller
// can act on; gateway failures surface a single localized message with no
// internal diagnostics, and raw payloads never leave the server.
func (h *Handler) writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var sve *report.SchemaViolationError
	var mpe *report.MalformedPayloadError

	switch {
	case errors.Is(err, document.ErrEmptyDocument),
		errors.Is(err, document.ErrUnsupportedMediaType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &sve):
		writeError(w, http.StatusUnprocessableEntity, sve.Error())
	case errors.As(err, &mpe):
		slog.Error("generation payload malformed", "error", mpe.Err, "raw_bytes", len(mpe.Raw))
		writeError(w, http.StatusBadGateway, i18n.T(ctx, "error.generation_invalid"))
	case errors.Is(err, gateway.ErrEmptyResponse):
		slog.Error("generation returned empty response")
		writeError(w, http.StatusBadGateway, i18n.T(ctx, "error.generation_empty"))
	case errors.Is(err, gateway.ErrUnavailable):
		slog.Error("generation gateway unavailable", "error", err)
		writeError(w, http.StatusBadGateway, i18n.T(ctx, "error.generation_unavailable"))
	case errors.Is(err, context.Canceled):
		writeError(w, statusClientClosedRequest, i18n.T(ctx, "error.evaluation_cancelled"))
	default:
		slog.Error("evaluation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// statusClientClosedRequest is the nginx convention for an abandoned request.
const statusClientClosedRequest = 499

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
