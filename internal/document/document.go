// Package document converts uploaded exam documents into the transmissible
// form embedded in generation requests: base64 content plus a declared
// media type and display name.
package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anilvk/examaudit/internal/model"
)

var (
	// ErrEmptyDocument is returned for zero-length input.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrUnsupportedMediaType is returned for media types outside the allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// allowedMediaTypes lists the document formats evaluators actually upload:
// PDF scans and the common word-processor formats.
var allowedMediaTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.oasis.opendocument.text":                                 true,
}

// Encode produces an EncodedDocument from raw bytes. The declared media
// type wins when present; otherwise the content is sniffed. Input outside
// the allow-list or with no bytes at all is rejected.
func Encode(name, mediaType string, data []byte) (model.EncodedDocument, error) {
	if len(data) == 0 {
		return model.EncodedDocument{}, fmt.Errorf("%w: %s", ErrEmptyDocument, name)
	}

	mt := pickMediaType(mediaType, data)
	if !allowedMediaTypes[mt] {
		return model.EncodedDocument{}, fmt.Errorf("%w: %s (%s)", ErrUnsupportedMediaType, mt, name)
	}

	return model.EncodedDocument{
		Name:      name,
		MediaType: mt,
		Content:   base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Decode reverses Encode, returning the original bytes of an encoded
// document. The relay surface uses it to re-validate documents that arrive
// already encoded.
func Decode(doc model.EncodedDocument) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", doc.Name, err)
	}
	return data, nil
}

// Reencode validates an already-encoded document by decoding it and
// running it back through Encode, so the relay applies the same allow-list
// and emptiness rules as direct file ingestion.
func Reencode(doc model.EncodedDocument) (model.EncodedDocument, error) {
	data, err := Decode(doc)
	if err != nil {
		return model.EncodedDocument{}, err
	}
	return Encode(doc.Name, doc.MediaType, data)
}

// pickMediaType takes the declared type when set, otherwise sniffs the
// content. http.DetectContentType recognises PDF; DOCX/ODT arrive as zip
// containers, so a declared type is required for those.
func pickMediaType(declared string, data []byte) string {
	if mt := normalize(declared); mt != "" {
		return mt
	}
	return normalize(http.DetectContentType(data))
}

// normalize strips any media type parameters ("; charset=...") and lowers
// the case, so allow-list lookups are exact.
func normalize(mediaType string) string {
	mt := strings.TrimSpace(mediaType)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
