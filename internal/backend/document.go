// Package backend is the typed client for the research backend's PDF library API.
// It owns request construction, multipart encoding, and the decoding of error
// bodies, so callers only ever see Documents and *Error values.
package backend

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Document is one uploaded PDF known to the backend.
type Document struct {
	ID          string    `json:"pdf_id"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StoragePath string    `json:"file_path"`
	UploadedAt  Timestamp `json:"uploaded_at"`
	Tags        []string  `json:"tags"`
	Metadata    Metadata  `json:"metadata"`
}

// Metadata holds values recorded by the backend at upload and ingestion time.
// ChunkCount stays nil until server-side processing completes.
type Metadata struct {
	OriginalFilename string `json:"original_filename,omitempty"`
	ChunkCount       *int   `json:"chunk_count,omitempty"`
}

// UnmarshalJSON decodes a document, normalizing a null tag list to an empty one.
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Tags == nil {
		raw.Tags = []string{}
	}
	*d = Document(raw)
	return nil
}

// Timestamp is a point in time emitted by the backend. The backend writes
// naive ISO-8601 values without a zone; those are read as UTC.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts null, empty strings, and any layout dateparse recognizes.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON writes the timestamp in RFC 3339 form, or null when unset.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// ListResult is one full snapshot of the library.
type ListResult struct {
	Count     int        `json:"count"`
	Documents []Document `json:"pdfs"`
}

// UploadRequest describes a file submission. Title and Description are sent only
// when non-nil; Tags are always sent as a JSON array.
type UploadRequest struct {
	Filename    string
	Content     []byte
	Title       *string
	Description *string
	Tags        []string
}

// Upload statuses. A partial success means the file was stored but the
// backend failed to split it into chunks.
const (
	StatusSuccess        = "success"
	StatusPartialSuccess = "partial_success"
)

// UploadResult is the backend's acknowledgement of an upload. Status is
// "success" or "partial_success" when ingestion failed after storage.
type UploadResult struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	ID         string `json:"pdf_id"`
	Title      string `json:"title"`
	ChunkCount *int   `json:"chunk_count,omitempty"`
	Note       string `json:"note,omitempty"`
}

// UpdateRequest is a partial metadata update. Nil fields are left unchanged
// server-side; a non-nil empty Tags slice clears the tags.
type UpdateRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// UpdateResult carries the document as stored after the update.
type UpdateResult struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	Document Document `json:"pdf"`
}

// DeleteResult is the backend's acknowledgement of a delete.
type DeleteResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ResearchDocuments lists the documents attached to one research run.
type ResearchDocuments struct {
	ResearchID string     `json:"research_id"`
	Count      int        `json:"count"`
	Documents  []Document `json:"pdfs"`
}
