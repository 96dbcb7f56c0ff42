package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/research-library/internal/config"
)

// HeaderRequestID correlates client log lines with backend requests.
const HeaderRequestID = "X-Request-ID"

// Observer receives one call per completed backend request.
// Status is zero when no response was received.
type Observer interface {
	ObserveRequest(op Op, status int, elapsed time.Duration, err error)
}

// Client calls the research backend. It is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	observer Observer
}

// New creates a client for the backend located by cfg. The configuration must
// already be finalized. A nil observer disables request reporting.
func New(cfg *config.BackendConfig, logger *slog.Logger, observer Observer) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		logger:   logger.With("system", "backend"),
		observer: observer,
	}
}

// BaseURL returns the backend location the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload submits a PDF with its metadata as a multipart form.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	body, contentType, err := encodeUpload(req)
	if err != nil {
		return nil, &Error{Op: OpUpload, Message: "upload failed: could not encode form", kind: ErrNetwork, cause: err}
	}

	var result UploadResult
	if err := c.do(ctx, OpUpload, http.MethodPost, "/pdfs/upload", body, contentType, &result); err != nil {
		return nil, err
	}

	c.logger.Info("document uploaded", "id", result.ID, "status", result.Status)
	return &result, nil
}

// List returns the full library. A non-empty tag restricts the snapshot to
// documents carrying that tag.
func (c *Client) List(ctx context.Context, tag string) (*ListResult, error) {
	path := "/pdfs"
	if tag != "" {
		path += "?" + url.Values{"tag": {tag}}.Encode()
	}

	var result ListResult
	if err := c.do(ctx, OpList, http.MethodGet, path, nil, "", &result); err != nil {
		return nil, err
	}
	if result.Documents == nil {
		result.Documents = []Document{}
	}
	return &result, nil
}

// Get returns one document. Any non-2xx answer is reported as ErrNotFound;
// a backend that cannot be reached is only ErrNetwork.
func (c *Client) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if err := c.do(ctx, OpGet, http.MethodGet, documentPath(id), nil, "", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Update applies a partial metadata update.
func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (*UpdateResult, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Op: OpUpdate, Message: "update failed: could not encode request", kind: ErrNetwork, cause: err}
	}

	var result UpdateResult
	if err := c.do(ctx, OpUpdate, http.MethodPut, documentPath(id), bytes.NewReader(data), "application/json", &result); err != nil {
		return nil, err
	}

	c.logger.Info("document updated", "id", id)
	return &result, nil
}

// Delete removes a document. Deleting twice is not idempotent: the second
// call fails with ErrNotFound and is not retried.
func (c *Client) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	var result DeleteResult
	if err := c.do(ctx, OpDelete, http.MethodDelete, documentPath(id), nil, "", &result); err != nil {
		return nil, err
	}

	c.logger.Info("document deleted", "id", id)
	return &result, nil
}

// DownloadURL returns the location of a document's file. It performs no I/O.
func (c *Client) DownloadURL(id string) string {
	return c.baseURL + documentPath(id) + "/download"
}

// Query asks a question scoped to ids; no ids means the whole library.
func (c *Client) Query(ctx context.Context, text string, ids []string) (*QueryResult, error) {
	if ids == nil {
		ids = []string{}
	}

	data, err := json.Marshal(QueryRequest{Query: text, DocumentIDs: ids})
	if err != nil {
		return nil, &Error{Op: OpQuery, Message: "query failed: could not encode request", kind: ErrNetwork, cause: err}
	}

	var result QueryResult
	if err := c.do(ctx, OpQuery, http.MethodPost, "/query-pdf", bytes.NewReader(data), "application/json", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResearchDocuments lists the documents attached to a research run.
func (c *Client) ResearchDocuments(ctx context.Context, researchID string) (*ResearchDocuments, error) {
	var result ResearchDocuments
	path := "/research/" + url.PathEscape(researchID) + "/pdfs"
	if err := c.do(ctx, OpResearch, http.MethodGet, path, nil, "", &result); err != nil {
		return nil, err
	}
	if result.Documents == nil {
		result.Documents = []Document{}
	}
	return &result, nil
}

// Download is an open document stream. Callers must close Body.
type Download struct {
	Filename string
	Size     int64
	Body     io.ReadCloser
}

// Download opens the file of a document for streaming. The web UI never calls
// this; browsers navigate to DownloadURL instead.
func (c *Client) Download(ctx context.Context, id string) (*Download, error) {
	start := time.Now()

	req, err := c.newRequest(ctx, http.MethodGet, documentPath(id)+"/download", nil, "")
	if err != nil {
		return nil, c.finish(OpDownload, 0, start, networkError(OpDownload, err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.finish(OpDownload, 0, start, networkError(OpDownload, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, c.finish(OpDownload, resp.StatusCode, start, backendError(OpDownload, resp.StatusCode, readErrorBody(resp.Body)))
	}

	c.finish(OpDownload, resp.StatusCode, start, nil)
	return &Download{
		Filename: attachmentName(resp.Header.Get("Content-Disposition"), id+".pdf"),
		Size:     resp.ContentLength,
		Body:     resp.Body,
	}, nil
}

func (c *Client) do(ctx context.Context, op Op, method, path string, body io.Reader, contentType string, out any) error {
	start := time.Now()

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return c.finish(op, 0, start, networkError(op, err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.finish(op, 0, start, networkError(op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.finish(op, resp.StatusCode, start, backendError(op, resp.StatusCode, readErrorBody(resp.Body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.finish(op, resp.StatusCode, start, decodeFailure(op, err))
	}

	return c.finish(op, resp.StatusCode, start, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	return req, nil
}

// finish reports the request outcome and returns err unchanged.
func (c *Client) finish(op Op, status int, start time.Time, err error) error {
	elapsed := time.Since(start)
	if c.observer != nil {
		c.observer.ObserveRequest(op, status, elapsed, err)
	}

	if err != nil {
		attrs := []any{"op", op, "status", status, "elapsed", elapsed, "error", err}
		var e *Error
		if errors.As(err, &e) && e.cause != nil {
			attrs = append(attrs, "cause", e.cause)
		}
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("backend request cancelled", attrs...)
		} else {
			c.logger.Warn("backend request failed", attrs...)
		}
		return err
	}

	c.logger.Debug("backend request", "op", op, "status", status, "elapsed", elapsed)
	return nil
}

func readErrorBody(r io.Reader) ErrorBody {
	var body ErrorBody
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return body
	}
	_ = json.Unmarshal(data, &body)
	return body
}

func encodeUpload(req UploadRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}

	if req.Title != nil {
		if err := w.WriteField("title", *req.Title); err != nil {
			return nil, "", fmt.Errorf("write title: %w", err)
		}
	}
	if req.Description != nil {
		if err := w.WriteField("description", *req.Description); err != nil {
			return nil, "", fmt.Errorf("write description: %w", err)
		}
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return nil, "", fmt.Errorf("encode tags: %w", err)
	}
	if err := w.WriteField("tags", string(encoded)); err != nil {
		return nil, "", fmt.Errorf("write tags: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func documentPath(id string) string {
	return "/pdfs/" + url.PathEscape(id)
}

func attachmentName(disposition, fallback string) string {
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return params["filename"]
}
