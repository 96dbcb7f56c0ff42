package library_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/JaimeStill/research-library/internal/backend"
)

var pdfData = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// fakeBackend is an in-memory library. The *Err fields make the matching
// call fail; block and started pause uploads and updates mid-flight.
type fakeBackend struct {
	mu     sync.Mutex
	docs   []backend.Document
	calls  map[string]int
	nextID int

	uploads []backend.UploadRequest
	updates []backend.UpdateRequest
	queries [][]string

	listErr   error
	uploadErr error
	updateErr error

	// uploadStatus and uploadMessage replace the default "success" answer.
	uploadStatus  string
	uploadMessage string

	// block, when set, holds Upload and Update until the context ends or the
	// channel is closed.
	block   chan struct{}
	started chan struct{}
}

func newFakeBackend(docs ...backend.Document) *fakeBackend {
	return &fakeBackend{
		docs:  docs,
		calls: make(map[string]int),
	}
}

func doc(id, title string, tags ...string) backend.Document {
	if tags == nil {
		tags = []string{}
	}
	return backend.Document{
		ID:       id,
		Filename: title + ".pdf",
		Title:    title,
		Tags:     tags,
		Metadata: backend.Metadata{OriginalFilename: title + ".pdf"},
	}
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeBackend) wait(ctx context.Context) error {
	f.mu.Lock()
	block, started := f.block, f.started
	f.mu.Unlock()

	if block == nil {
		return nil
	}
	if started != nil {
		started <- struct{}{}
	}
	select {
	case <-block:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", backend.ErrNetwork, ctx.Err())
	}
}

func (f *fakeBackend) Upload(ctx context.Context, req backend.UploadRequest) (*backend.UploadResult, error) {
	f.record("upload")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploads = append(f.uploads, req)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}

	f.nextID++
	id := fmt.Sprintf("new-%d", f.nextID)
	d := backend.Document{
		ID:       id,
		Filename: req.Filename,
		Title:    *req.Title,
		Tags:     req.Tags,
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	f.docs = append(f.docs, d)

	status := f.uploadStatus
	if status == "" {
		status = backend.StatusSuccess
	}
	return &backend.UploadResult{Status: status, Message: f.uploadMessage, ID: id, Title: d.Title}, nil
}

func (f *fakeBackend) List(_ context.Context, tag string) (*backend.ListResult, error) {
	f.record("list")

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	docs := []backend.Document{}
	for _, d := range f.docs {
		if tag == "" || contains(d.Tags, tag) {
			docs = append(docs, d)
		}
	}
	return &backend.ListResult{Count: len(docs), Documents: docs}, nil
}

func (f *fakeBackend) Update(ctx context.Context, id string, req backend.UpdateRequest) (*backend.UpdateResult, error) {
	f.record("update")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates = append(f.updates, req)
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	for i, d := range f.docs {
		if d.ID != id {
			continue
		}
		if req.Title != nil {
			d.Title = *req.Title
		}
		if req.Description != nil {
			d.Description = *req.Description
		}
		if req.Tags != nil {
			d.Tags = *req.Tags
		}
		f.docs[i] = d
		return &backend.UpdateResult{Status: "success", Document: d}, nil
	}
	return nil, fmt.Errorf("%w: %w: PDF not found", backend.ErrBackend, backend.ErrNotFound)
}

func (f *fakeBackend) Delete(_ context.Context, id string) (*backend.DeleteResult, error) {
	f.record("delete")

	f.mu.Lock()
	defer f.mu.Unlock()

	for i, d := range f.docs {
		if d.ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return &backend.DeleteResult{Status: "success"}, nil
		}
	}
	return nil, fmt.Errorf("%w: %w: PDF not found", backend.ErrBackend, backend.ErrNotFound)
}

func (f *fakeBackend) Query(_ context.Context, text string, ids []string) (*backend.QueryResult, error) {
	f.record("query")

	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, ids)
	return &backend.QueryResult{
		Status: "success",
		Query:  text,
		Answer: "answer to " + text,
		Sources: []backend.Source{
			{"pdf_id": "b1", "title": "Thesis"},
		},
	}, nil
}

func (f *fakeBackend) DownloadURL(id string) string {
	f.record("download_url")
	return "http://backend.test/pdfs/" + id + "/download"
}

// remove deletes a document behind the client's back.
func (f *fakeBackend) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.docs {
		if d.ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return
		}
	}
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
