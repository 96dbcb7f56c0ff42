package library

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/JaimeStill/research-library/internal/backend"
)

// DialogMode is the state of the metadata editor.
type DialogMode string

const (
	ModeClosed DialogMode = "closed"
	ModeCreate DialogMode = "create"
	ModeEdit   DialogMode = "edit"
)

// Draft is the editable form state. It exists only while the editor is open.
type Draft struct {
	Title       string
	Description string
	TagsRaw     string
}

// Dialog is a snapshot of an open editor.
type Dialog struct {
	Mode       DialogMode
	Draft      Draft
	DocumentID string
	Filename   string
	FileSize   string
	PageCount  *int
	CanCommit  bool
}

// Committed reports a successful create or update. RefreshErr is set when the
// mutation succeeded but the follow-up refresh did not.
type Committed struct {
	Mode       DialogMode
	ID         string
	Title      string
	Status     string
	Message    string
	Note       string
	RefreshErr error
}

// Partial reports an upload the backend stored but could not index.
func (c *Committed) Partial() bool {
	return c.Status == backend.StatusPartialSuccess
}

// Editor owns the create and edit flows. One draft is open at a time.
type Editor struct {
	backend Backend
	store   *Store
	logger  *slog.Logger

	mu      sync.Mutex
	mode    DialogMode
	draft   Draft
	file    FileSelection
	pages   *int
	doc     backend.Document
	session uint64
	commits map[uint64]context.CancelFunc
}

// NewEditor creates a closed editor that refreshes store after each commit.
func NewEditor(b Backend, store *Store, logger *slog.Logger) *Editor {
	return &Editor{
		backend: b,
		store:   store,
		logger:  logger.With("system", "editor"),
		mode:    ModeClosed,
		commits: make(map[uint64]context.CancelFunc),
	}
}

// OpenCreate starts a create draft for file, replacing any open draft. The
// title is pre-filled from the file name.
func (e *Editor) OpenCreate(file FileSelection) {
	pages := pageCount(file.Data, e.logger)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.session++
	e.mode = ModeCreate
	e.file = file
	e.pages = pages
	e.doc = backend.Document{}
	e.draft = Draft{Title: TitleFromFilename(file.Name)}
}

// OpenEdit starts an edit draft pre-filled from doc, replacing any open draft.
func (e *Editor) OpenEdit(doc backend.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session++
	e.mode = ModeEdit
	e.file = FileSelection{}
	e.pages = nil
	e.doc = doc
	e.draft = Draft{
		Title:       doc.Title,
		Description: doc.Description,
		TagsRaw:     RenderTags(doc.Tags),
	}
}

// SetDraft replaces the form state of the open draft.
func (e *Editor) SetDraft(d Draft) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ModeClosed {
		return ErrNoDraft
	}
	e.draft = d
	return nil
}

// Mode returns the current editor mode.
func (e *Editor) Mode() DialogMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Draft returns the open draft.
func (e *Editor) Draft() (Draft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft, e.mode != ModeClosed
}

// CanCommit reports whether the open draft has a non-blank title.
func (e *Editor) CanCommit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode != ModeClosed && strings.TrimSpace(e.draft.Title) != ""
}

// Dialog returns a snapshot of the open editor, or nil when closed.
func (e *Editor) Dialog() *Dialog {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ModeClosed {
		return nil
	}

	d := &Dialog{
		Mode:      e.mode,
		Draft:     e.draft,
		PageCount: e.pages,
		CanCommit: strings.TrimSpace(e.draft.Title) != "",
	}
	switch e.mode {
	case ModeCreate:
		d.Filename = e.file.Name
		d.FileSize = e.file.HumanSize()
	case ModeEdit:
		d.DocumentID = e.doc.ID
		d.Filename = e.doc.Filename
	}
	return d
}

// Commit sends the open draft to the backend and, on success, closes the
// editor and refreshes the store. On failure the draft stays open and intact.
// A result that arrives after the editor was cancelled or reopened leaves the
// new session alone.
func (e *Editor) Commit(ctx context.Context) (*Committed, error) {
	e.mu.Lock()
	if e.mode == ModeClosed {
		e.mu.Unlock()
		return nil, ErrNoDraft
	}
	session := e.session
	mode := e.mode
	draft := e.draft
	file := e.file
	id := e.doc.ID

	ctx, cancel := context.WithCancel(ctx)
	e.commits[session] = cancel
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.commits, session)
		e.mu.Unlock()
		cancel()
	}()

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}
	description := draft.Description
	tags := ParseTags(draft.TagsRaw)

	committed := &Committed{Mode: mode, Title: title}

	switch mode {
	case ModeCreate:
		result, err := e.backend.Upload(ctx, backend.UploadRequest{
			Filename:    file.Name,
			Content:     file.Data,
			Title:       &title,
			Description: &description,
			Tags:        tags,
		})
		if err != nil {
			return nil, err
		}
		committed.ID = result.ID
		committed.Status = result.Status
		committed.Message = result.Message
		committed.Note = result.Note
		if result.Title != "" {
			committed.Title = result.Title
		}
	case ModeEdit:
		result, err := e.backend.Update(ctx, id, backend.UpdateRequest{
			Title:       &title,
			Description: &description,
			Tags:        &tags,
		})
		if err != nil {
			return nil, err
		}
		committed.ID = id
		committed.Status = result.Status
		committed.Message = result.Message
	}

	e.mu.Lock()
	if e.session == session {
		e.close()
	}
	e.mu.Unlock()

	e.logger.Info("draft committed", "mode", mode, "id", committed.ID)
	committed.RefreshErr = e.store.Refresh(ctx)
	return committed, nil
}

// Cancel discards the open draft unconditionally and aborts its commit, if
// one is running. Commits of earlier drafts are left alone. It reports
// whether a commit was aborted.
func (e *Editor) Cancel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cancel, ok := e.commits[e.session]
	if ok {
		cancel()
	}
	e.session++
	e.close()
	return ok
}

func (e *Editor) close() {
	e.mode = ModeClosed
	e.draft = Draft{}
	e.file = FileSelection{}
	e.pages = nil
	e.doc = backend.Document{}
}
