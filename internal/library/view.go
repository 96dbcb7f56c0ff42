package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/JaimeStill/research-library/internal/backend"
)

// ViewMode selects which card actions a view offers.
type ViewMode string

const (
	// ModeBrowse offers upload, edit, delete, and download.
	ModeBrowse ViewMode = "browse"
	// ModeSelect offers only selection toggling on behalf of a SelectionOwner.
	ModeSelect ViewMode = "select"
)

// Options configures a View.
type Options struct {
	Mode ViewMode

	// Owner receives selection changes. Required in ModeSelect.
	Owner SelectionOwner

	// MaxUploadSize rejects larger files before upload. Zero disables the check.
	MaxUploadSize int64

	// DescriptionWidth is the display width card descriptions are cut to.
	DescriptionWidth int
}

// View coordinates the store, editor, and picker behind one library screen.
// Every action reports its own failure as a Notice and returns the error.
type View struct {
	store   *Store
	backend Backend
	editor  *Editor
	picker  *Picker
	tasks   *Tasks
	notices Notices
	opts    Options
	logger  *slog.Logger

	mu      sync.Mutex
	pending *backend.Document
}

// NewView creates a view over a store that may be shared with other views.
func NewView(store *Store, b Backend, opts Options, logger *slog.Logger) (*View, error) {
	if opts.Mode == "" {
		opts.Mode = ModeBrowse
	}
	if opts.Mode != ModeBrowse && opts.Mode != ModeSelect {
		return nil, fmt.Errorf("unknown view mode %q", opts.Mode)
	}
	if opts.Mode == ModeSelect && opts.Owner == nil {
		return nil, errors.New("select mode requires a selection owner")
	}

	logger = logger.With("system", "view", "mode", opts.Mode)

	v := &View{
		store:   store,
		backend: b,
		editor:  NewEditor(b, store, logger),
		tasks:   NewTasks(logger),
		opts:    opts,
		logger:  logger,
	}
	if opts.Owner != nil {
		v.picker = NewPicker(opts.Owner)
	}
	return v, nil
}

func (v *View) Mode() ViewMode {
	return v.opts.Mode
}

func (v *View) Store() *Store {
	return v.store
}

// Load performs the initial refresh.
func (v *View) Load(ctx context.Context) error {
	return v.refresh(ctx, "load library")
}

// Refresh reloads the library from the backend.
func (v *View) Refresh(ctx context.Context) error {
	return v.refresh(ctx, "refresh library")
}

// SetTagFilter changes the tag filter and reloads.
func (v *View) SetTagFilter(ctx context.Context, tag string) error {
	v.store.SetTagFilter(tag)
	return v.refresh(ctx, "filter library")
}

// SelectFile validates a picked file and opens a create draft for it.
// Invalid files never reach the backend.
func (v *View) SelectFile(file FileSelection) error {
	const action = "select file"

	if v.opts.Mode == ModeSelect {
		return v.fail(action, ErrSelectionMode)
	}
	if v.tasks.Busy(TaskUpload) {
		return v.fail(action, ErrBusy)
	}
	if err := ValidateFile(file, v.opts.MaxUploadSize); err != nil {
		return v.fail(action, err)
	}

	v.editor.OpenCreate(file)
	return nil
}

// BeginEdit opens an edit draft for a document in the current snapshot.
func (v *View) BeginEdit(id string) error {
	const action = "edit document"

	if v.opts.Mode == ModeSelect {
		return v.fail(action, ErrSelectionMode)
	}
	doc, ok := v.store.Find(id)
	if !ok {
		return v.fail(action, ErrUnknownDocument)
	}

	v.editor.OpenEdit(doc)
	return nil
}

// UpdateDraft replaces the open draft's form state.
func (v *View) UpdateDraft(d Draft) error {
	if err := v.editor.SetDraft(d); err != nil {
		return v.fail("update draft", err)
	}
	return nil
}

// CommitDraft uploads or updates the open draft. Only one upload and one
// update may be in flight; CancelDraft aborts it.
func (v *View) CommitDraft(ctx context.Context) error {
	kind := TaskUpload
	action := "upload document"

	switch v.editor.Mode() {
	case ModeClosed:
		return v.fail("save document", ErrNoDraft)
	case ModeEdit:
		kind = TaskUpdate
		action = "save document"
	}

	if !v.editor.CanCommit() {
		return v.fail(action, invalid("title", "title is required"))
	}

	task, err := v.tasks.Begin(ctx, kind)
	if err != nil {
		return v.fail(action, err)
	}
	defer v.tasks.End(task)

	committed, err := v.editor.Commit(task.Context())
	if err != nil {
		return v.fail(action, err)
	}

	switch {
	case committed.Partial():
		msg := committed.Message
		if msg == "" {
			msg = "stored but not indexed"
		}
		v.notices.Push(LevelWarning, KindBackend, fmt.Sprintf("Uploaded %q: %s", committed.Title, msg))
	case committed.Mode == ModeCreate && committed.Note != "":
		v.notices.Push(LevelWarning, "", fmt.Sprintf("Uploaded %q: %s", committed.Title, committed.Note))
	case committed.Mode == ModeCreate:
		v.notices.Push(LevelSuccess, "", fmt.Sprintf("Uploaded %q", committed.Title))
	default:
		v.notices.Push(LevelSuccess, "", fmt.Sprintf("Saved %q", committed.Title))
	}

	if committed.RefreshErr != nil {
		v.fail("refresh library", committed.RefreshErr)
	}
	return nil
}

// CancelDraft discards the draft and aborts its upload or update if one is
// in flight. Commits of drafts that were already replaced keep running.
func (v *View) CancelDraft() {
	if v.editor.Cancel() {
		v.logger.Info("cancelled in-flight commit")
	}
}

// RequestDelete asks for confirmation before deleting a document. An id the
// snapshot no longer holds still goes to the backend on confirmation, so a
// concurrent delete surfaces as the backend's not-found answer.
func (v *View) RequestDelete(id string) error {
	const action = "delete document"

	if v.opts.Mode == ModeSelect {
		return v.fail(action, ErrSelectionMode)
	}
	if id == "" {
		return v.fail(action, ErrUnknownDocument)
	}
	doc, ok := v.store.Find(id)
	if !ok {
		doc = backend.Document{ID: id}
	}

	v.mu.Lock()
	v.pending = &doc
	v.mu.Unlock()
	return nil
}

// ConfirmDelete deletes the pending document. A failure leaves the store as
// it was; a success refreshes it.
func (v *View) ConfirmDelete(ctx context.Context) error {
	const action = "delete document"

	v.mu.Lock()
	doc := v.pending
	v.mu.Unlock()

	if doc == nil {
		return v.fail(action, ErrNoPendingDelete)
	}

	task, err := v.tasks.Begin(ctx, TaskDelete)
	if err != nil {
		return v.fail(action, err)
	}
	defer v.tasks.End(task)

	v.mu.Lock()
	v.pending = nil
	v.mu.Unlock()

	if _, err := v.backend.Delete(task.Context(), doc.ID); err != nil {
		return v.fail(action, err)
	}

	v.logger.Info("document deleted", "id", doc.ID)
	v.notices.Push(LevelSuccess, "", fmt.Sprintf("Deleted %q", cardTitle(*doc)))

	if err := v.store.Refresh(task.Context()); err != nil {
		v.fail("refresh library", err)
	}
	return nil
}

// CancelDelete dismisses the confirmation.
func (v *View) CancelDelete() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = nil
}

// DownloadURL returns where a document's file can be fetched. It performs no I/O.
func (v *View) DownloadURL(id string) (string, error) {
	if v.opts.Mode == ModeSelect {
		return "", v.fail("download document", ErrSelectionMode)
	}
	return v.backend.DownloadURL(id), nil
}

// Toggle flips a document's membership in the owner's selection.
func (v *View) Toggle(id string) (Selection, error) {
	if v.opts.Mode != ModeSelect {
		return Selection{}, v.fail("select document", ErrNotSelecting)
	}
	return v.picker.Toggle(id), nil
}

// Report records the failure of an action performed on behalf of this view.
func (v *View) Report(action string, err error) {
	v.fail(action, err)
}

// Notify queues an informational notice.
func (v *View) Notify(level Level, message string) {
	v.notices.Push(level, "", message)
}

// Close aborts every running task and discards the draft. Later actions
// that start a task fail with ErrClosed.
func (v *View) Close() {
	v.tasks.Close()
	v.editor.Cancel()
	v.CancelDelete()
}

func (v *View) refresh(ctx context.Context, action string) error {
	task, err := v.tasks.Begin(ctx, TaskRefresh)
	if err != nil {
		return v.fail(action, err)
	}
	defer v.tasks.End(task)

	if err := v.store.Refresh(task.Context()); err != nil {
		return v.fail(action, err)
	}
	return nil
}

func (v *View) fail(action string, err error) error {
	kind := Classify(err)

	if kind == KindCanceled {
		v.logger.Info(action+" cancelled")
		v.notices.Push(LevelInfo, kind, fmt.Sprintf("%s cancelled", capitalize(action)))
		return err
	}

	attrs := []any{"action", action, "kind", kind, "error", err}
	var be *backend.Error
	if errors.As(err, &be) {
		attrs = append(attrs, "op", be.Op, "status", be.Status)
	}
	v.logger.Warn("action failed", attrs...)

	v.notices.Push(LevelError, kind, fmt.Sprintf("Could not %s: %s", action, Message(err)))
	return err
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var be *backend.Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return err.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
