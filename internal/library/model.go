package library

import (
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/JaimeStill/research-library/internal/backend"
)

const defaultDescriptionWidth = 140

// LibraryModel is everything needed to render one frame of a View.
type LibraryModel struct {
	Mode   ViewMode
	Status Status
	Error  string
	Tag    string

	Loading        bool
	Uploading      bool
	Saving         bool
	Deleting       bool
	UploadDisabled bool

	Cards    []Card
	Selected int

	Dialog        *Dialog
	PendingDelete *PendingDelete
	Notices       []Notice
}

// Empty reports whether there is nothing to list.
func (m LibraryModel) Empty() bool {
	return len(m.Cards) == 0
}

// Card is one document as displayed.
type Card struct {
	ID          string
	Title       string
	Filename    string
	Description string
	Truncated   bool
	Tags        []string
	UploadedAt  time.Time
	ChunkCount  *int
	Selected    bool

	CanEdit     bool
	CanDelete   bool
	CanDownload bool
	CanSelect   bool
}

// PendingDelete is a delete awaiting confirmation.
type PendingDelete struct {
	ID    string
	Title string
}

// Model renders the current state. Queued notices are drained into the model.
func (v *View) Model() LibraryModel {
	status := v.store.Status()

	m := LibraryModel{
		Mode:      v.opts.Mode,
		Status:    status,
		Tag:       v.store.TagFilter(),
		Loading:   status == StatusLoading || v.tasks.Busy(TaskRefresh),
		Uploading: v.tasks.Busy(TaskUpload),
		Saving:    v.tasks.Busy(TaskUpdate),
		Deleting:  v.tasks.Busy(TaskDelete),
	}
	m.UploadDisabled = m.Uploading || v.opts.Mode == ModeSelect

	if err := v.store.Err(); err != nil {
		m.Error = Message(err)
	}

	var selection Selection
	if v.picker != nil {
		selection = v.picker.Selection()
	}
	m.Selected = selection.Len()

	width := v.opts.DescriptionWidth
	if width <= 0 {
		width = defaultDescriptionWidth
	}

	docs := v.store.Documents()
	m.Cards = make([]Card, 0, len(docs))
	for _, d := range docs {
		m.Cards = append(m.Cards, v.card(d, selection, width))
	}

	m.Dialog = v.Dialog()
	m.PendingDelete = v.PendingDelete()
	m.Notices = v.notices.Drain()
	return m
}

// Dialog returns the open draft, or nil. Unlike Model it leaves notices queued.
func (v *View) Dialog() *Dialog {
	if v.opts.Mode != ModeBrowse {
		return nil
	}
	return v.editor.Dialog()
}

// PendingDelete returns the delete awaiting confirmation, or nil.
func (v *View) PendingDelete() *PendingDelete {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.pending == nil {
		return nil
	}
	return &PendingDelete{ID: v.pending.ID, Title: cardTitle(*v.pending)}
}

func (v *View) card(d backend.Document, selection Selection, width int) Card {
	browse := v.opts.Mode == ModeBrowse

	description := runewidth.Truncate(d.Description, width, "…")

	return Card{
		ID:          d.ID,
		Title:       cardTitle(d),
		Filename:    d.Filename,
		Description: description,
		Truncated:   description != d.Description,
		Tags:        d.Tags,
		UploadedAt:  d.UploadedAt.Time,
		ChunkCount:  d.Metadata.ChunkCount,
		Selected:    selection.Contains(d.ID),
		CanEdit:     browse,
		CanDelete:   browse,
		CanDownload: browse,
		CanSelect:   !browse,
	}
}

func cardTitle(d backend.Document) string {
	switch {
	case d.Title != "":
		return d.Title
	case d.Filename != "":
		return d.Filename
	default:
		return d.ID
	}
}
