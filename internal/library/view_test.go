package library_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/research-library/internal/backend"
	"github.com/JaimeStill/research-library/internal/library"
	"github.com/JaimeStill/research-library/pkg/logging"
)

func newView(t *testing.T, fb *fakeBackend, opts library.Options) *library.View {
	t.Helper()
	store := library.NewStore(fb, logging.Discard(), nil)
	v, err := library.NewView(store, fb, opts, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(v.Close)
	require.NoError(t, v.Load(context.Background()))
	return v
}

func TestNewView_SelectRequiresOwner(t *testing.T) {
	fb := newFakeBackend()
	store := library.NewStore(fb, logging.Discard(), nil)

	_, err := library.NewView(store, fb, library.Options{Mode: library.ModeSelect}, logging.Discard())
	assert.Error(t, err)

	_, err = library.NewView(store, fb, library.Options{Mode: "grid"}, logging.Discard())
	assert.Error(t, err)
}

func TestView_NonPDFNeverUploads(t *testing.T) {
	fb := newFakeBackend()
	v := newView(t, fb, library.Options{})
	v.Model()

	err := v.SelectFile(library.FileSelection{Name: "notes.txt", ContentType: "text/plain", Data: []byte("plain text")})
	assert.ErrorIs(t, err, library.ErrValidation)

	m := v.Model()
	assert.Nil(t, m.Dialog, "no draft is opened")
	require.Len(t, m.Notices, 1)
	assert.Equal(t, library.KindValidation, m.Notices[0].Kind)
	assert.Equal(t, library.LevelError, m.Notices[0].Level)
	assert.Equal(t, 0, fb.count("upload"))
}

func TestView_UploadFlow(t *testing.T) {
	fb := newFakeBackend()
	v := newView(t, fb, library.Options{})

	require.NoError(t, v.SelectFile(library.FileSelection{Name: "thesis.pdf", ContentType: "application/pdf", Data: pdfData}))

	m := v.Model()
	require.NotNil(t, m.Dialog)
	assert.Equal(t, library.ModeCreate, m.Dialog.Mode)
	assert.Equal(t, "thesis", m.Dialog.Draft.Title)

	require.NoError(t, v.UpdateDraft(library.Draft{Title: "thesis", TagsRaw: "research, academic"}))

	lists := fb.count("list")
	require.NoError(t, v.CommitDraft(context.Background()))
	assert.Equal(t, lists+1, fb.count("list"), "exactly one refresh follows the upload")

	m = v.Model()
	assert.Nil(t, m.Dialog)
	require.Len(t, m.Cards, 1)
	assert.Equal(t, "thesis", m.Cards[0].Title)
	assert.Equal(t, []string{"research", "academic"}, m.Cards[0].Tags)
	require.Len(t, m.Notices, 1)
	assert.Equal(t, library.LevelSuccess, m.Notices[0].Level)
}

func TestView_PartialUploadWarns(t *testing.T) {
	fb := newFakeBackend()
	fb.uploadStatus = backend.StatusPartialSuccess
	fb.uploadMessage = "PDF uploaded but processing failed: no text layer"
	v := newView(t, fb, library.Options{})

	require.NoError(t, v.SelectFile(library.FileSelection{Name: "thesis.pdf", Data: pdfData}))
	require.NoError(t, v.CommitDraft(context.Background()))

	m := v.Model()
	require.Len(t, m.Cards, 1, "the stored file is still listed")
	require.Len(t, m.Notices, 1)
	assert.Equal(t, library.LevelWarning, m.Notices[0].Level)
	assert.Equal(t, library.KindBackend, m.Notices[0].Kind)
	assert.Contains(t, m.Notices[0].Message, "no text layer")
}

func TestView_OversizeFileRejected(t *testing.T) {
	fb := newFakeBackend()
	v := newView(t, fb, library.Options{MaxUploadSize: 8})

	err := v.SelectFile(library.FileSelection{Name: "thesis.pdf", Data: pdfData})
	assert.ErrorIs(t, err, library.ErrValidation)
	assert.Equal(t, 0, fb.count("upload"))
}

func TestView_CommitBlankTitle(t *testing.T) {
	fb := newFakeBackend()
	v := newView(t, fb, library.Options{})

	require.NoError(t, v.SelectFile(library.FileSelection{Name: "thesis.pdf", Data: pdfData}))
	require.NoError(t, v.UpdateDraft(library.Draft{Title: "  "}))

	err := v.CommitDraft(context.Background())
	assert.ErrorIs(t, err, library.ErrValidation)
	assert.Equal(t, 0, fb.count("upload"))
	assert.NotNil(t, v.Model().Dialog, "draft stays open for correction")
}

func TestView_EditFlow(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis", "research"), doc("a2", "Notes"))
	v := newView(t, fb, library.Options{})

	require.NoError(t, v.BeginEdit("b1"))
	m := v.Model()
	require.NotNil(t, m.Dialog)
	assert.Equal(t, "research", m.Dialog.Draft.TagsRaw)

	require.NoError(t, v.UpdateDraft(library.Draft{Title: "Thesis v2", Description: "revised", TagsRaw: "research, final"}))

	lists := fb.count("list")
	require.NoError(t, v.CommitDraft(context.Background()))
	assert.Equal(t, lists+1, fb.count("list"))

	m = v.Model()
	require.Len(t, m.Cards, 2)
	assert.Equal(t, "b1", m.Cards[0].ID)
	assert.Equal(t, "Thesis v2", m.Cards[0].Title)
	assert.Equal(t, []string{"research", "final"}, m.Cards[0].Tags)
}

func TestView_EditUnknownDocument(t *testing.T) {
	fb := newFakeBackend()
	v := newView(t, fb, library.Options{})

	assert.ErrorIs(t, v.BeginEdit("ghost"), library.ErrUnknownDocument)
	assert.Nil(t, v.Model().Dialog)
}

func TestView_DeleteIsTwoStep(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"), doc("a2", "Notes"))
	v := newView(t, fb, library.Options{})

	require.NoError(t, v.RequestDelete("b1"))
	assert.Equal(t, 0, fb.count("delete"), "request alone never deletes")

	m := v.Model()
	require.NotNil(t, m.PendingDelete)
	assert.Equal(t, "b1", m.PendingDelete.ID)

	v.CancelDelete()
	assert.Nil(t, v.Model().PendingDelete)
	assert.ErrorIs(t, v.ConfirmDelete(context.Background()), library.ErrNoPendingDelete)
	assert.Equal(t, 0, fb.count("delete"))

	require.NoError(t, v.RequestDelete("b1"))
	lists := fb.count("list")
	require.NoError(t, v.ConfirmDelete(context.Background()))

	assert.Equal(t, 1, fb.count("delete"))
	assert.Equal(t, lists+1, fb.count("list"), "exactly one refresh follows the delete")

	m = v.Model()
	assert.Nil(t, m.PendingDelete)
	require.Len(t, m.Cards, 1)
	assert.Equal(t, "a2", m.Cards[0].ID)
}

func TestView_DeleteAlreadyDeleted(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"), doc("a2", "Notes"))
	v := newView(t, fb, library.Options{})
	v.Model()

	fb.remove("b1")

	require.NoError(t, v.RequestDelete("b1"))
	lists := fb.count("list")
	err := v.ConfirmDelete(context.Background())

	assert.ErrorIs(t, err, backend.ErrNotFound)
	assert.Equal(t, lists, fb.count("list"), "a failed delete does not refresh")

	m := v.Model()
	require.Len(t, m.Notices, 1)
	assert.Equal(t, library.KindBackend, m.Notices[0].Kind)

	require.Len(t, m.Cards, 2, "other cards are unchanged")
	assert.Equal(t, "b1", m.Cards[0].ID)
	assert.Equal(t, "a2", m.Cards[1].ID)
}

func TestView_DeleteAbsentFromStore(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"), doc("a2", "Notes"))
	v := newView(t, fb, library.Options{})
	v.Model()

	require.NoError(t, v.RequestDelete("ghost"))
	pending := v.PendingDelete()
	require.NotNil(t, pending)
	assert.Equal(t, "ghost", pending.Title)

	err := v.ConfirmDelete(context.Background())
	assert.ErrorIs(t, err, backend.ErrNotFound)
	assert.Equal(t, 1, fb.count("delete"), "the backend decides what exists")

	m := v.Model()
	require.Len(t, m.Notices, 1)
	assert.Equal(t, library.KindBackend, m.Notices[0].Kind)
	assert.Len(t, m.Cards, 2)
}

func TestView_SecondUploadIsBusy(t *testing.T) {
	fb := newFakeBackend()
	fb.block = make(chan struct{})
	fb.started = make(chan struct{}, 1)
	v := newView(t, fb, library.Options{})

	require.NoError(t, v.SelectFile(library.FileSelection{Name: "one.pdf", Data: pdfData}))

	done := make(chan error, 1)
	go func() { done <- v.CommitDraft(context.Background()) }()
	<-fb.started

	m := v.Model()
	assert.True(t, m.Uploading)
	assert.True(t, m.UploadDisabled)

	assert.ErrorIs(t, v.SelectFile(library.FileSelection{Name: "two.pdf", Data: pdfData}), library.ErrBusy)
	assert.ErrorIs(t, v.CommitDraft(context.Background()), library.ErrBusy)

	close(fb.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, fb.count("upload"))
	assert.False(t, v.Model().UploadDisabled)
}

func TestView_CancelDraftAbortsCommit(t *testing.T) {
	fb := newFakeBackend()
	fb.block = make(chan struct{})
	fb.started = make(chan struct{}, 1)
	v := newView(t, fb, library.Options{})

	require.NoError(t, v.SelectFile(library.FileSelection{Name: "thesis.pdf", Data: pdfData}))

	done := make(chan error, 1)
	go func() { done <- v.CommitDraft(context.Background()) }()
	<-fb.started

	lists := fb.count("list")
	v.CancelDraft()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, library.KindCanceled, library.Classify(err))
	assert.Equal(t, lists, fb.count("list"))

	m := v.Model()
	assert.Nil(t, m.Dialog)
	assert.Empty(t, m.Cards, "nothing was stored")
	require.Len(t, m.Notices, 1)
	assert.Equal(t, library.LevelInfo, m.Notices[0].Level)
}

func TestView_CancelDraftSparesEarlierCommit(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"))
	fb.block = make(chan struct{})
	fb.started = make(chan struct{}, 1)
	v := newView(t, fb, library.Options{})

	require.NoError(t, v.SelectFile(library.FileSelection{Name: "first.pdf", Data: pdfData}))

	done := make(chan error, 1)
	go func() { done <- v.CommitDraft(context.Background()) }()
	<-fb.started

	require.NoError(t, v.BeginEdit("b1"))
	v.CancelDraft()
	assert.Nil(t, v.Dialog())

	close(fb.block)
	require.NoError(t, <-done, "the replaced draft's upload completes")
	assert.Len(t, v.Model().Cards, 2)
}

func TestView_CloseCancelsInFlight(t *testing.T) {
	fb := newFakeBackend()
	fb.block = make(chan struct{})
	fb.started = make(chan struct{}, 1)
	store := library.NewStore(fb, logging.Discard(), nil)
	v, err := library.NewView(store, fb, library.Options{}, logging.Discard())
	require.NoError(t, err)

	require.NoError(t, v.SelectFile(library.FileSelection{Name: "thesis.pdf", Data: pdfData}))

	done := make(chan error, 1)
	go func() { done <- v.CommitDraft(context.Background()) }()
	<-fb.started

	v.Close()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.ErrorIs(t, v.Refresh(context.Background()), library.ErrClosed)
}

func TestView_RefreshFailureKeepsCards(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"))
	v := newView(t, fb, library.Options{})

	fb.listErr = errors.Join(backend.ErrNetwork, backend.ErrList)
	assert.Error(t, v.Refresh(context.Background()))

	m := v.Model()
	assert.Equal(t, library.StatusError, m.Status)
	assert.NotEmpty(t, m.Error)
	require.Len(t, m.Cards, 1)
	require.Len(t, m.Notices, 1)
	assert.Equal(t, library.KindNetwork, m.Notices[0].Kind)
}

func TestView_SetTagFilter(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis", "research"), doc("a2", "Notes"))
	v := newView(t, fb, library.Options{})

	require.NoError(t, v.SetTagFilter(context.Background(), "research"))

	m := v.Model()
	assert.Equal(t, "research", m.Tag)
	require.Len(t, m.Cards, 1)
	assert.Equal(t, "b1", m.Cards[0].ID)
}

func TestView_DownloadURLIsPure(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"))
	v := newView(t, fb, library.Options{})
	lists := fb.count("list")

	first, err := v.DownloadURL("b1")
	require.NoError(t, err)
	second, err := v.DownloadURL("b1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, lists, fb.count("list"))
	assert.Equal(t, 0, fb.count("delete")+fb.count("update")+fb.count("upload"))
}

func TestView_SelectMode(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"), doc("a2", "Notes"))
	owner := &countingOwner{}
	v := newView(t, fb, library.Options{Mode: library.ModeSelect, Owner: owner})

	m := v.Model()
	assert.True(t, m.UploadDisabled)
	for _, c := range m.Cards {
		assert.True(t, c.CanSelect)
		assert.False(t, c.CanEdit)
		assert.False(t, c.CanDelete)
		assert.False(t, c.CanDownload)
	}

	assert.ErrorIs(t, v.BeginEdit("b1"), library.ErrSelectionMode)
	assert.ErrorIs(t, v.RequestDelete("b1"), library.ErrSelectionMode)
	_, err := v.DownloadURL("b1")
	assert.ErrorIs(t, err, library.ErrSelectionMode)
	assert.ErrorIs(t, v.SelectFile(library.FileSelection{Name: "x.pdf", Data: pdfData}), library.ErrSelectionMode)

	_, err = v.Toggle("a2")
	require.NoError(t, err)
	_, err = v.Toggle("a2")
	require.NoError(t, err)
	sel, err := v.Toggle("b1")
	require.NoError(t, err)

	assert.Equal(t, []string{"b1"}, sel.IDs())
	assert.Len(t, owner.emitted, 3)

	m = v.Model()
	assert.Equal(t, 1, m.Selected)
	assert.True(t, m.Cards[0].Selected)
	assert.False(t, m.Cards[1].Selected)
}

func TestView_ToggleRequiresSelectMode(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"))
	v := newView(t, fb, library.Options{})

	_, err := v.Toggle("b1")
	assert.ErrorIs(t, err, library.ErrNotSelecting)
}

func TestView_ModelTruncatesDescriptions(t *testing.T) {
	long := doc("b1", "Thesis")
	long.Description = strings.Repeat("word ", 50)
	short := doc("a2", "Notes")
	short.Description = "brief"
	chunks := 42
	short.Metadata.ChunkCount = &chunks

	fb := newFakeBackend(long, short)
	v := newView(t, fb, library.Options{DescriptionWidth: 20})

	m := v.Model()
	require.Len(t, m.Cards, 2)

	assert.True(t, m.Cards[0].Truncated)
	assert.True(t, strings.HasSuffix(m.Cards[0].Description, "…"))
	assert.LessOrEqual(t, len([]rune(m.Cards[0].Description)), 20)

	assert.False(t, m.Cards[1].Truncated)
	assert.Equal(t, "brief", m.Cards[1].Description)
	require.NotNil(t, m.Cards[1].ChunkCount)
	assert.Equal(t, 42, *m.Cards[1].ChunkCount)
}

func TestView_NoticesDrain(t *testing.T) {
	fb := newFakeBackend()
	v := newView(t, fb, library.Options{})

	v.Notify(library.LevelInfo, "hello")
	assert.Len(t, v.Model().Notices, 1)
	assert.Empty(t, v.Model().Notices)
}

func TestView_AccessorsKeepNotices(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"))
	v := newView(t, fb, library.Options{})
	v.Model()

	require.NoError(t, v.BeginEdit("b1"))
	require.NoError(t, v.RequestDelete("b1"))
	v.Notify(library.LevelInfo, "queued")

	require.NotNil(t, v.Dialog())
	assert.Equal(t, "Thesis", v.Dialog().Draft.Title)
	require.NotNil(t, v.PendingDelete())
	assert.Equal(t, "b1", v.PendingDelete().ID)

	assert.Len(t, v.Model().Notices, 1)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want library.Kind
	}{
		{"nil", nil, ""},
		{"validation", &library.ValidationError{Field: "title", Message: "required"}, library.KindValidation},
		{"busy", library.ErrBusy, library.KindValidation},
		{"network", backend.ErrNetwork, library.KindNetwork},
		{"deadline", context.DeadlineExceeded, library.KindNetwork},
		{"backend", errors.Join(backend.ErrBackend, backend.ErrDelete), library.KindBackend},
		{"canceled network", errors.Join(backend.ErrNetwork, context.Canceled), library.KindCanceled},
		{"other", errors.New("boom"), library.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, library.Classify(tt.err))
		})
	}
}
