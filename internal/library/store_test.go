package library_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/research-library/internal/backend"
	"github.com/JaimeStill/research-library/internal/library"
	"github.com/JaimeStill/research-library/pkg/logging"
)

type refreshRecorder struct {
	mu     sync.Mutex
	counts []int
	errs   []error
}

func (r *refreshRecorder) ObserveRefresh(count int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, count)
	r.errs = append(r.errs, err)
}

func TestStore_Refresh(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"), doc("a2", "Notes"))
	rec := &refreshRecorder{}
	store := library.NewStore(fb, logging.Discard(), rec)

	assert.Equal(t, library.StatusIdle, store.Status())
	assert.False(t, store.Loaded())
	assert.Empty(t, store.Documents())

	require.NoError(t, store.Refresh(context.Background()))

	docs := store.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "b1", docs[0].ID, "backend order is preserved")
	assert.Equal(t, "a2", docs[1].ID)
	assert.True(t, store.Loaded())
	assert.Equal(t, 1, fb.count("list"))
	assert.Equal(t, []int{2}, rec.counts)
}

func TestStore_RefreshFailureKeepsSnapshot(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"))
	store := library.NewStore(fb, logging.Discard(), nil)
	require.NoError(t, store.Refresh(context.Background()))

	fb.listErr = errors.Join(backend.ErrNetwork, backend.ErrList)
	err := store.Refresh(context.Background())

	assert.ErrorIs(t, err, backend.ErrNetwork)
	assert.Equal(t, library.StatusError, store.Status())
	assert.ErrorIs(t, store.Err(), backend.ErrNetwork)
	require.Len(t, store.Documents(), 1, "stale list is kept")

	fb.listErr = nil
	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, library.StatusIdle, store.Status())
	assert.NoError(t, store.Err())
}

func TestStore_EveryRefreshHitsBackend(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"))
	store := library.NewStore(fb, logging.Discard(), nil)

	var wg sync.WaitGroup
	for range 5 {
		wg.Go(func() {
			store.Refresh(context.Background())
		})
	}
	wg.Wait()

	assert.Equal(t, 5, fb.count("list"))
	assert.Equal(t, library.StatusIdle, store.Status())
}

func TestStore_TagFilter(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis", "research"), doc("a2", "Notes", "personal"))
	store := library.NewStore(fb, logging.Discard(), nil)

	store.SetTagFilter("research")
	require.NoError(t, store.Refresh(context.Background()))

	assert.Equal(t, "research", store.TagFilter())
	docs := store.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "b1", docs[0].ID)
}

func TestStore_Find(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"))
	store := library.NewStore(fb, logging.Discard(), nil)
	require.NoError(t, store.Refresh(context.Background()))

	d, ok := store.Find("b1")
	assert.True(t, ok)
	assert.Equal(t, "Thesis", d.Title)

	_, ok = store.Find("missing")
	assert.False(t, ok)
}

func TestStore_DocumentsIsACopy(t *testing.T) {
	fb := newFakeBackend(doc("b1", "Thesis"))
	store := library.NewStore(fb, logging.Discard(), nil)
	require.NoError(t, store.Refresh(context.Background()))

	docs := store.Documents()
	docs[0].Title = "mutated"

	d, _ := store.Find("b1")
	assert.Equal(t, "Thesis", d.Title)
}
