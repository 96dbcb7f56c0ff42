package library

import (
	"context"

	"github.com/JaimeStill/research-library/internal/backend"
)

// Backend is the subset of the backend client the library drives.
// *backend.Client satisfies it.
type Backend interface {
	Upload(ctx context.Context, req backend.UploadRequest) (*backend.UploadResult, error)
	List(ctx context.Context, tag string) (*backend.ListResult, error)
	Update(ctx context.Context, id string, req backend.UpdateRequest) (*backend.UpdateResult, error)
	Delete(ctx context.Context, id string) (*backend.DeleteResult, error)
	Query(ctx context.Context, text string, ids []string) (*backend.QueryResult, error)
	DownloadURL(id string) string
}

var _ Backend = (*backend.Client)(nil)

// ShelfBackend is the subset of the backend client that writes to the draft
// shelf. *backend.Client satisfies it.
type ShelfBackend interface {
	SaveDraft(ctx context.Context, req backend.SaveDraftRequest) (*backend.SaveDraftResult, error)
	SaveDraftCopy(ctx context.Context, req backend.SaveCopyRequest) (*backend.SaveDraftResult, error)
	UpdateDraft(ctx context.Context, id string, req backend.DraftUpdateRequest) (*backend.DraftUpdateResult, error)
	CreatePlaylist(ctx context.Context, req backend.CreatePlaylistRequest) (*backend.CreatePlaylistResult, error)
	AddToPlaylist(ctx context.Context, id string, draftIDs []string) (*backend.PlaylistDraftsResult, error)
}

var _ ShelfBackend = (*backend.Client)(nil)
