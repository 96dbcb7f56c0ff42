package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Playlist is a named, ordered collection of saved drafts.
type Playlist struct {
	ID          string    `json:"playlist_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
	DraftCount  int       `json:"draft_count"`

	// Drafts is filled only by Playlist, most recently added first.
	Drafts []Draft `json:"drafts,omitempty"`
}

// PlaylistList is every playlist, newest first.
type PlaylistList struct {
	Count     int        `json:"count"`
	Playlists []Playlist `json:"playlists"`
}

// CreatePlaylistRequest names a new playlist and its initial drafts.
type CreatePlaylistRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DraftIDs    []string `json:"draft_ids"`
}

// CreatePlaylistResult acknowledges a created playlist.
type CreatePlaylistResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      string `json:"playlist_id"`
}

// PlaylistDraftsResult reports a playlist's size after drafts were added or removed.
type PlaylistDraftsResult struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	PlaylistID string `json:"playlist_id"`
	DraftCount int    `json:"draft_count"`
}

type playlistDrafts struct {
	DraftIDs []string `json:"draft_ids"`
}

// Playlists lists every playlist with its draft count.
func (c *Client) Playlists(ctx context.Context) (*PlaylistList, error) {
	var result PlaylistList
	if err := c.do(ctx, OpListPlaylists, http.MethodGet, "/library/playlists", nil, "", &result); err != nil {
		return nil, err
	}
	if result.Playlists == nil {
		result.Playlists = []Playlist{}
	}
	return &result, nil
}

// Playlist returns one playlist with its drafts.
func (c *Client) Playlist(ctx context.Context, id string) (*Playlist, error) {
	var result Playlist
	if err := c.do(ctx, OpGetPlaylist, http.MethodGet, playlistPath(id), nil, "", &result); err != nil {
		return nil, err
	}
	if result.Drafts == nil {
		result.Drafts = []Draft{}
	}
	return &result, nil
}

// CreatePlaylist creates a playlist. Unknown draft ids fail the whole request.
func (c *Client) CreatePlaylist(ctx context.Context, req CreatePlaylistRequest) (*CreatePlaylistResult, error) {
	if req.DraftIDs == nil {
		req.DraftIDs = []string{}
	}

	var result CreatePlaylistResult
	if err := c.send(ctx, OpCreatePlaylist, http.MethodPost, "/library/playlists", req, &result); err != nil {
		return nil, err
	}

	c.logger.Info("playlist created", "id", result.ID, "drafts", len(req.DraftIDs))
	return &result, nil
}

// AddToPlaylist appends drafts to a playlist. Drafts already present are skipped.
func (c *Client) AddToPlaylist(ctx context.Context, id string, draftIDs []string) (*PlaylistDraftsResult, error) {
	var result PlaylistDraftsResult
	if err := c.send(ctx, OpAddToPlaylist, http.MethodPost, playlistPath(id)+"/drafts", playlistDrafts{DraftIDs: draftIDs}, &result); err != nil {
		return nil, err
	}

	c.logger.Info("drafts added to playlist", "id", id, "size", result.DraftCount)
	return &result, nil
}

// RemoveFromPlaylist takes one draft out of a playlist. The draft itself is kept.
func (c *Client) RemoveFromPlaylist(ctx context.Context, id, draftID string) (*PlaylistDraftsResult, error) {
	var result PlaylistDraftsResult
	path := playlistPath(id) + "/drafts/" + url.PathEscape(draftID)
	if err := c.do(ctx, OpRemoveFromPlaylist, http.MethodDelete, path, nil, "", &result); err != nil {
		return nil, err
	}

	c.logger.Info("draft removed from playlist", "id", id, "draft", draftID)
	return &result, nil
}

// DeletePlaylist removes a playlist. Its drafts are kept.
func (c *Client) DeletePlaylist(ctx context.Context, id string) (*DeleteResult, error) {
	var result DeleteResult
	if err := c.do(ctx, OpDeletePlaylist, http.MethodDelete, playlistPath(id), nil, "", &result); err != nil {
		return nil, err
	}

	c.logger.Info("playlist deleted", "id", id)
	return &result, nil
}

func playlistPath(id string) string {
	return "/library/playlists/" + url.PathEscape(id)
}
