package library

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JaimeStill/research-library/internal/backend"
)

// Shelf validates writes to the saved-draft shelf and its playlists. Tags
// are entered as comma-separated text and parsed like document tags.
type Shelf struct {
	backend ShelfBackend
	logger  *slog.Logger
}

func NewShelf(b ShelfBackend, logger *slog.Logger) *Shelf {
	return &Shelf{
		backend: b,
		logger:  logger.With("system", "shelf"),
	}
}

// Save stores a completed research run under title. A nil content keeps the
// run's generated text.
func (s *Shelf) Save(ctx context.Context, researchID, title, tagsRaw string, content *string) (*backend.SaveDraftResult, error) {
	researchID = strings.TrimSpace(researchID)
	if researchID == "" {
		return nil, invalid("research_id", "research id is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}

	return s.backend.SaveDraft(ctx, backend.SaveDraftRequest{
		ResearchID: researchID,
		Title:      title,
		Tags:       ParseTags(tagsRaw),
		Content:    content,
	})
}

// SaveCopy stores edited content as a new draft.
func (s *Shelf) SaveCopy(ctx context.Context, title, content, style, tagsRaw string) (*backend.SaveDraftResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalid("content", "content is required")
	}

	return s.backend.SaveDraftCopy(ctx, backend.SaveCopyRequest{
		Title:        title,
		Content:      content,
		ContentStyle: style,
		Tags:         ParseTags(tagsRaw),
	})
}

// Retag changes a draft's title, tags, or both. Nil arguments are left
// unchanged; an empty tagsRaw clears the tags.
func (s *Shelf) Retag(ctx context.Context, id string, title, tagsRaw *string) (*backend.Draft, error) {
	if title == nil && tagsRaw == nil {
		return nil, invalid("draft", "nothing to change")
	}

	var req backend.DraftUpdateRequest
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, invalid("title", "title is required")
		}
		req.Title = &t
	}
	if tagsRaw != nil {
		tags := ParseTags(*tagsRaw)
		req.Tags = &tags
	}

	result, err := s.backend.UpdateDraft(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return &result.Draft, nil
}

// CreatePlaylist creates a playlist holding draftIDs in order, each once.
func (s *Shelf) CreatePlaylist(ctx context.Context, name, description string, draftIDs []string) (*backend.CreatePlaylistResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "playlist name is required")
	}

	return s.backend.CreatePlaylist(ctx, backend.CreatePlaylistRequest{
		Name:        name,
		Description: description,
		DraftIDs:    NewSelection(draftIDs...).IDs(),
	})
}

// AddToPlaylist appends drafts to a playlist, each once.
func (s *Shelf) AddToPlaylist(ctx context.Context, id string, draftIDs []string) (*backend.PlaylistDraftsResult, error) {
	ids := NewSelection(draftIDs...).IDs()
	if len(ids) == 0 {
		return nil, invalid("draft_ids", "at least one draft is required")
	}

	result, err := s.backend.AddToPlaylist(ctx, id, ids)
	if err != nil {
		return nil, err
	}
	s.logger.Info("playlist extended", "id", id, "size", result.DraftCount)
	return result, nil
}
