package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Draft is a research write-up saved to the backend's draft shelf. It shares
// the document library's tag model: ordered, duplicates preserved.
type Draft struct {
	ID           string    `json:"draft_id"`
	Title        string    `json:"title"`
	Tags         []string  `json:"tags"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
	ResearchID   string    `json:"research_id,omitempty"`
	Query        string    `json:"query,omitempty"`
	ContentStyle string    `json:"content_style,omitempty"`
	Content      string    `json:"draft_content"`
	References   []any     `json:"references"`

	// AddedAt is set only on drafts listed inside a playlist.
	AddedAt Timestamp `json:"added_at,omitzero"`
}

// UnmarshalJSON normalizes null tags and references to empty slices.
func (d *Draft) UnmarshalJSON(data []byte) error {
	type alias Draft
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Tags == nil {
		raw.Tags = []string{}
	}
	if raw.References == nil {
		raw.References = []any{}
	}
	*d = Draft(raw)
	return nil
}

// DraftList is one snapshot of the draft shelf, newest first.
type DraftList struct {
	Count  int     `json:"count"`
	Drafts []Draft `json:"drafts"`
}

// SaveDraftRequest stores the result of a completed research run. A nil
// Content keeps the run's generated text.
type SaveDraftRequest struct {
	ResearchID string   `json:"research_id"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Content    *string  `json:"content,omitempty"`
}

// SaveCopyRequest stores an edited draft that is not tied to a research run.
type SaveCopyRequest struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	ContentStyle string   `json:"content_style,omitempty"`
	Tags         []string `json:"tags"`
	References   []string `json:"references"`
}

// SaveDraftResult acknowledges a saved draft.
type SaveDraftResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      string `json:"draft_id"`
}

// DraftUpdateRequest changes a draft's title and tags. Nil fields are left
// unchanged; a non-nil empty Tags clears them.
type DraftUpdateRequest struct {
	Title *string   `json:"title,omitempty"`
	Tags  *[]string `json:"tags,omitempty"`
}

// DraftUpdateResult carries the draft as stored after the update.
type DraftUpdateResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Draft   Draft  `json:"draft"`
}

// TagList is every distinct draft tag, sorted.
type TagList struct {
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

// SaveDraft saves a completed research run to the shelf.
func (c *Client) SaveDraft(ctx context.Context, req SaveDraftRequest) (*SaveDraftResult, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}

	var result SaveDraftResult
	if err := c.send(ctx, OpSaveDraft, http.MethodPost, "/library/save-draft", req, &result); err != nil {
		return nil, err
	}

	c.logger.Info("draft saved", "id", result.ID, "research_id", req.ResearchID)
	return &result, nil
}

// SaveDraftCopy saves edited draft content as a new shelf entry.
func (c *Client) SaveDraftCopy(ctx context.Context, req SaveCopyRequest) (*SaveDraftResult, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	if req.References == nil {
		req.References = []string{}
	}

	var result SaveDraftResult
	if err := c.send(ctx, OpSaveDraft, http.MethodPost, "/library/save-copy", req, &result); err != nil {
		return nil, err
	}

	c.logger.Info("draft copy saved", "id", result.ID)
	return &result, nil
}

// Drafts lists the shelf. A non-empty tag keeps only drafts carrying it.
func (c *Client) Drafts(ctx context.Context, tag string) (*DraftList, error) {
	path := "/library/drafts"
	if tag != "" {
		path += "?" + url.Values{"tag": {tag}}.Encode()
	}

	var result DraftList
	if err := c.do(ctx, OpListDrafts, http.MethodGet, path, nil, "", &result); err != nil {
		return nil, err
	}
	if result.Drafts == nil {
		result.Drafts = []Draft{}
	}
	return &result, nil
}

// Draft returns one saved draft.
func (c *Client) Draft(ctx context.Context, id string) (*Draft, error) {
	var draft Draft
	if err := c.do(ctx, OpGetDraft, http.MethodGet, draftPath(id), nil, "", &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// UpdateDraft retitles or retags a draft.
func (c *Client) UpdateDraft(ctx context.Context, id string, req DraftUpdateRequest) (*DraftUpdateResult, error) {
	var result DraftUpdateResult
	if err := c.send(ctx, OpUpdateDraft, http.MethodPut, draftPath(id), req, &result); err != nil {
		return nil, err
	}

	c.logger.Info("draft updated", "id", id)
	return &result, nil
}

// DeleteDraft removes a draft and its playlist memberships.
func (c *Client) DeleteDraft(ctx context.Context, id string) (*DeleteResult, error) {
	var result DeleteResult
	if err := c.do(ctx, OpDeleteDraft, http.MethodDelete, draftPath(id), nil, "", &result); err != nil {
		return nil, err
	}

	c.logger.Info("draft deleted", "id", id)
	return &result, nil
}

// DraftTags lists every tag used on the shelf.
func (c *Client) DraftTags(ctx context.Context) (*TagList, error) {
	var result TagList
	if err := c.do(ctx, OpListTags, http.MethodGet, "/library/tags", nil, "", &result); err != nil {
		return nil, err
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	return &result, nil
}

// send encodes body as JSON and performs the request.
func (c *Client) send(ctx context.Context, op Op, method, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &Error{Op: op, Message: string(op) + " failed: could not encode request", kind: ErrNetwork, cause: err}
	}
	return c.do(ctx, op, method, path, bytes.NewReader(data), "application/json", out)
}

func draftPath(id string) string {
	return "/library/drafts/" + url.PathEscape(id)
}
