package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	// ErrNetwork indicates the request could not complete: connection
	// failure, timeout, cancellation, or an unreadable response.
	ErrNetwork = errors.New("network error")

	// ErrBackend indicates the backend answered with a non-2xx status.
	ErrBackend = errors.New("backend error")
)

// Operation errors. An *Error unwraps to the sentinel of the operation that
// failed. ErrNotFound is only reported for answers the backend actually sent.
var (
	ErrUpload   = errors.New("upload failed")
	ErrList     = errors.New("list failed")
	ErrGet      = errors.New("get failed")
	ErrNotFound = errors.New("not found")
	ErrUpdate   = errors.New("update failed")
	ErrDelete   = errors.New("delete failed")
	ErrDownload = errors.New("download failed")
	ErrQuery    = errors.New("query failed")
	ErrResearch = errors.New("research lookup failed")

	// ErrDrafts and ErrPlaylists cover the saved-draft shelf.
	ErrDrafts    = errors.New("draft request failed")
	ErrPlaylists = errors.New("playlist request failed")
)

// Op names a backend operation.
type Op string

const (
	OpUpload   Op = "upload"
	OpList     Op = "list"
	OpGet      Op = "get"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
	OpDownload Op = "download"
	OpQuery    Op = "query"
	OpResearch Op = "research"

	OpSaveDraft          Op = "save draft"
	OpListDrafts         Op = "list drafts"
	OpGetDraft           Op = "get draft"
	OpUpdateDraft        Op = "update draft"
	OpDeleteDraft        Op = "delete draft"
	OpListTags           Op = "list tags"
	OpListPlaylists      Op = "list playlists"
	OpGetPlaylist        Op = "get playlist"
	OpCreatePlaylist     Op = "create playlist"
	OpAddToPlaylist      Op = "add to playlist"
	OpRemoveFromPlaylist Op = "remove from playlist"
	OpDeletePlaylist     Op = "delete playlist"
)

// ErrorBody is the JSON shape the backend uses for failures. Error is absent
// when the backend fails without a message.
type ErrorBody struct {
	Error *string `json:"error,omitempty"`
}

// Error is a failed backend operation. Message is safe to show to users.
type Error struct {
	Op      Op
	Status  int
	Message string
	kind    error
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the error kind, the operation sentinel(s), and the cause.
func (e *Error) Unwrap() []error {
	errs := []error{e.kind}
	errs = append(errs, opErrors(e.Op, e.Status)...)
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

func opErrors(op Op, status int) []error {
	switch op {
	case OpUpload:
		return []error{ErrUpload}
	case OpList:
		return []error{ErrList}
	case OpGet:
		if status != 0 {
			return []error{ErrGet, ErrNotFound}
		}
		return []error{ErrGet}
	case OpUpdate:
		if status == http.StatusNotFound {
			return []error{ErrUpdate, ErrNotFound}
		}
		return []error{ErrUpdate}
	case OpDelete:
		if status == http.StatusNotFound {
			return []error{ErrNotFound}
		}
		return []error{ErrDelete}
	case OpDownload:
		if status == http.StatusNotFound {
			return []error{ErrDownload, ErrNotFound}
		}
		return []error{ErrDownload}
	case OpQuery:
		return []error{ErrQuery}
	case OpResearch:
		return []error{ErrResearch}
	case OpSaveDraft, OpListDrafts, OpGetDraft, OpUpdateDraft, OpDeleteDraft, OpListTags:
		return withNotFound(ErrDrafts, status)
	case OpListPlaylists, OpGetPlaylist, OpCreatePlaylist, OpAddToPlaylist, OpRemoveFromPlaylist, OpDeletePlaylist:
		return withNotFound(ErrPlaylists, status)
	}
	return nil
}

func withNotFound(sentinel error, status int) []error {
	if status == http.StatusNotFound {
		return []error{sentinel, ErrNotFound}
	}
	return []error{sentinel}
}

func networkError(op Op, err error) *Error {
	return &Error{
		Op:      op,
		Message: fmt.Sprintf("%s failed: unable to reach the research backend", op),
		kind:    ErrNetwork,
		cause:   err,
	}
}

func backendError(op Op, status int, body ErrorBody) *Error {
	msg := fmt.Sprintf("%s failed with status %d", op, status)
	if body.Error != nil && *body.Error != "" {
		msg = *body.Error
	}
	return &Error{
		Op:      op,
		Status:  status,
		Message: msg,
		kind:    ErrBackend,
	}
}

func decodeFailure(op Op, err error) *Error {
	return &Error{
		Op:      op,
		Message: fmt.Sprintf("%s failed: unreadable response from the research backend", op),
		kind:    ErrNetwork,
		cause:   err,
	}
}
