package library

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/JaimeStill/research-library/internal/backend"
)

// Composer owns the query form: the question text, the document scope, and the
// last answer. It is the SelectionOwner for a picker view.
type Composer struct {
	backend Backend
	logger  *slog.Logger

	mu        sync.RWMutex
	selection Selection
	text      string
	result    *backend.QueryResult
}

func NewComposer(b Backend, logger *slog.Logger) *Composer {
	return &Composer{
		backend: b,
		logger:  logger.With("system", "composer"),
	}
}

func (c *Composer) Selection() Selection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selection
}

func (c *Composer) SetSelection(s Selection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = s
}

func (c *Composer) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
}

func (c *Composer) Text() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.text
}

// Result returns the answer of the last successful submit.
func (c *Composer) Result() *backend.QueryResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// Submit asks the current question scoped to the current selection. An empty
// selection queries the whole library.
func (c *Composer) Submit(ctx context.Context) (*backend.QueryResult, error) {
	c.mu.RLock()
	text := strings.TrimSpace(c.text)
	ids := c.selection.IDs()
	c.mu.RUnlock()

	if text == "" {
		return nil, invalid("query", "question is required")
	}

	result, err := c.backend.Query(ctx, text, ids)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.result = result
	c.mu.Unlock()

	c.logger.Info("query answered", "scope", len(ids), "sources", len(result.Sources))
	return result, nil
}

// Reset clears the question, the selection, and the last answer.
func (c *Composer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = Selection{}
	c.text = ""
	c.result = nil
}
