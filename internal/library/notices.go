package library

import (
	"sync"
	"time"
)

// Level is the severity of a Notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const maxNotices = 20

// Notice is a transient message for the user.
type Notice struct {
	Level   Level
	Kind    Kind
	Message string
	At      time.Time
}

// Notices is a bounded queue; the oldest entries are dropped first.
type Notices struct {
	mu    sync.Mutex
	items []Notice
}

func (n *Notices) Push(level Level, kind Kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.items = append(n.items, Notice{
		Level:   level,
		Kind:    kind,
		Message: message,
		At:      time.Now(),
	})
	if over := len(n.items) - maxNotices; over > 0 {
		n.items = n.items[over:]
	}
}

// Drain returns and clears the queued notices.
func (n *Notices) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	items := n.items
	n.items = nil
	return items
}

func (n *Notices) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}
