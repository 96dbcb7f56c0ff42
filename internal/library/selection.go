package library

import "sync"

// Selection is an ordered set of document ids. It is an immutable value:
// Toggle returns a new set and leaves the receiver unchanged.
type Selection struct {
	ids []string
}

// NewSelection builds a set from ids, dropping duplicates.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Toggle removes id when present and appends it otherwise.
func (s Selection) Toggle(id string) Selection {
	next := make([]string, 0, len(s.ids)+1)
	found := false
	for _, existing := range s.ids {
		if existing == id {
			found = true
			continue
		}
		next = append(next, existing)
	}
	if !found {
		next = append(next, id)
	}
	return Selection{ids: next}
}

func (s Selection) Contains(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// IDs returns the members in selection order. The result is never nil.
func (s Selection) IDs() []string {
	ids := make([]string, len(s.ids))
	copy(ids, s.ids)
	return ids
}

func (s Selection) Len() int {
	return len(s.ids)
}

// SelectionOwner holds the authoritative selection for a picker.
type SelectionOwner interface {
	Selection() Selection
	SetSelection(Selection)
}

// Picker applies toggles to an owner's selection. Each Toggle emits exactly
// one SetSelection.
type Picker struct {
	mu    sync.Mutex
	owner SelectionOwner
}

func NewPicker(owner SelectionOwner) *Picker {
	return &Picker{owner: owner}
}

// Toggle flips membership of id and returns the set handed to the owner.
func (p *Picker) Toggle(id string) Selection {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.owner.Selection().Toggle(id)
	p.owner.SetSelection(next)
	return next
}

// Selection returns the owner's current set.
func (p *Picker) Selection() Selection {
	return p.owner.Selection()
}
