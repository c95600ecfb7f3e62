package store

import "github.com/aretw0/umlweb/pkg/domain"

// InspectorTarget is the entity shown in the inspector panel.
type InspectorTarget struct {
	Kind domain.EntityKind `json:"kind" validate:"required,oneof=actor use_case"`
	ID   string            `json:"id" validate:"required"`
}

// Selection is transient UI state. It is never persisted.
type Selection struct {
	FocusedID string           `json:"focusedId,omitempty"`
	Inspector *InspectorTarget `json:"inspector,omitempty"`
}

func (s Selection) clone() Selection {
	if s.Inspector != nil {
		t := *s.Inspector
		s.Inspector = &t
	}
	return s
}

// Selection returns the current selection.
func (s *Store) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.clone()
}

// FocusElement marks id as the focused canvas element. An empty id clears focus.
func (s *Store) FocusElement(id string) {
	s.selectWith(func(sel Selection) Selection {
		sel.FocusedID = id
		return sel
	})
}

// OpenInspector shows target in the inspector panel.
func (s *Store) OpenInspector(target InspectorTarget) {
	s.selectWith(func(sel Selection) Selection {
		sel.Inspector = &target
		return sel
	})
}

// CloseInspector hides the inspector panel.
func (s *Store) CloseInspector() {
	s.selectWith(func(sel Selection) Selection {
		sel.Inspector = nil
		return sel
	})
}

func (s *Store) selectWith(fn func(Selection) Selection) {
	s.mu.Lock()
	s.sel = fn(s.sel.clone())
	mustDrain := s.enqueue(delivery{
		change:    Change{Op: OpSelect, Snapshot: s.snap.Clone(), Selection: s.sel.clone()},
		observers: s.observerList(),
	})
	s.mu.Unlock()

	if mustDrain {
		s.drain()
	}
}
