// Package dimension provides viewport sources for the responsive engine.
package dimension

import (
	"sort"
	"sync"

	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

// Source holds the current viewport and fans change notifications out to listeners.
// It is safe for concurrent use. Listeners run on the goroutine that calls Set.
type Source struct {
	mu        sync.Mutex
	current   responsive.Viewport
	nextID    responsive.ListenerID
	listeners map[responsive.ListenerID]func()
}

// NewSource creates a Source starting at the given viewport.
func NewSource(initial responsive.Viewport) *Source {
	return &Source{
		current:   initial,
		listeners: make(map[responsive.ListenerID]func()),
	}
}

// Current returns the latest viewport.
func (s *Source) Current() responsive.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnChange registers a listener and returns its ID.
func (s *Source) OnChange(listener func()) responsive.ListenerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.listeners[s.nextID] = listener
	return s.nextID
}

// Release removes a listener. Unknown IDs are ignored.
func (s *Source) Release(id responsive.ListenerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, id)
}

// Listeners returns the number of registered listeners.
func (s *Source) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Set stores v and, if it differs from the previous viewport, notifies every
// listener in registration order. It returns true when listeners were notified.
func (s *Source) Set(v responsive.Viewport) bool {
	s.mu.Lock()
	if v == s.current {
		s.mu.Unlock()
		return false
	}
	// state is updated before any listener runs
	s.current = v
	ids := make([]responsive.ListenerID, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		// a listener may release another one while we iterate
		s.mu.Lock()
		fn, ok := s.listeners[id]
		s.mu.Unlock()
		if ok {
			fn()
		}
	}
	return true
}
