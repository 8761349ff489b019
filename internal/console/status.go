package console

import (
	"sync"
	"time"
)

// DefaultClearAfter is how long a status message stays visible
const DefaultClearAfter = 4 * time.Second

// StatusView is the renderable state of a status slot
type StatusView struct {
	Message string
	IsError bool
}

// Status is a transient message slot tied to one form or the table.
// A message is cleared after ClearAfter unless a newer one replaced it.
type Status struct {
	mu         sync.Mutex
	view       StatusView
	generation uint64
	clearAfter time.Duration
}

// NewStatus creates a status slot; a non-positive clearAfter uses DefaultClearAfter
func NewStatus(clearAfter time.Duration) *Status {
	if clearAfter <= 0 {
		clearAfter = DefaultClearAfter
	}
	return &Status{clearAfter: clearAfter}
}

// Set shows msg, styled as an error when isError is true
func (s *Status) Set(msg string, isError bool) {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.view = StatusView{Message: msg, IsError: isError}
	s.mu.Unlock()

	if msg == "" {
		return
	}
	time.AfterFunc(s.clearAfter, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == generation {
			s.view.Message = ""
		}
	})
}

// Info shows a normal message
func (s *Status) Info(msg string) { s.Set(msg, false) }

// Error shows an error message
func (s *Status) Error(msg string) { s.Set(msg, true) }

// View returns the current message
func (s *Status) View() StatusView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}
