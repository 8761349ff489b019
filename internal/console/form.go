package console

import (
	"strings"
	"sync"
	"sync/atomic"
)

// FormState is the lifecycle shared by every submitting component
type FormState int

const (
	StateIdle FormState = iota
	StateSubmitting
)

// Fields are the text inputs of a form. Values are kept exactly as typed.
type Fields struct {
	ID    string `form:"id"`
	Name  string `form:"name"`
	Email string `form:"email"`
	Role  string `form:"role"`
}

func (f Fields) trimmed() Fields {
	return Fields{
		ID:    strings.TrimSpace(f.ID),
		Name:  strings.TrimSpace(f.Name),
		Email: strings.TrimSpace(f.Email),
		Role:  strings.TrimSpace(f.Role),
	}
}

// FormView is the renderable state of a form
type FormView struct {
	Fields Fields
	Busy   bool
	Status StatusView
}

// form carries the field values, the status slot and the submit guard
type form struct {
	status *Status
	bus    *Bus

	mu     sync.Mutex
	fields Fields

	submitting atomic.Bool
}

// begin disables submission; false means a request is already in flight
func (f *form) begin() bool {
	return f.submitting.CompareAndSwap(false, true)
}

// end re-enables submission whatever the outcome was
func (f *form) end() {
	f.submitting.Store(false)
}

func (f *form) setFields(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

// State reports whether a request is in flight
func (f *form) State() FormState {
	if f.submitting.Load() {
		return StateSubmitting
	}
	return StateIdle
}

// Fields returns the current input values
func (f *form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Status returns the form's status slot
func (f *form) Status() *Status {
	return f.status
}

// View returns the renderable state of the form
func (f *form) View() FormView {
	return FormView{Fields: f.Fields(), Busy: f.State() == StateSubmitting, Status: f.status.View()}
}
