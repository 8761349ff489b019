package console

import "sync"

// MutationOp names the kind of change a form made on the remote resource
type MutationOp string

const (
	OpCreate MutationOp = "create"
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"
)

// MutationEvent is published after a successful create, update or delete
type MutationEvent struct {
	Op MutationOp
	ID string
}

// Bus delivers mutation events to subscribers.
// Publish calls subscribers synchronously; a subscriber that does slow work
// is expected to hand it off.
type Bus struct {
	mu          sync.RWMutex
	subscribers []func(MutationEvent)
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for every following event
func (b *Bus) Subscribe(fn func(MutationEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish sends ev to every subscriber
func (b *Bus) Publish(ev MutationEvent) {
	b.mu.RLock()
	subscribers := append([]func(MutationEvent){}, b.subscribers...)
	b.mu.RUnlock()

	log.WithField("op", ev.Op).WithField("id", ev.ID).Debug("Publishing mutation event")
	for _, fn := range subscribers {
		fn(ev)
	}
}
