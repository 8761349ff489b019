package console

import (
	"context"
	"html/template"
	"sync"

	"github.com/franciscosanchezn/gin-users-console/internal/models"
	"github.com/franciscosanchezn/gin-users-console/internal/services"
	"github.com/franciscosanchezn/gin-users-console/internal/views"
	"github.com/sirupsen/logrus"
)

// Table owns the rendered users table. It is the only component that
// re-fetches the list; forms ask for a reload by publishing mutation events.
type Table struct {
	users  services.UserService
	status *Status

	mu   sync.Mutex
	rows []models.User
	body template.HTML

	// loads hold a read lock while running, Settle takes the write lock
	inflight sync.RWMutex
}

// NewTable creates the table and subscribes it to bus
func NewTable(users services.UserService, status *Status, bus *Bus) *Table {
	t := &Table{users: users, status: status}
	if bus != nil {
		bus.Subscribe(func(MutationEvent) { t.Reload() })
	}
	return t
}

// Load fetches the collection and rebuilds the table body.
// On failure the previously rendered rows stay in place.
func (t *Table) Load(ctx context.Context) error {
	t.inflight.RLock()
	defer t.inflight.RUnlock()
	return t.load(ctx)
}

// Reload starts a Load that outlives the caller's context.
// Overlapping reloads are not coordinated; the last one to finish wins.
func (t *Table) Reload() {
	t.inflight.RLock()
	go func() {
		defer t.inflight.RUnlock()
		_ = t.load(context.Background())
	}()
}

// Settle waits until every load started before the call has finished
func (t *Table) Settle() {
	t.inflight.Lock()
	defer t.inflight.Unlock()
}

func (t *Table) load(ctx context.Context) error {
	t.status.Info("Loading...")

	users, err := t.users.ListUsers(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to load users")
		t.status.Error("Error: " + err.Error())
		return err
	}

	body, err := views.RenderRows(users)
	if err != nil {
		log.WithError(err).Error("Failed to render users table")
		t.status.Error("Error: " + err.Error())
		return err
	}

	t.mu.Lock()
	t.rows = users
	t.body = body
	t.mu.Unlock()

	log.WithFields(logrus.Fields{"rows": len(users)}).Debug("Users table rebuilt")
	t.status.Info("Loaded")
	return nil
}

// Body returns the rendered table body markup
func (t *Table) Body() template.HTML {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.body
}

// Rows returns a copy of the rendered records
func (t *Table) Rows() []models.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.User(nil), t.rows...)
}
