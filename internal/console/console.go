// Package console implements the users console: a table of records with
// inline save and delete, plus create, update-by-id and delete-by-id forms.
// Every component reports through its own Status; mutating components
// publish events on a Bus and the Table reloads itself in response.
package console

import (
	"context"
	"html/template"
	"time"

	"github.com/franciscosanchezn/gin-users-console/internal/services"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the console logger level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Options configures a Console
type Options struct {
	// StatusClearAfter defaults to DefaultClearAfter
	StatusClearAfter time.Duration
	// Confirmer defaults to ContextConfirmer
	Confirmer Confirmer
	// APIRoot is displayed on the page
	APIRoot string
}

// Console wires every component around one users service
type Console struct {
	Bus *Bus

	ListStatus *Status
	Table      *Table
	Rows       *Rows

	Create *CreateForm
	Update *UpdateForm
	Delete *DeleteForm

	apiRoot string
}

// New builds the console
func New(users services.UserService, opts Options) *Console {
	confirm := opts.Confirmer
	if confirm == nil {
		confirm = ContextConfirmer{}
	}

	bus := NewBus()
	listStatus := NewStatus(opts.StatusClearAfter)
	return &Console{
		Bus:        bus,
		ListStatus: listStatus,
		Table:      NewTable(users, listStatus, bus),
		Rows:       NewRows(users, listStatus, bus, confirm),
		Create:     NewCreateForm(users, NewStatus(opts.StatusClearAfter), bus),
		Update:     NewUpdateForm(users, NewStatus(opts.StatusClearAfter), bus),
		Delete:     NewDeleteForm(users, NewStatus(opts.StatusClearAfter), bus, confirm),
		apiRoot:    opts.APIRoot,
	}
}

// Start performs the initial table load
func (c *Console) Start(ctx context.Context) error {
	return c.Table.Load(ctx)
}

// Page is everything the console template renders
type Page struct {
	APIRoot    string
	ListStatus StatusView
	TableBody  template.HTML
	Create     FormView
	Update     FormView
	Delete     FormView
}

// Page waits for pending reloads and snapshots every component
func (c *Console) Page() Page {
	c.Table.Settle()
	return Page{
		APIRoot:    c.apiRoot,
		ListStatus: c.ListStatus.View(),
		TableBody:  c.Table.Body(),
		Create:     c.Create.View(),
		Update:     c.Update.View(),
		Delete:     c.Delete.View(),
	}
}
