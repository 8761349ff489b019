package console

import (
	"context"

	"github.com/franciscosanchezn/gin-users-console/internal/models"
	"github.com/franciscosanchezn/gin-users-console/internal/services"
)

// CreateForm collects a new record: name and email are required,
// id and role are optional.
type CreateForm struct {
	form
	users services.UserService
}

// NewCreateForm creates the create form
func NewCreateForm(users services.UserService, status *Status, bus *Bus) *CreateForm {
	return &CreateForm{form: form{status: status, bus: bus}, users: users}
}

// CreatePayload builds the create body; id is sent only when given so the
// server can assign one otherwise.
func CreatePayload(in Fields) models.UserPayload {
	v := in.trimmed()
	payload := models.UserPayload{
		Name:  models.StringPtr(v.Name),
		Email: models.StringPtr(v.Email),
		Role:  models.StringPtr(v.Role),
	}
	if v.ID != "" {
		payload.ID = models.StringPtr(v.ID)
	}
	return payload
}

// Submit validates the input and creates the record.
// On success the fields are cleared and a reload is requested.
func (f *CreateForm) Submit(ctx context.Context, in Fields) (models.User, error) {
	if !f.begin() {
		return models.User{}, ErrBusy
	}
	defer f.end()

	f.setFields(in)
	v := in.trimmed()
	if v.Name == "" || v.Email == "" {
		f.status.Error("Name and email are required")
		return models.User{}, ErrValidation
	}

	f.status.Info("Creating...")
	created, err := f.users.CreateUser(context.WithoutCancel(ctx), CreatePayload(in))
	if err != nil {
		log.WithError(err).Warn("Create failed")
		f.status.Error("Error: " + err.Error())
		return models.User{}, err
	}

	f.status.Info("Created")
	f.setFields(Fields{})
	f.bus.Publish(MutationEvent{Op: OpCreate, ID: created.ID.String()})
	return created, nil
}
