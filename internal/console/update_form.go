package console

import (
	"context"

	"github.com/franciscosanchezn/gin-users-console/internal/models"
	"github.com/franciscosanchezn/gin-users-console/internal/services"
)

// UpdateForm sends a partial update for the record with the given id.
// Unlike the inline row save, an empty role is left out of the body.
type UpdateForm struct {
	form
	users services.UserService
}

// NewUpdateForm creates the standalone update form
func NewUpdateForm(users services.UserService, status *Status, bus *Bus) *UpdateForm {
	return &UpdateForm{form: form{status: status, bus: bus}, users: users}
}

// UpdatePayload builds the update body from the non-empty fields only
func UpdatePayload(in Fields) models.UserPayload {
	v := in.trimmed()
	var payload models.UserPayload
	if v.Name != "" {
		payload.Name = models.StringPtr(v.Name)
	}
	if v.Email != "" {
		payload.Email = models.StringPtr(v.Email)
	}
	if v.Role != "" {
		payload.Role = models.StringPtr(v.Role)
	}
	return payload
}

// Submit validates the id and the fields, then sends the update
func (f *UpdateForm) Submit(ctx context.Context, in Fields) (models.User, error) {
	if !f.begin() {
		return models.User{}, ErrBusy
	}
	defer f.end()

	f.setFields(in)
	v := in.trimmed()
	if v.ID == "" {
		f.status.Error("ID is required")
		return models.User{}, ErrValidation
	}
	payload := UpdatePayload(in)
	if payload.Empty() {
		f.status.Error("No fields to update")
		return models.User{}, ErrValidation
	}

	f.status.Info("Updating...")
	updated, err := f.users.UpdateUser(context.WithoutCancel(ctx), v.ID, payload)
	if err != nil {
		log.WithError(err).WithField("id", v.ID).Warn("Update failed")
		f.status.Error("Error: " + err.Error())
		return models.User{}, err
	}

	f.status.Info("Updated")
	f.setFields(Fields{})
	f.bus.Publish(MutationEvent{Op: OpUpdate, ID: v.ID})
	return updated, nil
}
