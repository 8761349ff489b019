package console

import (
	"context"

	"github.com/franciscosanchezn/gin-users-console/internal/services"
)

// DeleteForm deletes the record with the typed id after confirmation
type DeleteForm struct {
	form
	users   services.UserService
	confirm Confirmer
}

// NewDeleteForm creates the standalone delete form
func NewDeleteForm(users services.UserService, status *Status, bus *Bus, confirm Confirmer) *DeleteForm {
	return &DeleteForm{form: form{status: status, bus: bus}, users: users, confirm: confirm}
}

// Submit deletes the record. Declining the confirmation aborts silently.
func (f *DeleteForm) Submit(ctx context.Context, id string) error {
	if !f.begin() {
		return ErrBusy
	}
	defer f.end()

	in := Fields{ID: id}
	f.setFields(in)
	v := in.trimmed()
	if v.ID == "" {
		f.status.Error("ID is required")
		return ErrValidation
	}
	if !f.confirm.Confirm(ctx, deletePrompt(v.ID)) {
		return ErrDeclined
	}

	f.status.Info("Deleting...")
	if err := f.users.DeleteUser(context.WithoutCancel(ctx), v.ID); err != nil {
		log.WithError(err).WithField("id", v.ID).Warn("Delete failed")
		f.status.Error("Error: " + err.Error())
		return err
	}

	f.status.Info("Deleted")
	f.setFields(Fields{})
	f.bus.Publish(MutationEvent{Op: OpDelete, ID: v.ID})
	return nil
}
