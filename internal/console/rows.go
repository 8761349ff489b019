package console

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/gin-users-console/internal/models"
	"github.com/franciscosanchezn/gin-users-console/internal/services"
)

var (
	// ErrValidation is returned when required input is missing; no request is sent
	ErrValidation = errors.New("validation failed")
	// ErrDeclined is returned when the operator declined a confirmation; no request is sent
	ErrDeclined = errors.New("confirmation declined")
	// ErrBusy is returned while the same form already has a request in flight
	ErrBusy = errors.New("request already in flight")
)

// RowInput holds the identifier and the edited inputs of one table row
type RowInput struct {
	ID    string `form:"id"`
	Name  string `form:"name"`
	Email string `form:"email"`
	Role  string `form:"role"`
}

// Rows saves and deletes records straight from the table.
// Results are reported on the list status.
type Rows struct {
	users   services.UserService
	status  *Status
	bus     *Bus
	confirm Confirmer
}

// NewRows creates the inline row mutator
func NewRows(users services.UserService, status *Status, bus *Bus, confirm Confirmer) *Rows {
	return &Rows{users: users, status: status, bus: bus, confirm: confirm}
}

// RowPayload builds the inline update body: name and email only when
// non-empty, role always (an empty role clears it).
func RowPayload(in RowInput) models.UserPayload {
	var payload models.UserPayload
	if name := strings.TrimSpace(in.Name); name != "" {
		payload.Name = models.StringPtr(name)
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		payload.Email = models.StringPtr(email)
	}
	payload.Role = models.StringPtr(strings.TrimSpace(in.Role))
	return payload
}

// Save sends the row's edited values as a partial update
func (r *Rows) Save(ctx context.Context, in RowInput) error {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		r.status.Error("Update error: missing ID")
		return ErrValidation
	}

	if _, err := r.users.UpdateUser(context.WithoutCancel(ctx), id, RowPayload(in)); err != nil {
		log.WithError(err).WithField("id", id).Warn("Row update failed")
		r.status.Error("Update error: " + err.Error())
		return err
	}

	r.status.Info("Updated")
	r.bus.Publish(MutationEvent{Op: OpUpdate, ID: id})
	return nil
}

// Delete removes the row's record after confirmation
func (r *Rows) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		r.status.Error("Delete error: missing ID")
		return ErrValidation
	}
	if !r.confirm.Confirm(ctx, deletePrompt(id)) {
		return ErrDeclined
	}

	if err := r.users.DeleteUser(context.WithoutCancel(ctx), id); err != nil {
		log.WithError(err).WithField("id", id).Warn("Row delete failed")
		r.status.Error("Delete error: " + err.Error())
		return err
	}

	r.status.Info("Deleted")
	r.bus.Publish(MutationEvent{Op: OpDelete, ID: id})
	return nil
}
