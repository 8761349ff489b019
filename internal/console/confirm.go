package console

import "context"

// Confirmer asks the operator to approve a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

type confirmationKey struct{}

// WithConfirmation stores the operator's decision on ctx for ContextConfirmer
func WithConfirmation(ctx context.Context, approved bool) context.Context {
	return context.WithValue(ctx, confirmationKey{}, approved)
}

// ContextConfirmer approves only when the context carries an approval.
// The HTTP layer places the decision taken in the browser on the request context.
type ContextConfirmer struct{}

// Confirm reports the decision stored by WithConfirmation, false when absent
func (ContextConfirmer) Confirm(ctx context.Context, prompt string) bool {
	approved, _ := ctx.Value(confirmationKey{}).(bool)
	log.WithField("prompt", prompt).WithField("approved", approved).Debug("Confirmation requested")
	return approved
}

func deletePrompt(id string) string {
	return "Delete " + id + "?"
}
