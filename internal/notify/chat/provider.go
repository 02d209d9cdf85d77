package chat

import "context"

// Provider posts short messages to the tenant's chat channel (WhatsApp
// bridge). Best-effort only.
type Provider interface {
	PostMessage(ctx context.Context, to string, message string) error
}

type NoOpProvider struct{}

func (NoOpProvider) PostMessage(ctx context.Context, to string, message string) error {
	return nil
}
