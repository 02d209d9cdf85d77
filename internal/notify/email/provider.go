package email

import "context"

// Provider sends transactional email. Callers treat sends as fire-and-forget:
// failures are logged, never propagated.
type Provider interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type NoOpProvider struct{}

func (NoOpProvider) Send(ctx context.Context, to []string, subject, body string) error {
	return nil
}
