package domain

import "context"

type Service interface {
	// ResolveCredentials resolves tenant identity for a gateway event from
	// the webhook's account id and/or the payment's external reference.
	ResolveCredentials(ctx context.Context, accountID, externalRef string) (Credentials, error)

	// ResolveHost maps a request hostname to its tenant.
	ResolveHost(ctx context.Context, host string) (*Tenant, error)
}
