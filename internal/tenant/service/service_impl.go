package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/inscrevia/inscrevia/internal/gateway"
	"github.com/inscrevia/inscrevia/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:   p.DB,
		log:  p.Log.Named("tenant"),
		repo: p.Repo,
	}
}

// ResolveCredentials looks up the tenant by gateway account id first, then
// fills missing identity from the external reference. A tenant found through
// the account id is never overridden by the reference.
func (s *service) ResolveCredentials(ctx context.Context, accountID, externalRef string) (domain.Credentials, error) {
	var creds domain.Credentials

	accountID = strings.TrimSpace(accountID)
	if accountID != "" {
		tenant, err := s.repo.FindByGatewayAccountID(ctx, s.db, accountID)
		if err != nil {
			return domain.Credentials{}, err
		}
		if tenant != nil {
			creds.TenantID = tenant.ID
			creds.APIKey = tenant.GatewayAPIKey
		}
	}

	if ref, ok := gateway.ParseReference(strings.TrimSpace(externalRef)); ok {
		if id, err := snowflake.ParseString(ref.UserID); err == nil {
			creds.UserID = id
		}
		if ref.RegistrationID != "" {
			if id, err := snowflake.ParseString(ref.RegistrationID); err == nil {
				creds.RegistrationID = id
			}
		}
		if creds.TenantID == 0 {
			if id, err := snowflake.ParseString(ref.TenantID); err == nil {
				tenant, err := s.repo.FindByID(ctx, s.db, id)
				if err != nil {
					return domain.Credentials{}, err
				}
				if tenant != nil {
					creds.TenantID = tenant.ID
					creds.APIKey = tenant.GatewayAPIKey
				}
			}
		}
	}

	if creds.APIKey == "" {
		s.log.Error("no gateway credentials for event",
			zap.String("account_id", accountID),
			zap.String("external_reference", externalRef),
		)
		return domain.Credentials{}, domain.ErrUnresolved
	}

	creds.APIKey = gateway.NormalizeAPIKey(creds.APIKey)
	return creds, nil
}

func (s *service) ResolveHost(ctx context.Context, host string) (*domain.Tenant, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		return nil, domain.ErrNotFound
	}
	tenant, err := s.repo.FindByHostname(ctx, s.db, host)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	return tenant, nil
}
