package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/inscrevia/inscrevia/internal/order/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (domain.Repository, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Order{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return Provide(), db, node
}

func newOrder(node *snowflake.Node, tenantID snowflake.ID, createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:            node.Generate(),
		TenantID:      tenantID,
		ResponsibleID: node.Generate(),
		PayerCPF:      "52998224725",
		Status:        domain.StatusPending,
		AmountCents:   5000,
		Channel:       domain.ChannelLoja,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestFindLatestByCPFOrdering(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()
	tenantID := node.Generate()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := newOrder(node, tenantID, base.Add(-time.Hour))
	newest := newOrder(node, tenantID, base)
	require.NoError(t, repo.Insert(ctx, db, older))
	require.NoError(t, repo.Insert(ctx, db, newest))

	got, err := repo.FindLatestByCPF(ctx, db, tenantID, "52998224725")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, newest.ID, got.ID)

	got, err = repo.FindLatestByCPF(ctx, db, node.Generate(), "52998224725")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFindByRegistrationUserScope(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()
	tenantID := node.Generate()
	regID := node.Generate()

	order := newOrder(node, tenantID, time.Now().UTC())
	order.RegistrationID = &regID
	require.NoError(t, repo.Insert(ctx, db, order))

	got, err := repo.FindByRegistration(ctx, db, tenantID, regID, 0)
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = repo.FindByRegistration(ctx, db, tenantID, regID, order.ResponsibleID)
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = repo.FindByRegistration(ctx, db, tenantID, regID, node.Generate())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFindPayableByRegistrationSkipsCanceled(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()
	tenantID := node.Generate()
	regID := node.Generate()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	canceled := newOrder(node, tenantID, base)
	canceled.RegistrationID = &regID
	canceled.Status = domain.StatusCanceled
	payable := newOrder(node, tenantID, base.Add(-time.Hour))
	payable.RegistrationID = &regID
	require.NoError(t, repo.Insert(ctx, db, canceled))
	require.NoError(t, repo.Insert(ctx, db, payable))

	got, err := repo.FindPayableByRegistration(ctx, db, regID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, payable.ID, got.ID)
}

func TestMarkPaidIdempotent(t *testing.T) {
	repo, db, node := setupRepo(t)
	ctx := context.Background()
	tenantID := node.Generate()

	order := newOrder(node, tenantID, time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, db, order))

	require.NoError(t, repo.MarkPaid(ctx, db, order.ID, "pay_1"))
	require.NoError(t, repo.MarkPaid(ctx, db, order.ID, "pay_1"))

	got, err := repo.FindByID(ctx, db, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, got.Status)
	require.Equal(t, "pay_1", got.GatewayPaymentID)
}
