package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	chargedomain "github.com/inscrevia/inscrevia/internal/charge/domain"
	chargerepo "github.com/inscrevia/inscrevia/internal/charge/repository"
	"github.com/inscrevia/inscrevia/internal/clock"
	"github.com/inscrevia/inscrevia/internal/config"
	"github.com/inscrevia/inscrevia/internal/gateway"
	"github.com/inscrevia/inscrevia/internal/notify/chat"
	"github.com/inscrevia/inscrevia/internal/notify/email"
	orderdomain "github.com/inscrevia/inscrevia/internal/order/domain"
	orderrepo "github.com/inscrevia/inscrevia/internal/order/repository"
	"github.com/inscrevia/inscrevia/internal/reconciliation"
	"github.com/inscrevia/inscrevia/internal/recovery"
	registrationdomain "github.com/inscrevia/inscrevia/internal/registration/domain"
	registrationrepo "github.com/inscrevia/inscrevia/internal/registration/repository"
	"github.com/inscrevia/inscrevia/internal/task"
	taskdomain "github.com/inscrevia/inscrevia/internal/task/domain"
	taskrepo "github.com/inscrevia/inscrevia/internal/task/repository"
	tenantdomain "github.com/inscrevia/inscrevia/internal/tenant/domain"
	tenantrepo "github.com/inscrevia/inscrevia/internal/tenant/repository"
	tenantservice "github.com/inscrevia/inscrevia/internal/tenant/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testHost = "eventos.example.com"

type serverFixture struct {
	engine   *gin.Engine
	db       *gorm.DB
	node     *snowflake.Node
	tenant   *tenantdomain.Tenant
	payments map[string]gateway.Payment
}

func setupServer(t *testing.T) *serverFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&tenantdomain.Tenant{},
		&registrationdomain.Registration{},
		&orderdomain.Order{},
		&chargedomain.Charge{},
		&taskdomain.Task{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	payments := make(map[string]gateway.Payment)
	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := payments[r.URL.Path[len("/payments/"):]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(p)
	}))
	t.Cleanup(gatewaySrv.Close)

	tenant := &tenantdomain.Tenant{
		ID:               node.Generate(),
		Name:             "Igreja Central",
		Hostname:         testHost,
		GatewayAccountID: "acc_1",
		GatewayAPIKey:    "key-1",
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	require.NoError(t, db.Create(tenant).Error)

	cfg := config.Config{
		Gateway: config.GatewayConfig{BaseURL: gatewaySrv.URL, Timeout: 5 * time.Second},
		Tasks: config.TaskConfig{
			BaseRetryDelay: time.Minute,
			MaxAttempts:    3,
			BatchSize:      50,
			PollInterval:   5 * time.Minute,
			RunTimeout:     time.Minute,
		},
	}
	log := zap.NewNop()
	clk := clock.NewSystem()
	tenantSvc := tenantservice.New(tenantservice.Params{DB: db, Log: log, Repo: tenantrepo.Provide()})
	ordRepo := orderrepo.Provide()
	regRepo := registrationrepo.Provide()
	chgRepo := chargerepo.Provide()
	tskRepo := taskrepo.Provide()

	reconSvc := reconciliation.NewService(reconciliation.Params{
		DB:        db,
		Log:       log,
		TenantSvc: tenantSvc,
		OrderRepo: ordRepo,
		RegRepo:   regRepo,
		Gateway:   gateway.NewFactory(cfg),
		Email:     email.NoOpProvider{},
		Chat:      chat.NoOpProvider{},
	})
	recoverySvc := recovery.NewService(recovery.Params{
		DB:         db,
		Log:        log,
		TenantSvc:  tenantSvc,
		ChargeRepo: chgRepo,
		RegRepo:    regRepo,
		OrderRepo:  ordRepo,
	})
	registry := task.NewRegistry()
	task.RegisterHandlers(task.HandlersParams{
		Registry: registry,
		Email:    email.NoOpProvider{},
		Chat:     chat.NoOpProvider{},
	})
	processor := task.NewProcessor(task.ProcessorParams{
		DB:       db,
		Log:      log,
		Repo:     tskRepo,
		Registry: registry,
		Clock:    clk,
		Cfg:      cfg,
	})
	enqueuer := task.NewEnqueuer(task.EnqueuerParams{
		DB:    db,
		Repo:  tskRepo,
		GenID: node,
		Clock: clk,
		Cfg:   cfg,
	})

	engine := NewEngine(log, nil)
	NewServer(Params{
		Cfg:         cfg,
		Log:         log,
		DB:          db,
		GenID:       node,
		Clock:       clk,
		ReconSvc:    reconSvc,
		RecoverySvc: recoverySvc,
		Processor:   processor,
		Enqueuer:    enqueuer,
		TenantSvc:   tenantSvc,
		RegRepo:     regRepo,
		OrderRepo:   ordRepo,
		ChargeRepo:  chgRepo,
	}, engine)

	return &serverFixture{engine: engine, db: db, node: node, tenant: tenant, payments: payments}
}

func (f *serverFixture) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Host = testHost
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestWebhookMalformedBody(t *testing.T) {
	f := setupServer(t)
	w := f.do(t, http.MethodPost, "/api/webhooks/pagamento", []byte("{not json"))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookIgnoredEvent(t *testing.T) {
	f := setupServer(t)
	body := []byte(`{"event":"PAYMENT_CREATED","payment":{"id":"pay_1"}}`)
	w := f.do(t, http.MethodPost, "/api/webhooks/pagamento", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"Ignorado"}`, w.Body.String())
}

func TestWebhookSuccess(t *testing.T) {
	f := setupServer(t)
	order := &orderdomain.Order{
		ID:               f.node.Generate(),
		TenantID:         f.tenant.ID,
		ResponsibleID:    f.node.Generate(),
		PayerCPF:         "52998224725",
		GatewayPaymentID: "pay_1",
		Status:           orderdomain.StatusPending,
		AmountCents:      5000,
		Channel:          orderdomain.ChannelAvulso,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(order).Error)
	f.payments["pay_1"] = gateway.Payment{ID: "pay_1", Status: gateway.PaymentStatusConfirmed}

	body := []byte(`{"event":"PAYMENT_CONFIRMED","accountId":"acc_1","payment":{"id":"pay_1"}}`)
	w := f.do(t, http.MethodPost, "/api/webhooks/pagamento", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"Pedido atualizado com sucesso"}`, w.Body.String())

	var got orderdomain.Order
	require.NoError(t, f.db.First(&got, "id = ?", order.ID).Error)
	require.Equal(t, orderdomain.StatusPaid, got.Status)
}

func TestWebhookAwaitingPayment(t *testing.T) {
	f := setupServer(t)
	order := &orderdomain.Order{
		ID:               f.node.Generate(),
		TenantID:         f.tenant.ID,
		ResponsibleID:    f.node.Generate(),
		PayerCPF:         "52998224725",
		GatewayPaymentID: "pay_1",
		Status:           orderdomain.StatusPending,
		AmountCents:      5000,
		Channel:          orderdomain.ChannelAvulso,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(order).Error)
	f.payments["pay_1"] = gateway.Payment{ID: "pay_1", Status: "PENDING"}

	body := []byte(`{"event":"PAYMENT_RECEIVED","accountId":"acc_1","payment":{"id":"pay_1"}}`)
	w := f.do(t, http.MethodPost, "/api/webhooks/pagamento", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"Aguardando pagamento"}`, w.Body.String())
}

func TestWebhookUnresolvedTenant(t *testing.T) {
	f := setupServer(t)
	body := []byte(`{"event":"PAYMENT_RECEIVED","accountId":"acc_unknown","payment":{"id":"pay_1"}}`)
	w := f.do(t, http.MethodPost, "/api/webhooks/pagamento", body)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookGatewayFailure(t *testing.T) {
	f := setupServer(t)
	// No payment registered: the detail fetch 404s, which the service
	// reports as a gateway failure so the webhook is redelivered.
	body := []byte(`{"event":"PAYMENT_RECEIVED","accountId":"acc_1","payment":{"id":"pay_missing"}}`)
	w := f.do(t, http.MethodPost, "/api/webhooks/pagamento", body)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookUnmatchedOrder(t *testing.T) {
	f := setupServer(t)
	f.payments["pay_1"] = gateway.Payment{ID: "pay_1", Status: gateway.PaymentStatusConfirmed}
	body := []byte(`{"event":"PAYMENT_RECEIVED","accountId":"acc_1","payment":{"id":"pay_1"}}`)
	w := f.do(t, http.MethodPost, "/api/webhooks/pagamento", body)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecoverLinkInvalidCPF(t *testing.T) {
	f := setupServer(t)
	w := f.do(t, http.MethodPost, "/api/recuperar-link", []byte(`{"cpf":"123"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecoverLinkUnknownCPF(t *testing.T) {
	f := setupServer(t)
	w := f.do(t, http.MethodPost, "/api/recuperar-link", []byte(`{"cpf":"529.982.247-25"}`))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"mensagem":"Crie uma inscrição para receber o link de pagamento"}`, w.Body.String())
}

func TestRecoverLinkReturnsLink(t *testing.T) {
	f := setupServer(t)
	charge := &chargedomain.Charge{
		ID:             f.node.Generate(),
		TenantID:       f.tenant.ID,
		OrderID:        f.node.Generate(),
		IdempotencyKey: "52998224725",
		PayerName:      "Maria Silva",
		InvoiceURL:     "https://pay.example.com/abc",
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(charge).Error)

	w := f.do(t, http.MethodPost, "/api/recuperar-link", []byte(`{"cpf":"529.982.247-25"}`))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"link_pagamento":"https://pay.example.com/abc","nomeUsuario":"Maria Silva"}`, w.Body.String())
}

func TestProcessTasksEndpoint(t *testing.T) {
	f := setupServer(t)
	w := f.do(t, http.MethodGet, "/api/tasks/processar", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK     bool `json:"ok"`
		Picked int  `json:"picked"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.Zero(t, resp.Picked)
}

func TestCreateRegistration(t *testing.T) {
	f := setupServer(t)
	ownerID := f.node.Generate()
	eventID := f.node.Generate()
	body := []byte(fmt.Sprintf(
		`{"nome":"Maria Silva","cpf":"529.982.247-25","evento_id":"%s","owner_id":"%s"}`,
		eventID, ownerID,
	))
	w := f.do(t, http.MethodPost, "/api/inscricoes", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var got registrationdomain.Registration
	require.NoError(t, f.db.First(&got, "tenant_id = ?", f.tenant.ID).Error)
	require.Equal(t, registrationdomain.StatusPending, got.Status)
	require.Equal(t, "52998224725", got.CPF)
}

func TestCreateOrderWithRegistration(t *testing.T) {
	f := setupServer(t)
	reg := &registrationdomain.Registration{
		ID:        f.node.Generate(),
		TenantID:  f.tenant.ID,
		OwnerID:   f.node.Generate(),
		Name:      "Maria Silva",
		CPF:       "52998224725",
		EventID:   f.node.Generate(),
		Status:    registrationdomain.StatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(reg).Error)

	body := []byte(fmt.Sprintf(
		`{"inscricao_id":"%s","responsavel_id":"%s","canal":"inscricao","valor_centavos":5000,"cpf":"529.982.247-25","nome":"Maria Silva","email":"maria@example.com","link_pagamento":"https://pay.example.com/abc","vencimento":"2026-04-01"}`,
		reg.ID, reg.OwnerID,
	))
	w := f.do(t, http.MethodPost, "/api/pedidos", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var gotReg registrationdomain.Registration
	require.NoError(t, f.db.First(&gotReg, "id = ?", reg.ID).Error)
	require.Equal(t, registrationdomain.StatusAwaitingPayment, gotReg.Status)
	require.NotNil(t, gotReg.OrderID)

	var chargeCount int64
	require.NoError(t, f.db.Model(&chargedomain.Charge{}).Count(&chargeCount).Error)
	require.EqualValues(t, 1, chargeCount)

	var queued taskdomain.Task
	require.NoError(t, f.db.First(&queued, "event = ?", task.EventChargeCreated).Error)
	require.Equal(t, taskdomain.StatusPending, queued.Status)
}

func TestCreateOrderDuplicateRegistrationReturnsExisting(t *testing.T) {
	f := setupServer(t)
	reg := &registrationdomain.Registration{
		ID:        f.node.Generate(),
		TenantID:  f.tenant.ID,
		OwnerID:   f.node.Generate(),
		Name:      "Maria Silva",
		CPF:       "52998224725",
		EventID:   f.node.Generate(),
		Status:    registrationdomain.StatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.db.Create(reg).Error)

	body := []byte(fmt.Sprintf(
		`{"inscricao_id":"%s","responsavel_id":"%s","canal":"inscricao","valor_centavos":5000,"cpf":"529.982.247-25","nome":"Maria Silva","link_pagamento":"https://pay.example.com/abc"}`,
		reg.ID, reg.OwnerID,
	))
	first := f.do(t, http.MethodPost, "/api/pedidos", body)
	require.Equal(t, http.StatusCreated, first.Code)

	second := f.do(t, http.MethodPost, "/api/pedidos", body)
	require.Equal(t, http.StatusOK, second.Code)

	var firstResp, secondResp struct {
		Pedido orderdomain.Order `json:"pedido"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResp))
	require.Equal(t, firstResp.Pedido.ID, secondResp.Pedido.ID)

	var orderCount int64
	require.NoError(t, f.db.Model(&orderdomain.Order{}).
		Where("registration_id = ? AND status <> ?", reg.ID, orderdomain.StatusCanceled).
		Count(&orderCount).Error)
	require.EqualValues(t, 1, orderCount)

	// The duplicate request must not enqueue a second notification.
	var taskCount int64
	require.NoError(t, f.db.Model(&taskdomain.Task{}).
		Where("event = ?", task.EventChargeCreated).
		Count(&taskCount).Error)
	require.EqualValues(t, 1, taskCount)
}

func TestCreateOrderValidation(t *testing.T) {
	f := setupServer(t)

	cases := []string{
		`{"responsavel_id":"1","canal":"whatever","valor_centavos":5000,"cpf":"529.982.247-25"}`,
		`{"responsavel_id":"1","canal":"loja","valor_centavos":0,"cpf":"529.982.247-25"}`,
		`{"responsavel_id":"1","canal":"loja","valor_centavos":5000,"cpf":"123"}`,
	}
	for _, body := range cases {
		w := f.do(t, http.MethodPost, "/api/pedidos", []byte(body))
		require.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}
