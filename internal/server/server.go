package server

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	chargedomain "github.com/inscrevia/inscrevia/internal/charge/domain"
	"github.com/inscrevia/inscrevia/internal/clock"
	"github.com/inscrevia/inscrevia/internal/config"
	obsmetrics "github.com/inscrevia/inscrevia/internal/observability/metrics"
	orderdomain "github.com/inscrevia/inscrevia/internal/order/domain"
	"github.com/inscrevia/inscrevia/internal/reconciliation"
	"github.com/inscrevia/inscrevia/internal/recovery"
	registrationdomain "github.com/inscrevia/inscrevia/internal/registration/domain"
	"github.com/inscrevia/inscrevia/internal/task"
	tenantdomain "github.com/inscrevia/inscrevia/internal/tenant/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	GenID       *snowflake.Node
	Clock       clock.Clock
	ReconSvc    *reconciliation.Service
	RecoverySvc *recovery.Service
	Processor   *task.Processor
	Enqueuer    *task.Enqueuer
	TenantSvc   tenantdomain.Service
	RegRepo     registrationdomain.Repository
	OrderRepo   orderdomain.Repository
	ChargeRepo  chargedomain.Repository
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type Server struct {
	cfg         config.Config
	log         *zap.Logger
	db          *gorm.DB
	genID       *snowflake.Node
	clock       clock.Clock
	reconSvc    *reconciliation.Service
	recoverySvc *recovery.Service
	processor   *task.Processor
	enqueuer    *task.Enqueuer
	tenantSvc   tenantdomain.Service
	regRepo     registrationdomain.Repository
	orderRepo   orderdomain.Repository
	chargeRepo  chargedomain.Repository
	metrics     *obsmetrics.Metrics
}

func NewServer(p Params, r *gin.Engine) *Server {
	s := &Server{
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		db:          p.DB,
		genID:       p.GenID,
		clock:       p.Clock,
		reconSvc:    p.ReconSvc,
		recoverySvc: p.RecoverySvc,
		processor:   p.Processor,
		enqueuer:    p.Enqueuer,
		tenantSvc:   p.TenantSvc,
		regRepo:     p.RegRepo,
		orderRepo:   p.OrderRepo,
		chargeRepo:  p.ChargeRepo,
		metrics:     p.Metrics,
	}
	s.registerRoutes(r)
	return s
}

func (s *Server) registerRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/webhooks/pagamento", s.HandleGatewayWebhook)
	api.POST("/recuperar-link", s.HandleRecoverLink)
	api.GET("/tasks/processar", s.HandleProcessTasks)
	api.POST("/inscricoes", s.CreateRegistration)
	api.POST("/pedidos", s.CreateOrder)
}

func NewEngine(log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)
