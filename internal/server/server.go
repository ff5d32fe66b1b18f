package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tubigan/waterworks/internal/authorization"
	"github.com/tubigan/waterworks/internal/billing"
	billingdomain "github.com/tubigan/waterworks/internal/billing/domain"
	"github.com/tubigan/waterworks/internal/client"
	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	"github.com/tubigan/waterworks/internal/config"
	"github.com/tubigan/waterworks/internal/fee"
	feedomain "github.com/tubigan/waterworks/internal/fee/domain"
	"github.com/tubigan/waterworks/internal/message"
	messagedomain "github.com/tubigan/waterworks/internal/message/domain"
	obsmiddleware "github.com/tubigan/waterworks/internal/observability/logger"
	obsmetrics "github.com/tubigan/waterworks/internal/observability/metrics"
	obstracing "github.com/tubigan/waterworks/internal/observability/tracing"
	"github.com/tubigan/waterworks/internal/payment"
	paymentdomain "github.com/tubigan/waterworks/internal/payment/domain"
	"github.com/tubigan/waterworks/internal/providers/pdf"
	"github.com/tubigan/waterworks/internal/rateconfig"
	rateconfigdomain "github.com/tubigan/waterworks/internal/rateconfig/domain"
	"github.com/tubigan/waterworks/internal/ratelimit"
	"github.com/tubigan/waterworks/internal/user"
	userdomain "github.com/tubigan/waterworks/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	client.Module,
	rateconfig.Module,
	billing.Module,
	payment.Module,
	fee.Module,
	message.Module,
	user.Module,
	pdf.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(log, metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	authzSvc      authorization.Service
	clientSvc     clientdomain.Service
	rateConfigSvc rateconfigdomain.Service
	billingSvc    billingdomain.Service
	paymentSvc    paymentdomain.Service
	feeSvc        feedomain.Service
	messageSvc    messagedomain.Service
	userSvc       userdomain.Service
	pdfProvider   pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	AuthzSvc      authorization.Service
	ClientSvc     clientdomain.Service
	RateConfigSvc rateconfigdomain.Service
	BillingSvc    billingdomain.Service
	PaymentSvc    paymentdomain.Service
	FeeSvc        feedomain.Service
	MessageSvc    messagedomain.Service
	UserSvc       userdomain.Service
	PDFProvider   pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		log:           p.Log.Named("http.server"),
		genID:         p.GenID,
		authzSvc:      p.AuthzSvc,
		clientSvc:     p.ClientSvc,
		rateConfigSvc: p.RateConfigSvc,
		billingSvc:    p.BillingSvc,
		paymentSvc:    p.PaymentSvc,
		feeSvc:        p.FeeSvc,
		messageSvc:    p.MessageSvc,
		userSvc:       p.UserSvc,
		pdfProvider:   p.PDFProvider,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.OfficeContext())

	clients := api.Group("/clients")
	clients.GET("", s.RequireOffice(authorization.ObjectClient, authorization.ActionView), s.ListClients)
	clients.POST("", s.RequireOffice(authorization.ObjectClient, authorization.ActionCreate), s.CreateClient)
	clients.GET("/:id", s.RequireOffice(authorization.ObjectClient, authorization.ActionView), s.GetClientByID)
	clients.PATCH("/:id", s.RequireOffice(authorization.ObjectClient, authorization.ActionUpdate), s.UpdateClient)
	clients.POST("/:id/disconnect", s.RequireOffice(authorization.ObjectClient, authorization.ActionUpdate), s.DisconnectClient)
	clients.GET("/code/:code", s.RequireOffice(authorization.ObjectClient, authorization.ActionView), s.GetClientByCode)

	billings := api.Group("/billings")
	billings.GET("/config", s.RequireOffice(authorization.ObjectBillingConfig, authorization.ActionView), s.GetBillingConfig)
	billings.POST("/config", s.RequireOffice(authorization.ObjectBillingConfig, authorization.ActionUpdate), s.UpdateBillingConfig)
	billings.POST("/generate-billing", s.RequireOffice(authorization.ObjectBilling, authorization.ActionGenerate), s.GenerateBilling)
	billings.POST("", s.RequireOffice(authorization.ObjectBilling, authorization.ActionCreate), s.CreateBillingRecord)
	billings.GET("", s.RequireOffice(authorization.ObjectBilling, authorization.ActionView), s.ListBillingsByPeriod)
	billings.GET("/:id", s.RequireOffice(authorization.ObjectBilling, authorization.ActionView), s.GetBillingByID)
	billings.GET("/:id/statement.pdf", s.RequireOffice(authorization.ObjectBilling, authorization.ActionView), s.DownloadStatement)
	billings.GET("/client/:id", s.RequireOffice(authorization.ObjectBilling, authorization.ActionView), s.ListBillingsByClient)

	payments := api.Group("/payments")
	payments.POST("", s.RequireOffice(authorization.ObjectPayment, authorization.ActionPay), s.RecordPayment)
	payments.GET("", s.RequireOffice(authorization.ObjectPayment, authorization.ActionView), s.ListPaymentsByDate)
	payments.GET("/client/:id", s.RequireOffice(authorization.ObjectPayment, authorization.ActionView), s.ListPaymentsByClient)

	fees := api.Group("/fees")
	fees.POST("", s.RequireOffice(authorization.ObjectFee, authorization.ActionCreate), s.CreateFee)
	fees.GET("/client/:id", s.RequireOffice(authorization.ObjectFee, authorization.ActionView), s.ListFeesByClient)
	fees.PATCH("/:id", s.RequireOffice(authorization.ObjectFee, authorization.ActionUpdate), s.UpdateFee)
	fees.POST("/:id/pay", s.RequireOffice(authorization.ObjectFee, authorization.ActionUpdate), s.PayFee)

	messages := api.Group("/messages")
	messages.POST("", s.RequireOffice(authorization.ObjectMessage, authorization.ActionCreate), s.SendMessage)
	messages.GET("/poll", s.RequireOffice(authorization.ObjectMessage, authorization.ActionView), s.PollMessages)

	users := api.Group("/users")
	users.GET("", s.RequireOffice(authorization.ObjectUser, authorization.ActionView), s.ListUsers)
	users.POST("", s.RequireOffice(authorization.ObjectUser, authorization.ActionCreate), s.CreateUser)
	users.GET("/:id", s.RequireOffice(authorization.ObjectUser, authorization.ActionView), s.GetUserByID)
	users.PATCH("/:id", s.RequireOffice(authorization.ObjectUser, authorization.ActionUpdate), s.UpdateUser)
	users.POST("/:id/deactivate", s.RequireOffice(authorization.ObjectUser, authorization.ActionUpdate), s.DeactivateUser)

	api.GET("/dashboard", s.RequireOffice(authorization.ObjectDashboard, authorization.ActionView), s.Dashboard)
}
