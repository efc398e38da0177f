package server

import (
	"context"
	"net/http"
	"time"

	clientdomain "github.com/facturo/facturo/internal/client/domain"
	"github.com/facturo/facturo/internal/config"
	"github.com/facturo/facturo/internal/currency"
	invoicedomain "github.com/facturo/facturo/internal/invoice/domain"
	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	"github.com/facturo/facturo/internal/providers/email"
	"github.com/facturo/facturo/internal/providers/pdf"
	"github.com/facturo/facturo/internal/scheduler"
	taxdomain "github.com/facturo/facturo/internal/tax/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	numberingSvc numberingdomain.Service
	invoiceSvc   invoicedomain.Service
	clientSvc    clientdomain.Service
	taxSvc       taxdomain.Calculator
	taxSource    taxdomain.JurisdictionSource
	currencySvc  currency.Service
	email        email.Provider
	pdf          pdf.Provider
	scheduler    *scheduler.Scheduler
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	NumberingSvc numberingdomain.Service
	InvoiceSvc   invoicedomain.Service
	ClientSvc    clientdomain.Service
	TaxSvc       taxdomain.Calculator
	TaxSource    taxdomain.JurisdictionSource
	CurrencySvc  currency.Service
	Email        email.Provider
	PDF          pdf.Provider
	Scheduler    *scheduler.Scheduler `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("server"),
		numberingSvc: p.NumberingSvc,
		invoiceSvc:   p.InvoiceSvc,
		clientSvc:    p.ClientSvc,
		taxSvc:       p.TaxSvc,
		taxSource:    p.TaxSource,
		currencySvc:  p.CurrencySvc,
		email:        p.Email,
		pdf:          p.PDF,
		scheduler:    p.Scheduler,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	tax := api.Group("/tax")
	tax.POST("/quote", s.QuoteTax)
	tax.GET("/jurisdictions", s.ListJurisdictions)

	currencies := api.Group("/currencies")
	currencies.GET("", s.ListCurrencies)
	currencies.POST("/convert", s.ConvertAmount)

	numbering := api.Group("/tenants/:tenant_id/numbering")
	numbering.POST("/allocate", s.AllocateInvoiceNumber)
	numbering.POST("/bulk-allocate", s.BulkAllocateInvoiceNumbers)
	numbering.GET("/preview", s.PreviewInvoiceNumber)
	numbering.POST("/validate", s.ValidateInvoiceNumber)
	numbering.GET("/exists", s.InvoiceNumberExists)
	numbering.POST("/reset", s.ResetNumbering)
	numbering.PATCH("/configuration", s.UpdateNumberingConfiguration)
	numbering.GET("/stats", s.NumberingStats)

	clients := api.Group("/tenants/:tenant_id/clients")
	clients.POST("", s.CreateClient)
	clients.GET("", s.ListClients)
	clients.GET("/:id", s.GetClientByID)

	invoices := api.Group("/tenants/:tenant_id/invoices")
	invoices.POST("", s.CreateInvoice)
	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoiceByID)
	invoices.POST("/:id/send", s.MarkInvoiceSent)
	invoices.POST("/:id/pay", s.MarkInvoicePaid)
	invoices.POST("/:id/check", s.CheckInvoice)
	invoices.GET("/:id/pdf", s.DownloadInvoicePDF)

	jobs := api.Group("/jobs")
	jobs.GET("/scheduler/stats", s.SchedulerStats)
	jobs.POST("/scheduler/run", s.RunSchedulerNow)
}
