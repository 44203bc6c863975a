package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/merchpay/internal/metrics"
	"github.com/polkiloo/merchpay/internal/server/http/handlers"
	"github.com/polkiloo/merchpay/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware. registry may be nil.
func Setup(facade handlers.LedgerFacade, logger *slog.Logger, registry *metrics.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	if registry != nil {
		engine.Use(middleware.Metrics(registry))
		engine.GET("/metrics", gin.WrapH(registry.Handler()))
	}
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	merchantHandler := handlers.NewMerchantHandler(facade)
	ledgerHandler := handlers.NewLedgerHandler(facade, facade, facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	wallets := api.Group("/wallets")
	wallets.POST("/register", authHandler.Register)
	wallets.POST("/login", authHandler.Login)

	api.GET("/merchants/:wallet", merchantHandler.Get)
	api.GET("/points/:wallet", ledgerHandler.Points)

	session := api.Group("")
	session.Use(middleware.AuthRequired(facade))
	session.POST("/merchants", merchantHandler.Register)
	session.PUT("/merchants/:wallet/rates", merchantHandler.UpdateRates)
	session.POST("/payments", ledgerHandler.Pay)
	session.POST("/redemptions", ledgerHandler.Redeem)

	return engine
}
