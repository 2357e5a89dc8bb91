// Package http wires the HTTP API.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockledger/internal/domain/catalog/product"
	"stockledger/internal/domain/catalog/supplier"
	"stockledger/internal/domain/ledger"
	"stockledger/internal/domain/purchase"
	"stockledger/internal/domain/wastage"
	"stockledger/internal/infrastructure/http/handlers"
	"stockledger/internal/infrastructure/http/middleware"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool    *postgres.Pool
	Logger  *logger.Logger
	Version string

	// JWTValidator for token validation (tokens issued by external identity)
	JWTValidator middleware.JWTValidator

	Engine          *ledger.Engine
	PurchaseService *purchase.Service
	WastageService  *wastage.Service
	ProductService  *product.Service
	SupplierService *supplier.Service
	Audit           *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Prometheus metrics (no auth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 - everything behind bearer auth
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTValidator))
	{
		ledgerHandler := handlers.NewLedgerHandler(cfg.Engine)
		ledgerGroup := v1.Group("/ledger")
		{
			ledgerGroup.POST("/movements", ledgerHandler.RecordMovement)
			ledgerGroup.GET("/movements", ledgerHandler.GlobalLedger)
			ledgerGroup.GET("/products/:productId/movements", ledgerHandler.ProductHistory)
			ledgerGroup.GET("/products/:productId/balance", ledgerHandler.ProductBalance)
		}

		purchaseHandler := handlers.NewPurchaseHandler(cfg.PurchaseService, cfg.Audit)
		purchases := v1.Group("/purchases")
		{
			purchases.POST("", purchaseHandler.Create)
			purchases.GET("", purchaseHandler.List)
			purchases.GET("/:id", purchaseHandler.Get)
		}

		wastageHandler := handlers.NewWastageHandler(cfg.WastageService, cfg.Audit)
		wastages := v1.Group("/wastages")
		{
			wastages.POST("", wastageHandler.Create)
			wastages.GET("", wastageHandler.List)
			wastages.GET("/:id", wastageHandler.Get)
		}

		productHandler := handlers.NewProductHandler(cfg.ProductService, cfg.Audit)
		products := v1.Group("/catalog/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Deactivate)
		}

		supplierHandler := handlers.NewSupplierHandler(cfg.SupplierService, cfg.Audit)
		suppliers := v1.Group("/catalog/suppliers")
		{
			suppliers.POST("", supplierHandler.Create)
			suppliers.GET("", supplierHandler.List)
			suppliers.GET("/:id", supplierHandler.Get)
			suppliers.PUT("/:id", supplierHandler.Update)
			suppliers.DELETE("/:id", supplierHandler.Deactivate)
		}
	}

	return router
}
