// Package main is the entry point for the stock ledger API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockledger/internal/config"
	"stockledger/internal/domain/catalog/product"
	"stockledger/internal/domain/catalog/supplier"
	"stockledger/internal/domain/ledger"
	"stockledger/internal/domain/purchase"
	"stockledger/internal/domain/wastage"
	"stockledger/internal/infrastructure/auth"
	httpapi "stockledger/internal/infrastructure/http"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
)

func main() {
	// .env is optional, real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	log.Infow("starting stock ledger server", "env", cfg.App.Env, "version", cfg.App.Version)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.DSN)
	poolCfg.MaxConns = cfg.DB.MaxConns
	poolCfg.MinConns = cfg.DB.MinConns
	poolCfg.MaxConnLifetime = cfg.DB.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.DB.ConnMaxIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("failed to ping database", "error", err)
	}
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	movementRepo := postgres.NewMovementRepo(txManager)
	productRepo := postgres.NewProductRepo(txManager)
	supplierRepo := postgres.NewSupplierRepo(txManager)
	purchaseRepo := postgres.NewPurchaseRepo(txManager)
	wastageRepo := postgres.NewWastageRepo(txManager)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Domain services ---
	engine := ledger.NewEngine(movementRepo, productRepo, txManager)
	purchaseService := purchase.NewService(purchaseRepo, supplierRepo, engine, txManager)
	wastageService := wastage.NewService(wastageRepo, engine, txManager)
	productService := product.NewService(productRepo)
	supplierService := supplier.NewService(supplierRepo)

	// --- JWT validation (tokens issued by the external identity service) ---
	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	})

	// --- Router ---
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Pool:            pool,
		Logger:          log,
		Version:         cfg.App.Version,
		JWTValidator:    jwtService,
		Engine:          engine,
		PurchaseService: purchaseService,
		WastageService:  wastageService,
		ProductService:  productService,
		SupplierService: supplierService,
		Audit:           auditService,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
