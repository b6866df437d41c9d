package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kislikjeka/swapwallet/internal/infra/gateway/evmrpc"
	"github.com/kislikjeka/swapwallet/internal/infra/postgres"
	infraRedis "github.com/kislikjeka/swapwallet/internal/infra/redis"
	"github.com/kislikjeka/swapwallet/internal/infra/signer"
	"github.com/kislikjeka/swapwallet/internal/platform/balance"
	"github.com/kislikjeka/swapwallet/internal/platform/fee"
	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/internal/platform/tracker"
	"github.com/kislikjeka/swapwallet/internal/transport/httpapi"
	"github.com/kislikjeka/swapwallet/internal/transport/httpapi/handler"
	"github.com/kislikjeka/swapwallet/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/swapwallet/pkg/config"
	"github.com/kislikjeka/swapwallet/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("Starting swapwallet API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	networksCfg, err := config.LoadNetworksConfig(cfg.NetworksConfigPath)
	if err != nil {
		log.Error("Failed to load networks config", "error", err)
		os.Exit(1)
	}
	registry, err := network.NewRegistry(networksCfg)
	if err != nil {
		log.Error("Invalid networks config", "error", err)
		os.Exit(1)
	}
	log.Info("Network registry loaded", "networks", len(registry.Networks()))

	db, err := postgres.NewPool(ctx, postgres.Config{
		URL:             cfg.DatabaseURL,
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
	})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	redisClient, err := infraRedis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info("Redis connection established")

	gateway := evmrpc.NewClient(registry, evmrpc.Options{RateLimit: cfg.RPCRateLimit}, log)
	defer gateway.Close()

	balances := balance.NewResolver(registry, gateway, log)

	feeData := fee.NewFeeDataResolver(gateway, log)
	dispatcher := fee.NewDispatcher(registry, map[network.FeeStrategy]fee.Strategy{
		network.FeeStrategyStandard:    fee.NewStandardStrategy(feeData, gateway),
		network.FeeStrategyRollupL1Fee: fee.NewRollupStrategy(gateway),
	}, log)

	var walletSigner tracker.WalletSigner
	if cfg.SigningEnabled() {
		keySigner, err := signer.NewKeySigner(cfg.SignerPrivateKey, gateway, log)
		if err != nil {
			log.Error("Failed to load signer key", "error", err)
			os.Exit(1)
		}
		walletSigner = keySigner
		log.Info("Server-side signing enabled", "address", keySigner.Address())
	} else {
		log.Warn("SIGNER_PRIVATE_KEY not configured, transfers can be prepared but not submitted")
	}

	swapRepo := postgres.NewSwapTransactionRepository(db.Pool)
	transfers := tracker.NewService(&tracker.Config{ConfirmationTimeout: cfg.ConfirmationTimeout}, tracker.Dependencies{
		Gas:    dispatcher,
		Signer: walletSigner,
		Waiter: gateway,
		Swaps:  swapRepo,
		Cache:  infraRedis.NewAttemptCache(redisClient, cfg.AttemptCacheTTL, log),
	}, log, nil)
	log.Info("Transfer tracker initialized", "confirmation_timeout", cfg.ConfirmationTimeout)

	var jwtMiddleware func(http.Handler) http.Handler
	if cfg.JWTSecret != "" {
		jwtMiddleware = middleware.JWTMiddleware(middleware.NewJWTService(cfg.JWTSecret))
	} else {
		log.Warn("JWT_SECRET not configured, API is unauthenticated")
	}

	r := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		AllowedOrigins: cfg.AllowedOrigins,
		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": db,
			"redis": handler.PingerFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		}),
		NetworkHandler:  handler.NewNetworkHandler(registry),
		BalanceHandler:  handler.NewBalanceHandler(balances),
		FeeHandler:      handler.NewFeeHandler(registry, dispatcher),
		TransferHandler: handler.NewTransferHandler(registry, transfers, swapRepo),
		JWTMiddleware:   jwtMiddleware,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}

	// pending confirmation waits stop here; their hashes stay cached for resume
	transfers.Close()
	log.Info("Transfer tracker stopped")

	log.Info("Server stopped gracefully")
}
