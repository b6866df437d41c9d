package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/swapwallet/internal/transport/httpapi/handler"
	"github.com/kislikjeka/swapwallet/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/swapwallet/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger          *logger.Logger
	AllowedOrigins  []string
	HealthHandler   *handler.HealthHandler
	NetworkHandler  *handler.NetworkHandler
	BalanceHandler  *handler.BalanceHandler
	FeeHandler      *handler.FeeHandler
	TransferHandler *handler.TransferHandler
	// JWTMiddleware protects the API routes when set
	JWTMiddleware func(http.Handler) http.Handler
	// RateLimit is requests per second per client; zero uses the default
	RateLimit float64
	RateBurst int
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit, cfg.RateBurst = 100, 20
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateBurst))

	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTMiddleware != nil {
			r.Use(cfg.JWTMiddleware)
		}

		if cfg.NetworkHandler != nil {
			r.Get("/networks", cfg.NetworkHandler.ListNetworks)
			r.Get("/networks/{network}", cfg.NetworkHandler.GetNetwork)
		}

		if cfg.BalanceHandler != nil {
			r.Get("/networks/{network}/balances/{address}", cfg.BalanceHandler.GetBalances)
		}

		if cfg.FeeHandler != nil {
			r.Post("/fees/estimate", cfg.FeeHandler.EstimateFee)
		}

		if cfg.TransferHandler != nil {
			r.Route("/transfers/{swapID}", func(r chi.Router) {
				r.Get("/", cfg.TransferHandler.GetTransfer)
				r.Post("/prepare", cfg.TransferHandler.PrepareTransfer)
				r.Post("/submit", cfg.TransferHandler.SubmitTransfer)
				r.Post("/resume", cfg.TransferHandler.ResumeTransfer)
			})
		}
	})

	return r
}
