package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/coinbridge/coinbridge/internal/auth"
	"github.com/coinbridge/coinbridge/internal/config"
	"github.com/coinbridge/coinbridge/internal/funding"
	"github.com/coinbridge/coinbridge/internal/identity"
	"github.com/coinbridge/coinbridge/internal/ledger"
	"github.com/coinbridge/coinbridge/internal/middleware"
	"github.com/coinbridge/coinbridge/internal/transfer"
	"github.com/coinbridge/coinbridge/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger

	// Transfers is set during Setup so main can reach the reconciliation sweep.
	Transfers *transfer.Service
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d *Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// The browser front-end is served from another origin; every response,
	// including pre-flight probes and errors, must carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	RegisterHealthRoutes(app, d)

	identityRepo := identity.NewPostgresRepository(d.DB)
	identitySvc := identity.NewService(identityRepo)
	walletStore := wallet.NewPostgresStore(d.DB)
	// One lock registry across every service that mutates wallet rows.
	walletLocks := wallet.NewUserLocks()
	transferLedger := ledger.NewPostgresLedger(d.DB)
	journal := transfer.NewRedisJournal(d.Cache)

	authSvc := auth.NewService(d.Cfg, identityRepo)
	authHandler := auth.NewHandler(identitySvc, authSvc)
	walletHandler := wallet.NewHandler(walletStore)
	transferSvc := transfer.NewService(identityRepo, walletStore, transferLedger, journal, walletLocks, d.Logger, d.Cfg.Currency)
	transferHandler := transfer.NewHandler(transferSvc)
	fundingSvc := funding.NewService(walletStore, walletLocks, d.Cfg.Currency)
	fundingHandler := funding.NewHandler(fundingSvc)

	d.Transfers = transferSvc

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals(middleware.RequestIDKey).(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterIdentityRoutes(api, identitySvc, walletStore, d)
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(d.Cfg))
	RegisterWalletRoutes(protected, walletHandler)
	RegisterTransferRoutes(protected, transferHandler)
	idem := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	RegisterFundingRoutes(protected, fundingHandler, idem)

	return nil
}
