package main

import (
	"net/http"

	"tenniscourts/internal/admin"
	bookingshandler "tenniscourts/internal/bookings/handler"
	bookingsrepo "tenniscourts/internal/bookings/repository"
	bookingsservice "tenniscourts/internal/bookings/service"
	bookingsvalidator "tenniscourts/internal/bookings/validator"
	"tenniscourts/internal/charges/cache"
	chargeshandler "tenniscourts/internal/charges/handler"
	chargesrepo "tenniscourts/internal/charges/repository"
	chargesservice "tenniscourts/internal/charges/service"
	"tenniscourts/internal/events"
	"tenniscourts/internal/health"
	usershandler "tenniscourts/internal/users/handler"
	usersrepo "tenniscourts/internal/users/repository"
	usersservice "tenniscourts/internal/users/service"
	"tenniscourts/internal/vouchers"
	vouchershandler "tenniscourts/internal/vouchers/handler"
	"tenniscourts/pkg/app"
	"tenniscourts/pkg/config"
	"tenniscourts/pkg/metrics"
	"tenniscourts/pkg/middleware"
	"tenniscourts/pkg/pdf"
	"tenniscourts/pkg/validation"
)

const ServiceName = "courts"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Tennis Courts service")

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(ServiceName)
	}

	publisher, err := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	serverApp := app.NewApplication(cfg, m)
	registerRoutes(serverApp, cfg, publisher, m)
	serverApp.Run()
}

func registerRoutes(a *app.Application, cfg *config.Config, publisher events.Publisher, m *metrics.Metrics) {
	// Repositories
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewBookingLockRepository(cfg)
	chargeRepo := chargesrepo.NewMongoChargeRepository(cfg)
	userRepo := usersrepo.NewMongoUserRepository(cfg)

	// Services
	chargeCache := cache.New(cfg.ChargeCacheTTL, cfg.ChargeCacheSize)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		m,
		cfg,
	)
	chargeService := chargesservice.NewChargeService(
		chargeRepo,
		chargeCache,
		validation.New(cfg.Log),
		publisher,
		m,
		cfg,
	)
	userService := usersservice.NewUserService(userRepo, validation.New(cfg.Log), cfg)
	resolver := vouchers.NewResolver(chargeService, bookingRepo, m, cfg)
	renderer := pdf.New(cfg.PDFRendererPath, cfg.Log)

	// Handlers
	healthHandler := health.NewHealthHandler(cfg.Client.Mongo, chargeService, renderer.Available(), cfg)
	userHandler := usershandler.NewUserHandler(userService, cfg.Log)
	adminHandler := admin.NewHandler(admin.NewAuthenticator(cfg), cfg)
	bookingHandler := bookingshandler.NewBookingHandler(bookingService, cfg.Log)
	chargeHandler := chargeshandler.NewChargeHandler(chargeService, cfg.Log)
	voucherHandler := vouchershandler.NewVoucherHandler(resolver, renderer, cfg.Log)

	// Route middlewares
	idempotencyStore := middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, middleware.ClientIP, cfg.Log)
	requireAdmin := middleware.RequireBearer(cfg.AdminToken, cfg.Log)
	rateLimited := middleware.RateLimit(loginLimiter)
	idempotent := middleware.Idempotency(idempotencyStore)

	a.Route(http.MethodGet, "/health", healthHandler.Health)
	a.Route(http.MethodGet, "/ready", healthHandler.Ready)

	a.Route(http.MethodPost, "/api/users/register", userHandler.Register)
	a.Route(http.MethodPost, "/api/users/login", userHandler.Login, rateLimited)
	a.Route(http.MethodPost, "/api/admin/login", adminHandler.Login, rateLimited)

	a.Route(http.MethodGet, "/api/availability/:date", bookingHandler.Availability)
	a.Route(http.MethodPost, "/api/bookings", bookingHandler.Create, idempotent)
	a.Route(http.MethodGet, "/api/my-bookings/:email", bookingHandler.ListByEmail)
	a.Route(http.MethodGet, "/api/bookings", bookingHandler.ListActive, requireAdmin)
	a.Route(http.MethodGet, "/api/bookings/day/:date", bookingHandler.ListByDate, requireAdmin)
	a.Route(http.MethodPost, "/api/bookings/:id/cancel", bookingHandler.Cancel, requireAdmin)

	a.Route(http.MethodPost, "/api/payments/session", chargeHandler.CreateSession)
	a.Route(http.MethodPost, "/api/payments/charge", chargeHandler.Record, idempotent)
	a.Route(http.MethodGet, "/api/payments/charges", chargeHandler.List, requireAdmin)

	a.Route(http.MethodGet, "/voucher/:id", voucherHandler.Get)

	a.OnShutdown("idempotency-store", idempotencyStore.Stop)
	a.OnShutdown("login-rate-limiter", loginLimiter.Stop)
	a.OnShutdown("charge-cache", chargeCache.Stop)
	a.OnShutdown("event-publisher", func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})

	cfg.Log.Info("Routes registered", "database", cfg.MongoDatabaseName)
}
