package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/talent-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/talent-booking/internal/database"   // MySQL connection pool
	"github.com/iliyamo/talent-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/talent-booking/internal/middleware" // Rate limiting and caching
	"github.com/iliyamo/talent-booking/internal/payment"    // Stripe client and escrow initiator
	"github.com/iliyamo/talent-booking/internal/queue"      // Booking state watcher
	"github.com/iliyamo/talent-booking/internal/repository" // Data access layer
	"github.com/iliyamo/talent-booking/internal/router"     // Route registration
)

func main() {
	_ = godotenv.Load() // Load .env if present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Repositories share the single connection pool.
	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	chats := repository.NewChatRepo(db)
	jobs := repository.NewJobRepo(db)

	// Payment stack: raw provider client plus the escrow orchestration.
	stripe := payment.NewStripeClient(cfg.StripeSecretKey, "")
	escrow := payment.NewEscrowInitiator(bookings, profiles, stripe, cfg.PaymentCurrency, cfg.StripePublicKey)

	// The watcher consumes booking.updated events and initiates escrow
	// when a booking becomes fully signed. It reconnects on its own, so
	// a broker outage never takes the API down with it.
	watcher := queue.NewBookingWatcher(bookings, escrow)
	go func() {
		if err := watcher.Start(); err != nil {
			log.Printf("booking watcher stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance

	// Redis backs both the global token-bucket rate limiter and the
	// response cache on the job browse endpoints.
	rdb := config.NewRedisClient()
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	} else {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, profiles, tokens)
	profileH := handler.NewProfileHandler(profiles)
	bookingH := handler.NewBookingHandler(cfg, bookings, chats, jobs)
	chatH := handler.NewChatHandler(chats)
	paymentH := handler.NewPaymentHandler(escrow)
	jobH := handler.NewJobHandler(jobs)

	// Routes.
	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authH, profileH, cfg.JWTSecret)
	router.RegisterBooking(e, bookingH, paymentH, cfg.JWTSecret)
	router.RegisterChat(e, chatH, cfg.JWTSecret)
	router.RegisterJob(e, jobH, cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
