package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-market/internal/config"
	"github.com/iliyamo/transit-ticket-market/internal/database"
	"github.com/iliyamo/transit-ticket-market/internal/handler"
	"github.com/iliyamo/transit-ticket-market/internal/payment"
	"github.com/iliyamo/transit-ticket-market/internal/queue"
	"github.com/iliyamo/transit-ticket-market/internal/repository"
	"github.com/iliyamo/transit-ticket-market/internal/router"
	"github.com/iliyamo/transit-ticket-market/internal/service"
)

func main() {
	// .env is optional; in containers configuration arrives as real env vars.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, database.Pool{
		MaxOpen: cfg.DBMaxOpenConns,
		MaxIdle: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	txnRepo := repository.NewTransactionRepo(db)

	// A nil publisher (no RABBITMQ_URL) turns every Publish into a no-op.
	events := queue.NewPublisher(cfg.AmqpURL)
	gateway := payment.NewStripeClient(cfg.StripeSecretKey)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTLDays)
	ticketSvc := service.NewTicketService(ticketRepo, userRepo)
	bookingSvc := service.NewBookingService(bookingRepo, ticketRepo, userRepo, events)
	paymentSvc := service.NewPaymentService(bookingRepo, ticketRepo, txnRepo, gateway, events, cfg.PaymentCurrency)
	userSvc := service.NewUserService(userRepo, events)

	if cfg.AmqpURL != "" {
		go queue.StartSettlementConsumer(cfg.AmqpURL)
	}

	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		Ticket:  handler.NewTicketHandler(ticketSvc),
		Booking: handler.NewBookingHandler(bookingSvc),
		Payment: handler.NewPaymentHandler(paymentSvc),
		Admin:   handler.NewAdminHandler(ticketSvc, bookingSvc, userSvc),
	}, cfg.JWTSecret, rdb, config.LoadRateLimitConfig(), config.LoadCacheConfig())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
