package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/bikemetro/bikemetro/internal/config"
	"github.com/bikemetro/bikemetro/internal/database"
	"github.com/bikemetro/bikemetro/internal/handler"
	"github.com/bikemetro/bikemetro/internal/middleware"
	"github.com/bikemetro/bikemetro/internal/queue"
	"github.com/bikemetro/bikemetro/internal/repository"
	"github.com/bikemetro/bikemetro/internal/router"
	"github.com/bikemetro/bikemetro/internal/worker"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	stations := repository.NewStationRepo(db)
	slots := repository.NewSlotRepo(db)
	reservations := repository.NewReservationRepo(db)
	payments := repository.NewPaymentRepo(db)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterAPI(e, router.API{
		Stations:     handler.NewStationHandler(stations, slots),
		Reservations: handler.NewReservationHandler(cfg, reservations, slots, stations, payments),
		Payments:     handler.NewPaymentHandler(payments),
		JWTSecret:    cfg.JWTSecret,
		Cache:        middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	// Notification consumer: reads reservation events off the broker
	// and appends them to logs/notificaciones.log.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	// Expiry sweep: frees slots held by reservations whose pickup
	// window lapsed.
	sweeper := &worker.Sweeper{Reservations: reservations, Interval: cfg.SweepInterval}
	go sweeper.Run(context.Background())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
