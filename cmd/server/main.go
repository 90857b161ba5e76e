package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/park-itinerary/internal/config"
	"github.com/iliyamo/park-itinerary/internal/database"
	"github.com/iliyamo/park-itinerary/internal/handler"
	"github.com/iliyamo/park-itinerary/internal/middleware"
	"github.com/iliyamo/park-itinerary/internal/queue"
	"github.com/iliyamo/park-itinerary/internal/repository"
	"github.com/iliyamo/park-itinerary/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	areaRepo := repository.NewParkAreaRepo(db)
	attractionRepo := repository.NewAttractionRepo(db)
	itineraryRepo := repository.NewItineraryRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, customerRepo, tokenRepo)
	catalogHandler := handler.NewCatalogHandler(areaRepo, attractionRepo)
	itineraryHandler := handler.NewItineraryHandler(customerRepo, attractionRepo, areaRepo, itineraryRepo)

	// Redis is optional: a nil client turns the cache and rate limiter
	// into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; response cache and rate limiting disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogHandler, cache)
	router.RegisterItinerary(e, itineraryHandler, cfg.JWTSecret)

	// Background consumer logs planned itineraries; it reconnects on its
	// own and never takes the server down.
	go func() {
		if err := queue.StartItineraryConsumer(); err != nil {
			log.Printf("itinerary consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
