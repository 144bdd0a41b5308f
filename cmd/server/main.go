package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/avelios/catalog-api/internal/config"
	"github.com/avelios/catalog-api/internal/database"
	"github.com/avelios/catalog-api/internal/handler"
	"github.com/avelios/catalog-api/internal/middleware"
	"github.com/avelios/catalog-api/internal/queue"
	"github.com/avelios/catalog-api/internal/repository"
	"github.com/avelios/catalog-api/internal/router"
	"github.com/avelios/catalog-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db, cfg.RefreshTTLDays)
	products := repository.NewProductRepo(db)

	auth := service.NewAuthService(users, tokens, service.NewQueueNotifier(),
		cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	// Welcome-email consumer runs for the life of the process with its
	// own reconnect loop.
	go func() {
		if err := queue.StartWelcomeConsumer(); err != nil {
			log.Printf("welcome consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e,
		handler.NewAuthHandler(auth),
		handler.NewProductHandler(products),
		middleware.Authenticate(cfg.JWTSecret, users),
		rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
