package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/pavannitheesh/Coupon-backend/internal/allocator"
	"github.com/pavannitheesh/Coupon-backend/internal/config"
	"github.com/pavannitheesh/Coupon-backend/internal/database"
	"github.com/pavannitheesh/Coupon-backend/internal/guard"
	"github.com/pavannitheesh/Coupon-backend/internal/handler"
	"github.com/pavannitheesh/Coupon-backend/internal/queue"
	"github.com/pavannitheesh/Coupon-backend/internal/repository"
	"github.com/pavannitheesh/Coupon-backend/internal/router"
)

func main() {
	_ = godotenv.Load() // optional .env; real env vars take precedence

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Provision(ctx, db, cfg); err != nil {
		cancel()
		log.Fatalf("provision schema: %v", err)
	}
	cancel()

	// Redis backs the claim rate window; nil falls back to the in-process window.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, claim rate window running in-process")
	}
	window := guard.NewWindow(rlCfg, rdb)

	alloc := allocator.New(repository.NewClaimStore(db))
	claimHandler := handler.NewClaimHandler(alloc, cfg.MarkerTTL)
	adminHandler := handler.NewAdminHandler(cfg, repository.NewAdminRepo(db), repository.NewCouponRepo(db))

	// Background audit consumer; reconnects on its own and never takes the server down.
	go func() {
		if err := queue.StartClaimConsumer(); err != nil {
			log.Printf("claim consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterClaim(e, claimHandler, rlCfg, window)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
