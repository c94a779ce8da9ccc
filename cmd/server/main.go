package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shoedler/tabletop-gather/internal/auth"
	"github.com/shoedler/tabletop-gather/internal/config"
	"github.com/shoedler/tabletop-gather/internal/database"
	"github.com/shoedler/tabletop-gather/internal/handlers"
	"github.com/shoedler/tabletop-gather/internal/plans"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	ctx := context.Background()

	// Initialize database
	db, err := database.InitDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer db.Close()

	// Token revocation survives restarts only when Redis is configured.
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.RedisAddr != "" {
		rdb, err := auth.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("Error connecting to redis: %v", err)
		}
		defer rdb.Close()
		revoker = auth.NewRedisRevoker(rdb)
		log.Printf("Using redis at %s for token revocation", cfg.RedisAddr)
	}

	users := database.NewUserStore(db)
	games := database.NewGameStore(db)

	authSvc := auth.NewService(users, auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiration), revoker,
		auth.WithAdmins(cfg.AdminEmails...))
	planSvc := plans.NewService(database.NewPlanStore(db), users, games, database.NewCommentStore(db))

	router := handlers.NewRouter(handlers.Deps{
		Auth:          authSvc,
		Plans:         planSvc,
		Games:         games,
		LoginThrottle: auth.NewThrottle(cfg.LoginRateLimit, cfg.LoginRateBurst),
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (%s)", cfg.Port, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
