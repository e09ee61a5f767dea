package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/auth"
	"github.com/esslidev/sga-advanced-system/internal/config"
	"github.com/esslidev/sga-advanced-system/internal/httpapi"
	"github.com/esslidev/sga-advanced-system/internal/obs"
	"github.com/esslidev/sga-advanced-system/internal/token"
	"github.com/esslidev/sga-advanced-system/internal/visit"
	"github.com/esslidev/sga-advanced-system/internal/visitor"
)

var version = "1.2.0"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	obs.Init()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	codec := token.NewCodec(
		cfg.AccessSecret, cfg.RenewSecret,
		cfg.AccessTokenTTL, cfg.RenewTokenTTL,
	)

	authStore := auth.NewPGStore(db)
	auditStore := audit.NewPGStore(db)
	visitorStore := visitor.NewPGStore(db)
	visitStore := visit.NewPGStore(db)

	authSvc := auth.NewService(authStore, codec, auth.WithAdminAccessHash(cfg.AdminAccessHash))
	visitorSvc := visitor.NewService(visitorStore, auditStore)
	visitSvc := visit.NewService(visitStore, visitorStore, auditStore)

	api := httpapi.New(httpapi.Options{
		Auth:            authSvc,
		Visitors:        visitorSvc,
		Visits:          visitSvc,
		Logs:            auditStore,
		Codec:           codec,
		Ready:           httpapi.ReadyProbe{DB: db},
		Version:         version,
		APIKey:          cfg.APISecretKey,
		FrontendPort:    cfg.FrontendPort,
		RateLimitPerSec: cfg.RateLimitPerSec,
		RateLimitBurst:  cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	obs.Event("info", "server_starting", map[string]any{"version": version, "addr": srv.Addr})

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	obs.Event("info", "server_stopping", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	obs.Event("info", "server_stopped", nil)
}
