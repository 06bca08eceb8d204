// posdev runs the local contract fixture server so the POS client can be
// developed and demoed without the real backend.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/logging"
	"restaurant-pos/internal/stubserver"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	db, err := stubserver.OpenStore(cfg.DatabaseURL, "")
	if err != nil {
		log.Fatalf("store init: %v", err)
	}
	if err := stubserver.Seed(db); err != nil {
		log.Fatalf("seed: %v", err)
	}

	srv := stubserver.New(db, cfg.JWTSecret)
	e := srv.Echo(logger)

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	go func() {
		logger.Info("fixture server listening", "port", cfg.ServerPort)
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
