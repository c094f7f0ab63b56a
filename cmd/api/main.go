package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"expense_tracker/internal/config"
	"expense_tracker/internal/db"
	httpserver "expense_tracker/internal/http"
	"expense_tracker/internal/migrations"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	if cfg.LogLevel == "debug" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	gdb := db.Connect(cfg.DSN)

	applied, err := migrations.Up(gdb)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	if applied > 0 {
		log.Printf("✅ Applied %d pending migrations", applied)
	}

	r := httpserver.NewRouter(gdb, logger, cfg.JWTSecret)
	log.Printf("🚀 Server listening on :%s\n", cfg.AppPort)
	if err := r.Run(fmt.Sprintf(":%s", cfg.AppPort)); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}
}
