/*
main.go - Application entry point

PURPOSE:
  Starts the careshift engine server: loads configuration, the rule set
  for the applicable collective agreement, the SQLite store, and the HTTP
  shell, then runs with graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment configuration (.env honored)
  2. Load the collective-agreement rule set (JSON file or defaults)
  3. Open the SQLite store
  4. Wire the HTTP handler and router
  5. Serve with graceful shutdown on SIGINT/SIGTERM

CONFIGURATION (environment, see config/config.go):
  PORT             HTTP port (default 8080)
  DATABASE_PATH    SQLite path, ":memory:" for in-memory (default careshift.db)
  RULESET_PATH     JSON collective-agreement file (default: statutory defaults)
  ALLOWED_ORIGINS  CORS origins, comma-separated
  LOG_LEVEL        logrus level (default info)
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/careshift-engine/api"
	"github.com/warp/careshift-engine/config"
	"github.com/warp/careshift-engine/engine"
	"github.com/warp/careshift-engine/factory"
	"github.com/warp/careshift-engine/leave"
	"github.com/warp/careshift-engine/store/sqlite"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rules := engine.DefaultRuleSet()
	if cfg.RuleSetPath != "" {
		data, err := os.ReadFile(cfg.RuleSetPath)
		if err != nil {
			log.Fatalf("failed to read rule set %s: %v", cfg.RuleSetPath, err)
		}
		if rules, err = factory.ParseRuleSet(data); err != nil {
			log.Fatalf("failed to parse rule set %s: %v", cfg.RuleSetPath, err)
		}
		log.Infof("loaded rule set from %s", cfg.RuleSetPath)
	}

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, rules, leave.FrenchCalendar(), log)
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("server starting on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server stopped")
}
