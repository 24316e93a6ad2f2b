package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"posledger/internal/clock"
	"posledger/internal/config"
	"posledger/internal/db"
	"posledger/internal/handlers"
	"posledger/internal/logger"
	"posledger/internal/services"
	"posledger/internal/store"
	"posledger/internal/websocket"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer database.Close()

	calendar, err := clock.New(cfg.Timezone)
	if err != nil {
		log.WithError(err).Fatalf("invalid timezone %q", cfg.Timezone)
	}

	users := store.NewUserStore(database)
	machines := store.NewMachineStore(database)
	transactions := store.NewTransactionStore(database)
	summaries := store.NewSummaryStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	ledger := services.NewLedgerService(txRunner, machines, transactions, audit, hub)
	reconciliation := services.NewReconciliationService(txRunner, summaries, machines, transactions, audit, calendar)

	handler := handlers.New(txRunner, cfg, users, machines, transactions, audit, ledger, reconciliation, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("pos ledger API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("shutdown error")
	}
}
