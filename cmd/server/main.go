package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardapi/internal/config"
	"cardapi/internal/db"
	"cardapi/internal/handlers"
	"cardapi/internal/services"
	"cardapi/internal/store"
	"cardapi/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	merchants := store.NewMerchantStore(database)
	accounts := store.NewAccountStore(database)
	customers := store.NewCustomerStore(database)
	cards := store.NewCardStore(database)
	fees := store.NewFeeStore(database)
	transactions := store.NewTransactionStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	service := services.NewLedgerService(txRunner, accounts, fees, transactions, cards, audit, hub, services.SystemAccounts{
		Cash: cfg.CashAccountID,
		Card: cfg.CardAccountID,
		Fee:  cfg.FeeAccountID,
	})

	handler := handlers.New(txRunner, cfg, merchants, accounts, customers, cards, transactions, service, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("card API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
