package handlers

import (
	"net/http"

	"cardapi/internal/auth"
	"cardapi/internal/config"
	"cardapi/internal/db"
	"cardapi/internal/middleware"
	"cardapi/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner     db.TxRunner
	cfg          config.Config
	merchants    MerchantStore
	accounts     AccountStore
	customers    CustomerStore
	cards        CardStore
	transactions TransactionStore
	service      LedgerService
	hub          *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, merchants MerchantStore, accounts AccountStore, customers CustomerStore, cards CardStore, transactions TransactionStore, service LedgerService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:     txRunner,
		cfg:          cfg,
		merchants:    merchants,
		accounts:     accounts,
		customers:    customers,
		cards:        cards,
		transactions: transactions,
		service:      service,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/api/token", h.CreateToken)

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Post("/account/fund", h.Fund)
		r.Get("/account/{id}/balance", h.GetBalance)
		r.Post("/customer", h.CreateCustomer)
		r.Post("/card", h.CreateCard)
		r.Post("/card/deposit", h.CardDeposit)
		r.Post("/card/withdraw", h.CardWithdraw)
		r.Get("/transactions", h.ListTransactions)
	})

	router.Get("/ws/balances", h.WSBalances)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

// WSBalances authenticates from a query parameter because browser websocket
// clients cannot set an Authorization header.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ParseToken(h.cfg.JWTSecret, r.URL.Query().Get("token"))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.MerchantID)
}
