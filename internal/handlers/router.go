package handlers

import (
	"net/http"

	"posledger/internal/auth"
	"posledger/internal/config"
	"posledger/internal/db"
	"posledger/internal/middleware"
	"posledger/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner       db.TxRunner
	cfg            config.Config
	users          UserStore
	machines       MachineStore
	transactions   TransactionStore
	audit          AuditStore
	ledger         LedgerService
	reconciliation ReconciliationService
	hub            *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, machines MachineStore, transactions TransactionStore, audit AuditStore, ledger LedgerService, reconciliation ReconciliationService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:       txRunner,
		cfg:            cfg,
		users:          users,
		machines:       machines,
		transactions:   transactions,
		audit:          audit,
		ledger:         ledger,
		reconciliation: reconciliation,
		hub:            hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/machines", h.ListMachines)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/machines/{id}", h.GetMachine)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Post("/transactions", h.RecordTransaction)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/summary", h.GetSummary)
	router.Get("/ws/machines", h.WSMachines)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Use(middleware.RequireOwner)
		r.Put("/machines/{id}/balance", h.AdjustMachineBalance)
		r.Get("/transactions", h.ListTransactions)
		r.Post("/summary/opening-cash", h.SetOpeningCash)
		r.Put("/owner/settings", h.UpdateOwnerSettings)
		r.Get("/owner/audit", h.ListAuditLogs)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

// WSMachines upgrades after validating the token passed as a query parameter;
// browsers cannot set an Authorization header on a websocket dial.
func (h *Handler) WSMachines(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	if _, err := auth.ParseToken(h.cfg.JWTSecret, token); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub)
}
