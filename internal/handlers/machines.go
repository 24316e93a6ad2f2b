package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"posledger/internal/middleware"
	"posledger/internal/money"
	"posledger/internal/services"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListMachines(w http.ResponseWriter, r *http.Request) {
	machines, err := h.machines.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load machines")
		return
	}
	total, err := h.machines.TotalBalance(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load machines")
		return
	}
	payload := make([]map[string]any, 0, len(machines))
	for _, m := range machines {
		payload = append(payload, machineJSON(m))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"machines":      payload,
		"total_balance": money.FormatMinor(total),
	})
}

func (h *Handler) GetMachine(w http.ResponseWriter, r *http.Request) {
	machine, err := h.machines.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "machine not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load machine")
		return
	}
	respondJSON(w, http.StatusOK, machineJSON(machine))
}

type adjustBalanceRequest struct {
	Balance string `json:"balance"`
}

// AdjustMachineBalance is the owner's direct correction: it replaces the
// stored balance without writing a ledger row.
func (h *Handler) AdjustMachineBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req adjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	balanceMinor, err := parseBalanceMinor(req.Balance)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	machine, err := h.ledger.AdjustBalance(r.Context(), userID, chi.URLParam(r, "id"), balanceMinor)
	if err != nil {
		if errors.Is(err, services.ErrMachineNotFound) {
			respondError(w, http.StatusNotFound, "machine not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "adjustment failed")
		return
	}
	respondJSON(w, http.StatusOK, machineJSON(machine))
}
