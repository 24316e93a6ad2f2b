package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"posledger/internal/middleware"
	"posledger/internal/money"
	"posledger/internal/services"
)

type recordRequest struct {
	MachineID string `json:"machine_id"`
	Amount    string `json:"amount"`
	Kind      string `json:"kind"`
}

func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	var machineID *string
	if trimmed := strings.TrimSpace(req.MachineID); trimmed != "" {
		machineID = &trimmed
	}
	created, err := h.ledger.Record(r.Context(), services.RecordRequest{
		UserID:      userID,
		MachineID:   machineID,
		AmountMinor: amountMinor,
		Kind:        req.Kind,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case errors.Is(err, services.ErrInvalidKind):
			respondError(w, http.StatusBadRequest, "invalid_kind")
		case errors.Is(err, services.ErrMachineRequired):
			respondError(w, http.StatusBadRequest, "machine_required")
		case errors.Is(err, services.ErrMachineNotFound):
			respondError(w, http.StatusNotFound, "machine not found")
		default:
			respondError(w, http.StatusInternalServerError, "record_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":         created.ID,
		"user_id":    created.UserID,
		"machine_id": derefString(created.MachineID),
		"amount":     money.FormatMinor(created.Amount),
		"kind":       created.Kind,
		"created_at": created.CreatedAt,
	})
}

// ListTransactions serves the owner's full history, newest first.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	rows, err := h.transactions.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	payload := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		payload = append(payload, transactionJSON(row))
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": payload})
}
