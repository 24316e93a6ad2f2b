package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"posledger/internal/clock"
	"posledger/internal/middleware"
	"posledger/internal/services"
)

// GetSummary serves the reconciliation view. Without a date parameter it is
// "today": the summary row is created lazily before the projection runs. For
// an explicit date it is a plain read and creates nothing.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		summary, err := h.reconciliation.EnsureTodaySummary(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "unable to load summary")
			return
		}
		date = summary.SummaryDate
	} else if _, err := time.Parse(clock.DateLayout, date); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	view, err := h.reconciliation.ComputeSummary(r.Context(), date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to compute summary")
		return
	}
	respondJSON(w, http.StatusOK, summaryViewJSON(view))
}

type openingCashRequest struct {
	Cash string `json:"cash"`
}

func (h *Handler) SetOpeningCash(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req openingCashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	cashMinor, err := parseCashMinor(req.Cash)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	summary, err := h.reconciliation.SetOpeningCash(r.Context(), userID, cashMinor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case errors.Is(err, services.ErrOpeningAlreadySet):
			respondError(w, http.StatusConflict, "opening_balance_already_set")
		default:
			respondError(w, http.StatusInternalServerError, "unable to set opening cash")
		}
		return
	}
	view, err := h.reconciliation.ComputeSummary(r.Context(), summary.SummaryDate)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to compute summary")
		return
	}
	respondJSON(w, http.StatusOK, summaryViewJSON(view))
}
