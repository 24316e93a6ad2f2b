package handlers

import (
	"encoding/json"
	"net/http"

	"posledger/internal/models"
	"posledger/internal/money"
	"posledger/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func machineJSON(m models.Machine) map[string]any {
	return map[string]any{
		"id":         m.ID,
		"name":       m.Name,
		"balance":    money.FormatMinor(m.Balance),
		"created_at": m.CreatedAt,
		"updated_at": m.UpdatedAt,
	}
}

func summaryViewJSON(v models.SummaryView) map[string]any {
	return map[string]any{
		"summary_date":          v.SummaryDate,
		"opening_balance":       money.FormatMinor(v.OpeningBalance),
		"cash_at_hand":          money.FormatMinor(v.CashAtHand),
		"total_deposits":        money.FormatMinor(v.TotalDeposits),
		"total_withdrawals":     money.FormatMinor(v.TotalWithdrawals),
		"borrowing":             money.FormatMinor(v.Borrowing),
		"total_machine_balance": money.FormatMinor(v.TotalMachineBalance),
		"cash_balance":          money.FormatMinor(v.CashBalance),
		"closing_balance":       money.FormatMinor(v.ClosingBalance),
	}
}

func transactionJSON(t store.TransactionWithNames) map[string]any {
	return map[string]any{
		"id":           t.ID,
		"user_id":      t.UserID,
		"username":     derefString(t.Username),
		"machine_id":   derefString(t.MachineID),
		"machine_name": derefString(t.MachineName),
		"amount":       money.FormatMinor(t.Amount),
		"kind":         t.Kind,
		"created_at":   t.CreatedAt,
	}
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
