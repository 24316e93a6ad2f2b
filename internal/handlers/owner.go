package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"posledger/internal/auth"
	"posledger/internal/middleware"
	"posledger/internal/validator"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ownerSettingsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateOwnerSettings lets the owner rename their account and optionally
// rotate the password in one call.
func (h *Handler) UpdateOwnerSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req ownerSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateUsername(req.Username); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var passwordHash string
	if req.Password != "" {
		if err := validator.ValidatePassword(req.Password); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to secure password")
			return
		}
		passwordHash = hash
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.users.UpdateUsername(r.Context(), tx, userID, req.Username); err != nil {
			return err
		}
		if passwordHash != "" {
			if err := h.users.UpdatePasswordHash(r.Context(), tx, userID, passwordHash); err != nil {
				return err
			}
		}
		data, _ := json.Marshal(map[string]string{
			"username":         req.Username,
			"password_changed": boolString(passwordHash != ""),
		})
		return h.audit.Log(r.Context(), tx, userID, "update_settings", "user", userID, string(data))
	})
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "username already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "update failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"audit_logs": logs})
}

func boolString(value bool) string {
	if value {
		return "true"
	}
	return "false"
}
