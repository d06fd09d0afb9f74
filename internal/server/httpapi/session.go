package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/q42jaap/opvault/internal/auth"
	"github.com/q42jaap/opvault/internal/logging"
)

// SessionHandler exchanges service-account credentials for a bearer token.
type SessionHandler struct {
	accountID  string
	secretHash string
	secretKey  []byte
	validity   time.Duration
	log        logging.Logger
}

func NewSessionHandler(accountID, secretHash string, secretKey []byte, validity time.Duration, log logging.Logger) *SessionHandler {
	return &SessionHandler{
		accountID:  accountID,
		secretHash: secretHash,
		secretKey:  secretKey,
		validity:   validity,
		log:        log,
	}
}

type sessionRequest struct {
	AccountID string `json:"account_id"`
	Secret    string `json:"secret"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Create verifies the credentials and issues a signed session token.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if req.AccountID != h.accountID {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := auth.CheckSecret(h.secretHash, req.Secret); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	expiresAt := time.Now().Add(h.validity)
	token, err := auth.GenerateToken(req.AccountID, h.secretKey, h.validity)
	if err != nil {
		h.log.Error(r.Context(), "token generation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: expiresAt})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
