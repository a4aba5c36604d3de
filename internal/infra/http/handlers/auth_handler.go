package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/macracrm/macra-crm/internal/store"
)

type AuthHandler struct {
	Session *store.SessionStore
}

func NewAuthHandler(session *store.SessionStore) *AuthHandler {
	return &AuthHandler{Session: session}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if !h.Session.Login(req.Username, req.Password) {
		writeError(w, http.StatusUnauthorized, h.Session.Err())
		return
	}
	writeJSON(w, http.StatusOK, h.Session.User())
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := h.Session.User()
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
