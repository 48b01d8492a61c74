package handlers

import (
	"encoding/json"
	"net/http"

	"go-happyhour/middleware"
	"go-happyhour/services"
	apierrors "go-happyhour/utils/errors"
)

type AuthHandler struct {
	session *services.Session
}

func NewAuthHandler(session *services.Session) *AuthHandler {
	return &AuthHandler{session: session}
}

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var input services.Credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, apierrors.ErrInvalidInput)
		return
	}
	state, err := h.session.Login(r.Context(), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, state)
}

func (h *AuthHandler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.session.Logout())
}
