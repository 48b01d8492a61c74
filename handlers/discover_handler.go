package handlers

import (
	"encoding/json"
	"net/http"

	"go-happyhour/middleware"
	"go-happyhour/services"
	apierrors "go-happyhour/utils/errors"
)

type DiscoverHandler struct {
	controller *services.DiscoveryController
}

func NewDiscoverHandler(controller *services.DiscoveryController) *DiscoverHandler {
	return &DiscoverHandler{controller: controller}
}

func (h *DiscoverHandler) GetView(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.controller.View())
}

func (h *DiscoverHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	view, err := h.controller.Refresh(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

func (h *DiscoverHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, apierrors.ErrInvalidInput)
		return
	}
	view, err := h.controller.SetCategory(r.Context(), input.Category)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}

func (h *DiscoverHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, apierrors.ErrInvalidInput)
		return
	}
	view, err := h.controller.SetQuery(r.Context(), input.Query)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, view)
}
