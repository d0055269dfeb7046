package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	profileModel "github.com/mpopa/stress-journal/backend/internal/model/profile"
	"github.com/mpopa/stress-journal/backend/pkg/utils"
)

// Handler serves the companion profile catalog.
type Handler struct {
	store profileModel.Store
}

// New creates the profile handler.
func New(store profileModel.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the profile routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profiles", h.handleList)
	r.Get("/profiles/{profileID}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")

	prof, ok := h.store.FindByID(profileID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, prof)
}
