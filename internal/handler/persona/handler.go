package persona

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raghujhts13/sunoji-hackathon/internal/model/persona"
	"github.com/raghujhts13/sunoji-hackathon/pkg/utils"
)

// Handler exposes persona CRUD over HTTP.
type Handler struct {
	personas persona.Store
}

func New(personas persona.Store) *Handler {
	return &Handler{personas: personas}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleList)
	r.Post("/personas", h.handleCreate)
	r.Get("/personas/{personaID}", h.handleGet)
	r.Put("/personas/{personaID}", h.handleUpdate)
	r.Delete("/personas/{personaID}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.personas.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "personaID")
	p, ok := h.personas.FindByID(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var params persona.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if params.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}
	created := h.personas.Create(params)
	utils.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "personaID")
	var params persona.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, ok := h.personas.Update(id, params)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "personaID")
	if !h.personas.Delete(id) {
		utils.RespondError(w, http.StatusNotFound, "persona not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
