package offer

import (
	"encoding/json"
	"errors"
	"net/http"

	"gigmarket-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var o Offer
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.Create(r.Context(), &o); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid offer id", http.StatusBadRequest)
		return
	}

	var o Offer
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	o.ID = id

	if err := h.svc.Update(r.Context(), &o); err != nil {
		if errors.Is(err, ErrOfferNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid offer id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrOfferNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to delete offer", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns every offer for admins, only currently applicable offers for
// everyone else.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		offers []*Offer
		err    error
	)
	if utils.IsAdmin(r.Context()) {
		offers, err = h.svc.List(r.Context())
	} else {
		offers, err = h.svc.ListApplicable(r.Context())
	}
	if err != nil {
		utils.WriteJSONError(w, "failed to list offers", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, offers)
}
