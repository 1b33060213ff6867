package gig

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

type packageInput struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	DeliveryDays int     `json:"deliveryDays"`
	Revisions    int     `json:"revisions"`
	RegularPrice float64 `json:"regularPrice"`
	SalePrice    float64 `json:"salePrice"`
}

type gigInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Active      bool           `json:"active"`
	Packages    []packageInput `json:"packages"`
}

func (in *gigInput) toModel() *Gig {
	g := &Gig{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Active:      in.Active,
	}
	for _, p := range in.Packages {
		g.Packages = append(g.Packages, Package{
			Name:         p.Name,
			Description:  p.Description,
			DeliveryDays: p.DeliveryDays,
			Revisions:    p.Revisions,
			RegularPrice: p.RegularPrice,
			SalePrice:    p.SalePrice,
		})
	}
	return g
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in gigInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	g := in.toModel()
	if err := h.svc.Create(r.Context(), g); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, g)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid gig id", http.StatusBadRequest)
		return
	}

	var in gigInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	g := in.toModel()
	g.ID = id
	if err := h.svc.Update(r.Context(), g); err != nil {
		if errors.Is(err, ErrGigNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid gig id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrGigNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to delete gig", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid gig id", http.StatusBadRequest)
		return
	}

	g, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrGigNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to load gig", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	// Non-admin callers only see active gigs.
	onlyActive := !utils.IsAdmin(r.Context())

	gigs, err := h.svc.List(r.Context(), onlyActive)
	if err != nil {
		utils.WriteJSONError(w, "failed to list gigs", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, gigs)
}
