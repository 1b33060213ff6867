package coupon

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

type createRequest struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discountPercent"`
}

type validateRequest struct {
	Code string `json:"code"`
}

type validateResponse struct {
	Valid           bool    `json:"valid"`
	Code            string  `json:"code,omitempty"`
	DiscountPercent float64 `json:"discountPercent,omitempty"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Create(r.Context(), req.Code, req.DiscountPercent)
	if err != nil {
		if errors.Is(err, ErrCodeExists) {
			utils.WriteJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid coupon id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to delete coupon", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.svc.List(r.Context())
	if err != nil {
		utils.WriteJSONError(w, "failed to list coupons", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, coupons)
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		utils.WriteJSONError(w, "code is required", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Validate(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			utils.WriteJSON(w, http.StatusOK, validateResponse{Valid: false})
			return
		}
		utils.WriteJSONError(w, "failed to validate coupon", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, validateResponse{
		Valid:           true,
		Code:            c.Code,
		DiscountPercent: c.DiscountPercent,
	})
}
