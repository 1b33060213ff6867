package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gigmarket-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func parseListQuery(r *http.Request) (*FilterInput, *SortInput, int32, int32) {
	q := r.URL.Query()

	var filter FilterInput
	if s := q.Get("search"); s != "" {
		filter.Search = &s
	}
	if s := q.Get("status"); s != "" {
		st := Status(s)
		filter.Status = &st
	}
	if s := q.Get("dateFrom"); s != "" {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			filter.DateFrom = &ts
		}
	}
	if s := q.Get("dateTo"); s != "" {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			filter.DateTo = &ts
		}
	}

	var sort *SortInput
	if f := q.Get("sortBy"); f != "" {
		sort = &SortInput{Field: SortField(f), Direction: q.Get("sortDir")}
	}

	var limit, page int32
	if n, err := utils.ToUint(q.Get("limit")); err == nil {
		limit = int32(n)
	}
	if n, err := utils.ToUint(q.Get("page")); err == nil {
		page = int32(n)
	}

	return &filter, sort, limit, page
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, sort, limit, page := parseListQuery(r)

	orders, err := h.svc.List(r.Context(), filter, sort, limit, page)
	if err != nil {
		utils.WriteJSONError(w, "failed to list orders", http.StatusInternalServerError)
		return
	}

	if orders == nil {
		orders = []*Order{}
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.GetDetail(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrUnauthorized):
			utils.WriteJSONError(w, err.Error(), http.StatusForbidden)
		default:
			utils.WriteJSONError(w, "failed to load order", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrOrderNotFound):
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		default:
			utils.WriteJSONError(w, "failed to update order status", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "order status updated"})
}

func (h *Handler) RequestCancel(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if err := h.svc.RequestCancel(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, ErrNotCancellable):
			utils.WriteJSONError(w, err.Error(), http.StatusConflict)
		default:
			utils.WriteJSONError(w, "failed to request cancellation", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "cancellation requested"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to delete order", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
