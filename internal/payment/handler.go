package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gigmarket-be/internal/gig"
	"gigmarket-be/internal/logger"
	"gigmarket-be/internal/order"
	"gigmarket-be/internal/pricing"
	"gigmarket-be/internal/user"
	"gigmarket-be/internal/utils"

	"go.uber.org/zap"
)

type Handler struct {
	pricing pricing.Resolver
	stripe  StripeGateway
	paypal  PayPalGateway
	orders  order.Service
	users   user.Service
}

func NewHandler(
	pricingResolver pricing.Resolver,
	stripe StripeGateway,
	paypal PayPalGateway,
	orders order.Service,
	users user.Service,
) *Handler {
	return &Handler{
		pricing: pricingResolver,
		stripe:  stripe,
		paypal:  paypal,
		orders:  orders,
		users:   users,
	}
}

type checkoutRequest struct {
	ServiceID  uint   `json:"serviceId"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	CouponCode string `json:"couponCode,omitempty"`
	OfferID    *uint  `json:"offerId,omitempty"`
}

// resolveCheckout validates the request and prices it. On failure it writes
// the error response and returns ok=false, so callers just bail out. Nothing
// is sent to a provider until this passes.
func (h *Handler) resolveCheckout(w http.ResponseWriter, r *http.Request) (*pricing.Quote, CheckoutMetadata, bool) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return nil, CheckoutMetadata{}, false
	}

	if req.ServiceID == 0 || req.Name == "" || req.Title == "" {
		utils.WriteJSONError(w, "serviceId, name and title are required", http.StatusBadRequest)
		return nil, CheckoutMetadata{}, false
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
		return nil, CheckoutMetadata{}, false
	}

	quote, err := h.pricing.Resolve(r.Context(), pricing.QuoteInput{
		GigID:      req.ServiceID,
		Tier:       req.Name,
		CouponCode: req.CouponCode,
		OfferID:    req.OfferID,
	})
	if err != nil {
		switch {
		case errors.Is(err, gig.ErrGigNotFound), errors.Is(err, gig.ErrTierNotFound):
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		default:
			utils.WriteJSONError(w, "failed to price checkout", http.StatusInternalServerError)
		}
		return nil, CheckoutMetadata{}, false
	}

	return quote, MetadataFromQuote(quote, userID), true
}

func (h *Handler) StripeCheckout(w http.ResponseWriter, r *http.Request) {
	quote, meta, ok := h.resolveCheckout(w, r)
	if !ok {
		return
	}

	description := fmt.Sprintf("%s (%s)", quote.GigTitle, quote.Tier)

	session, err := h.stripe.CreateCheckoutSession(r.Context(), quote.FinalPrice, description, meta)
	if err != nil {
		utils.WriteJSONError(w, "failed to create checkout session", http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": session.URL})
}

func (h *Handler) PayPalCheckout(w http.ResponseWriter, r *http.Request) {
	quote, meta, ok := h.resolveCheckout(w, r)
	if !ok {
		return
	}

	description := fmt.Sprintf("%s (%s)", quote.GigTitle, quote.Tier)

	session, err := h.paypal.CreateOrder(r.Context(), quote.FinalPrice, description, meta)
	if err != nil {
		utils.WriteJSONError(w, "failed to create paypal order", http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"id": session.ID})
}

type captureRequest struct {
	OrderID string `json:"orderID"`
}

// PayPalCapture finishes a PayPal checkout the buyer approved in-page: capture
// the funds, then record the order. The capture id keys idempotency, so the
// frontend retrying this call cannot produce a second order.
func (h *Handler) PayPalCapture(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		utils.WriteJSONError(w, "orderID is required", http.StatusBadRequest)
		return
	}

	capture, err := h.paypal.CaptureOrder(r.Context(), req.OrderID)
	if err != nil {
		utils.WriteJSONError(w, "failed to capture payment", http.StatusBadGateway)
		return
	}

	if capture.Status != "COMPLETED" {
		log.Warn("paypal capture not completed",
			zap.String("paypal_order_id", req.OrderID),
			zap.String("status", capture.Status),
		)
		utils.WriteJSONError(w, "payment not completed", http.StatusBadGateway)
		return
	}

	meta, err := DecodeJSONMetadata(capture.CustomID)
	if err != nil {
		log.Error("capture carried unusable metadata",
			zap.String("capture_id", capture.CaptureID),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "invalid checkout metadata", http.StatusUnprocessableEntity)
		return
	}

	in := order.ConfirmationInput{
		UserID:        meta.UserID,
		GigID:         meta.ServiceID,
		GigTitle:      meta.Title,
		Tier:          meta.Name,
		Price:         meta.Price,
		Method:        order.MethodPayPal,
		TransactionID: capture.CaptureID,
	}

	if u, err := h.users.GetByID(r.Context(), meta.UserID); err == nil {
		in.UserName = u.Name
		in.UserEmail = u.Email
		in.UserPhone = u.Phone
	} else {
		log.Warn("failed to load buyer for captured payment",
			zap.Uint("user_id", meta.UserID),
			zap.Error(err),
		)
	}

	o, created, err := h.orders.CreateFromConfirmation(r.Context(), in)
	if err != nil {
		utils.WriteJSONError(w, "payment captured but order could not be recorded", http.StatusInternalServerError)
		return
	}

	message := "payment captured"
	if !created {
		message = "payment already recorded"
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"order":   o,
	})
}
