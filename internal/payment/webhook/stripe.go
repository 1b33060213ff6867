package webhook

import (
	"io"
	"net/http"

	"gigmarket-be/internal/logger"
	"gigmarket-be/internal/order"
	"gigmarket-be/internal/payment"
	"gigmarket-be/internal/user"
	"gigmarket-be/internal/utils"

	"go.uber.org/zap"
)

// Handler receives Stripe's server-to-server confirmation. The signature check
// runs against the raw body, so this route must see the request before any
// body-consuming middleware.
type Handler struct {
	orders order.Service
	users  user.Service
	stripe payment.StripeGateway
}

func NewHandler(orders order.Service, users user.Service, stripe payment.StripeGateway) *Handler {
	return &Handler{
		orders: orders,
		users:  users,
		stripe: stripe,
	}
}

func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteJSONError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.stripe.VerifySignature(body, r.Header.Get("Stripe-Signature")); err != nil {
		log.Warn("stripe webhook signature rejected", zap.Error(err))
		utils.WriteJSONError(w, "invalid signature", http.StatusBadRequest)
		return
	}

	event, err := h.stripe.ParseEvent(body)
	if err != nil {
		utils.WriteJSONError(w, "invalid payload", http.StatusBadRequest)
		return
	}

	// acknowledge everything we do not act on, or Stripe keeps retrying
	if event.Type != "checkout.session.completed" {
		log.Debug("ignoring stripe event", zap.String("type", event.Type))
		w.WriteHeader(http.StatusOK)
		return
	}

	session := event.Data.Object
	if session.PaymentStatus != "paid" {
		log.Info("session completed but not paid yet",
			zap.String("session_id", session.ID),
			zap.String("payment_status", session.PaymentStatus),
		)
		w.WriteHeader(http.StatusOK)
		return
	}

	meta, err := payment.DecodeStripeMetadata(session.Metadata)
	if err != nil {
		log.Error("session carried unusable metadata",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "invalid checkout metadata", http.StatusBadRequest)
		return
	}

	// nothing is written if the buyer cannot be loaded; Stripe redelivers
	// the event and the insert stays idempotent
	u, err := h.users.GetByID(r.Context(), meta.UserID)
	if err != nil {
		log.Error("failed to load buyer for paid session",
			zap.Uint("user_id", meta.UserID),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "failed to load buyer", http.StatusInternalServerError)
		return
	}

	// the payment intent identifies the charge itself; two sessions can never
	// share one, so it is the idempotency key for the order
	transactionID := session.PaymentIntent
	if transactionID == "" {
		transactionID = session.ID
	}

	in := order.ConfirmationInput{
		UserID:        meta.UserID,
		UserName:      u.Name,
		UserEmail:     u.Email,
		UserPhone:     u.Phone,
		GigID:         meta.ServiceID,
		GigTitle:      meta.Title,
		Tier:          meta.Name,
		Price:         meta.Price,
		Method:        order.MethodStripe,
		TransactionID: transactionID,
	}

	_, created, err := h.orders.CreateFromConfirmation(r.Context(), in)
	if err != nil {
		utils.WriteJSONError(w, "failed to record order", http.StatusInternalServerError)
		return
	}

	if !created {
		log.Info("stripe event redelivered, order already recorded",
			zap.String("session_id", session.ID),
		)
	}

	w.WriteHeader(http.StatusOK)
}
