package payment

// CheckoutSession is what a provider hands back after a session/order is
// created. Stripe gives a redirect URL, PayPal gives an order id the frontend
// approves in-page.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// CaptureResult is the outcome of capturing an approved PayPal order.
type CaptureResult struct {
	CaptureID string
	Status    string
	CustomID  string
}

// StripeEvent is the subset of a Stripe webhook event we act on.
type StripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object StripeSession `json:"object"`
	} `json:"data"`
}

// StripeSession is the checkout.session object inside an event. PaymentIntent
// is the charge identifier and keys order idempotency; the session id is only
// used as a fallback when Stripe omits the intent.
type StripeSession struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}
