package payment

import "context"

// StripeGateway creates hosted checkout sessions and verifies webhook
// signatures. Implementations talk to the live API; handlers take the
// interface so tests can swap in fakes.
type StripeGateway interface {
	CreateCheckoutSession(ctx context.Context, amount float64, description string, meta CheckoutMetadata) (*CheckoutSession, error)
	VerifySignature(payload []byte, header string) error
	ParseEvent(payload []byte) (*StripeEvent, error)
}

// PayPalGateway creates orders for in-page approval and captures them once
// the buyer has approved.
type PayPalGateway interface {
	CreateOrder(ctx context.Context, amount float64, description string, meta CheckoutMetadata) (*CheckoutSession, error)
	CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error)
}
