package payment

import (
	"encoding/json"
	"strconv"

	"gigmarket-be/internal/pricing"
)

// CheckoutMetadata travels with the provider session and comes back on the
// confirmation leg. It is the only link between a charge and the order we
// create for it, so both providers carry the exact same fields: Stripe as
// string key/value metadata, PayPal as a JSON blob in custom_id. The full
// pricing breakdown rides along so a confirmation can tell which discounts
// actually applied without re-resolving anything.
type CheckoutMetadata struct {
	ServiceID uint   `json:"serviceId"`
	Name      string `json:"name"`
	Title     string `json:"title"`
	UserID    uint   `json:"userId"`

	ServicePrice float64 `json:"servicePrice"`

	OfferID    *uint   `json:"offerId,omitempty"`
	OfferTitle string  `json:"offerTitle,omitempty"`
	OfferPrice float64 `json:"offerPrice,omitempty"`

	CouponCode      string  `json:"couponCode,omitempty"`
	DiscountPercent float64 `json:"discountPercent,omitempty"`
	DiscountAmount  float64 `json:"discountAmount,omitempty"`

	// Price is the final charged amount.
	Price float64 `json:"price"`
}

// MetadataFromQuote snapshots the resolved quote for the buyer. The price
// recorded here is what the provider charges, so the order created on
// confirmation always matches the charge.
func MetadataFromQuote(q *pricing.Quote, userID uint) CheckoutMetadata {
	m := CheckoutMetadata{
		ServiceID:    q.GigID,
		Name:         q.Tier,
		Title:        q.GigTitle,
		UserID:       userID,
		ServicePrice: q.ServicePrice,
		Price:        q.FinalPrice,
	}

	if q.OfferApplied {
		m.OfferID = q.OfferID
		m.OfferTitle = q.OfferTitle
		m.OfferPrice = q.OfferPrice
	}
	if q.CouponApplied {
		m.CouponCode = q.CouponCode
		m.DiscountPercent = q.DiscountPercent
		m.DiscountAmount = q.DiscountAmount
	}

	return m
}

// Validate rejects metadata that could not be turned into an order later.
func (m CheckoutMetadata) Validate() error {
	if m.ServiceID == 0 || m.Name == "" || m.Title == "" {
		return ErrInvalidMetadata
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// EncodeStripe flattens the metadata into Stripe's string-only metadata map.
// Offer and coupon keys are present only when that discount applied.
func (m CheckoutMetadata) EncodeStripe() map[string]string {
	out := map[string]string{
		"serviceId":    strconv.FormatUint(uint64(m.ServiceID), 10),
		"name":         m.Name,
		"title":        m.Title,
		"userId":       strconv.FormatUint(uint64(m.UserID), 10),
		"servicePrice": formatFloat(m.ServicePrice),
		"price":        formatFloat(m.Price),
	}

	if m.OfferID != nil {
		out["offerId"] = strconv.FormatUint(uint64(*m.OfferID), 10)
		out["offerTitle"] = m.OfferTitle
		out["offerPrice"] = formatFloat(m.OfferPrice)
	}
	if m.CouponCode != "" {
		out["couponCode"] = m.CouponCode
		out["discountPercent"] = formatFloat(m.DiscountPercent)
		out["discountAmount"] = formatFloat(m.DiscountAmount)
	}

	return out
}

// DecodeStripeMetadata rebuilds metadata from a session's metadata map.
func DecodeStripeMetadata(raw map[string]string) (*CheckoutMetadata, error) {
	serviceID, err := strconv.ParseUint(raw["serviceId"], 10, 64)
	if err != nil {
		return nil, ErrInvalidMetadata
	}
	userID, err := strconv.ParseUint(raw["userId"], 10, 64)
	if err != nil {
		return nil, ErrInvalidMetadata
	}
	servicePrice, err := strconv.ParseFloat(raw["servicePrice"], 64)
	if err != nil {
		return nil, ErrInvalidMetadata
	}
	price, err := strconv.ParseFloat(raw["price"], 64)
	if err != nil {
		return nil, ErrInvalidMetadata
	}

	m := &CheckoutMetadata{
		ServiceID:    uint(serviceID),
		Name:         raw["name"],
		Title:        raw["title"],
		UserID:       uint(userID),
		ServicePrice: servicePrice,
		Price:        price,
	}

	if s, ok := raw["offerId"]; ok {
		offerID, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, ErrInvalidMetadata
		}
		id := uint(offerID)
		m.OfferID = &id
		m.OfferTitle = raw["offerTitle"]
		if m.OfferPrice, err = strconv.ParseFloat(raw["offerPrice"], 64); err != nil {
			return nil, ErrInvalidMetadata
		}
	}
	if code, ok := raw["couponCode"]; ok {
		m.CouponCode = code
		if m.DiscountPercent, err = strconv.ParseFloat(raw["discountPercent"], 64); err != nil {
			return nil, ErrInvalidMetadata
		}
		if m.DiscountAmount, err = strconv.ParseFloat(raw["discountAmount"], 64); err != nil {
			return nil, ErrInvalidMetadata
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeJSON serializes the metadata for PayPal's custom_id field.
func (m CheckoutMetadata) EncodeJSON() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeJSONMetadata parses the custom_id blob returned by a capture.
func DecodeJSONMetadata(raw string) (*CheckoutMetadata, error) {
	var m CheckoutMetadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, ErrInvalidMetadata
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
