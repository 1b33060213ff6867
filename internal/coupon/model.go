package coupon

import "time"

// Coupon is a flat percentage discount code. Codes are globally unique and
// matched case-insensitively.
type Coupon struct {
	ID              uint      `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent float64   `json:"discountPercent"`
	CreatedAt       time.Time `json:"createdAt"`
}
