package coupon

import "errors"

var (
	ErrCouponNotFound = errors.New("coupon not found")
	ErrCodeExists     = errors.New("coupon code already exists")
)
