package order

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrMissingTransactionID = errors.New("transaction id is required")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrNotCancellable       = errors.New("order can no longer be cancelled")
)
