package payment

import "errors"

var (
	ErrInvalidMetadata  = errors.New("checkout metadata is incomplete")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrCaptureFailed    = errors.New("payment capture did not complete")
)
