package gig

import "errors"

var (
	ErrGigNotFound  = errors.New("gig not found")
	ErrTierNotFound = errors.New("package tier not found")
)
