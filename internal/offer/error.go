package offer

import "errors"

var ErrOfferNotFound = errors.New("offer not found")
