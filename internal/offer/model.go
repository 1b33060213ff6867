package offer

import (
	"time"

	"gigmarket-be/internal/gig"
)

// Offer is a time-boxed promotional discount. OfferPrice is the flat
// campaign price; the per-tier prices override it when set.
type Offer struct {
	ID            uint       `json:"id"`
	GigID         *uint      `json:"gigId,omitempty"`
	Title         string     `json:"title"`
	OfferPrice    float64    `json:"offerPrice"`
	BasicPrice    *float64   `json:"basicPrice,omitempty"`
	StandardPrice *float64   `json:"standardPrice,omitempty"`
	PremiumPrice  *float64   `json:"premiumPrice,omitempty"`
	Active        bool       `json:"active"`
	StartsAt      *time.Time `json:"startsAt,omitempty"`
	EndsAt        *time.Time `json:"endsAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Applicable reports whether the offer may change a price right now.
// Only the active flag and the end of the window gate application.
func (o *Offer) Applicable(now time.Time) bool {
	if !o.Active {
		return false
	}
	if o.EndsAt != nil && !o.EndsAt.After(now) {
		return false
	}
	return true
}

// TierPrice returns the tier-specific price when one is set, otherwise the
// flat offer price.
func (o *Offer) TierPrice(tier string) float64 {
	var p *float64
	switch tier {
	case gig.TierBasic:
		p = o.BasicPrice
	case gig.TierStandard:
		p = o.StandardPrice
	case gig.TierPremium:
		p = o.PremiumPrice
	}
	if p != nil {
		return *p
	}
	return o.OfferPrice
}
