package pricing

import (
	"context"
	"errors"
	"time"

	"gigmarket-be/internal/coupon"
	"gigmarket-be/internal/gig"
	"gigmarket-be/internal/logger"
	"gigmarket-be/internal/offer"

	"go.uber.org/zap"
)

// QuoteInput identifies what the buyer wants to purchase plus any requested
// discounts. CouponCode and OfferID are optional.
type QuoteInput struct {
	GigID      uint
	Tier       string
	CouponCode string
	OfferID    *uint
}

// Quote is the priced result. Both payment providers charge FinalPrice, so a
// single resolver guarantees price parity between them.
type Quote struct {
	GigID    uint
	GigTitle string
	Tier     string

	// ServicePrice is the sale price of the selected package. The package's
	// regular price is display-only and never enters the calculation.
	ServicePrice float64

	OfferApplied bool
	OfferID      *uint
	OfferTitle   string
	OfferPrice   float64

	CouponApplied   bool
	CouponCode      string
	DiscountPercent float64
	DiscountAmount  float64

	FinalPrice float64
}

type Resolver interface {
	Resolve(ctx context.Context, in QuoteInput) (*Quote, error)
}

type resolver struct {
	gigs    gig.Repository
	offers  offer.Repository
	coupons coupon.Repository
}

func NewResolver(gigs gig.Repository, offers offer.Repository, coupons coupon.Repository) Resolver {
	return &resolver{gigs: gigs, offers: offers, coupons: coupons}
}

// Resolve is a pure read-and-compute: it never writes, so retrying a failed
// checkout never leaves pricing state behind.
//
// An inactive/expired/missing offer and an unknown coupon both degrade to
// full price instead of failing checkout; the Applied flags let callers
// surface that the requested discount did not take.
func (r *resolver) Resolve(ctx context.Context, in QuoteInput) (*Quote, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint("gig_id", in.GigID),
		zap.String("tier", in.Tier),
	)

	g, err := r.gigs.GetByID(ctx, in.GigID)
	if err != nil {
		return nil, err
	}

	pkg := g.FindPackage(in.Tier)
	if pkg == nil {
		return nil, gig.ErrTierNotFound
	}

	q := &Quote{
		GigID:        g.ID,
		GigTitle:     g.Title,
		Tier:         pkg.Name,
		ServicePrice: pkg.SalePrice,
	}

	base := q.ServicePrice

	if in.OfferID != nil {
		o, err := r.offers.GetByID(ctx, *in.OfferID)
		switch {
		case errors.Is(err, offer.ErrOfferNotFound):
			log.Warn("requested offer does not exist", zap.Uint("offer_id", *in.OfferID))
		case err != nil:
			return nil, err
		case !o.Applicable(time.Now()):
			log.Warn("requested offer is inactive or expired", zap.Uint("offer_id", *in.OfferID))
		default:
			q.OfferApplied = true
			q.OfferID = &o.ID
			q.OfferTitle = o.Title
			q.OfferPrice = o.TierPrice(pkg.Name)
			base = q.OfferPrice
		}
	}

	if in.CouponCode != "" {
		c, err := r.coupons.GetByCode(ctx, in.CouponCode)
		if err != nil {
			return nil, err
		}
		if c == nil {
			log.Warn("requested coupon does not exist", zap.String("code", in.CouponCode))
		} else {
			q.CouponApplied = true
			q.CouponCode = c.Code
			q.DiscountPercent = c.DiscountPercent
			// the coupon discounts the offer-reduced price, not the original
			q.DiscountAmount = base * c.DiscountPercent / 100
		}
	}

	q.FinalPrice = base - q.DiscountAmount
	if q.FinalPrice < 0 {
		q.FinalPrice = 0
	}

	log.Debug("quote resolved",
		zap.Float64("service_price", q.ServicePrice),
		zap.Bool("offer_applied", q.OfferApplied),
		zap.Bool("coupon_applied", q.CouponApplied),
		zap.Float64("final_price", q.FinalPrice),
	)

	return q, nil
}
