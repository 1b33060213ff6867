package gig

import "time"

// Package tier names used by offers and checkout.
const (
	TierBasic    = "basic"
	TierStandard = "standard"
	TierPremium  = "premium"
)

type Gig struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Packages    []Package `json:"packages"`
}

// Package is one purchasable tier of a gig. RegularPrice is display-only;
// checkout always charges SalePrice.
type Package struct {
	ID           uint    `json:"id"`
	GigID        uint    `json:"gigId"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	DeliveryDays int     `json:"deliveryDays"`
	Revisions    int     `json:"revisions"`
	RegularPrice float64 `json:"regularPrice"`
	SalePrice    float64 `json:"salePrice"`
}

// FindPackage returns the package with the given tier name, or nil.
func (g *Gig) FindPackage(name string) *Package {
	for i := range g.Packages {
		if g.Packages[i].Name == name {
			return &g.Packages[i]
		}
	}
	return nil
}
