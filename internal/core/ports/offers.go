package ports

import (
	"context"

	"github.com/farepilot/farepilot/internal/core/domain/offer"
)

// OfferFilter narrows an offer lookup. Empty fields match everything;
// Bank and CardType only apply to payment offers.
type OfferFilter struct {
	Platform   string
	Bank       string
	CardType   string
	FlightType string
}

// OfferRepository is the read-only offer store boundary.
type OfferRepository interface {
	ListByCategory(ctx context.Context, category offer.Category, filter OfferFilter, limit int) ([]offer.Offer, error)
}

// ComboRequest asks for the best discount combination on a base price.
type ComboRequest struct {
	BasePrice  float64 `json:"base_price"`
	Platform   string  `json:"platform"`
	Bank       string  `json:"bank,omitempty"`
	CardType   string  `json:"card_type,omitempty"`
	FlightType string  `json:"flight_type,omitempty"`
}

// OfferService selects and applies the best combinable offers.
// ok=false means no allowed pairing had both categories populated.
type OfferService interface {
	BestCombo(ctx context.Context, req ComboRequest) (offer.Combo, bool, error)
}
