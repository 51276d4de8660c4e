package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/farepilot/farepilot/internal/core/domain/offer"
	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/farepilot/farepilot/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

// OfferRepository implements the offer repository interface
type OfferRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewOfferRepository(database *db.Database, logger *logrus.Logger) ports.OfferRepository {
	return &OfferRepository{
		db:     database,
		logger: logger,
	}
}

// ListByCategory retrieves offers of one category matching the filter.
// Empty filter fields match everything; expired offers are excluded.
func (r *OfferRepository) ListByCategory(ctx context.Context, category offer.Category, filter ports.OfferFilter, limit int) ([]offer.Offer, error) {
	conditions := []string{"category = $1", "(expiry_date IS NULL OR expiry_date > NOW())"}
	args := []any{category}

	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("LOWER(%s) = LOWER($%d)", column, len(args)))
	}
	addFilter("platform", filter.Platform)
	addFilter("bank", filter.Bank)
	addFilter("card_type", filter.CardType)
	addFilter("flight_type", filter.FlightType)

	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT id, category, platform, title, description, bank, card_type,
		       coupon_code, url, flight_type, expiry_date, created_at
		FROM offers
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d`, strings.Join(conditions, " AND "), len(args))

	var offers []offer.Offer
	if err := r.db.DB.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list %s offers: %w", category, err)
	}

	return offers, nil
}
