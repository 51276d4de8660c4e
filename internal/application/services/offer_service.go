package services

import (
	"context"
	"fmt"

	"github.com/farepilot/farepilot/internal/core/domain/offer"
	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const offersPerCategory = 25

// OfferService assembles the best combinable discount pairing for a
// price. A category whose lookup fails is treated as empty so one bad
// query cannot take the whole computation down.
type OfferService struct {
	repo     ports.OfferRepository
	logger   *logrus.Logger
	requests *prometheus.CounterVec
}

func NewOfferService(repo ports.OfferRepository, logger *logrus.Logger, requests *prometheus.CounterVec) *OfferService {
	return &OfferService{repo: repo, logger: logger, requests: requests}
}

func (s *OfferService) BestCombo(ctx context.Context, req ports.ComboRequest) (offer.Combo, bool, error) {
	if req.BasePrice <= 0 {
		return offer.Combo{}, false, fmt.Errorf("base price must be positive, got %.2f", req.BasePrice)
	}

	filter := ports.OfferFilter{
		Platform:   req.Platform,
		Bank:       req.Bank,
		CardType:   req.CardType,
		FlightType: req.FlightType,
	}

	byCategory := make(map[offer.Category][]offer.Offer)
	for _, cat := range []offer.Category{offer.CategoryGeneral, offer.CategoryPayment, offer.CategoryGift} {
		catFilter := filter
		if cat != offer.CategoryPayment {
			// Bank and card constraints only make sense for payment offers.
			catFilter.Bank = ""
			catFilter.CardType = ""
		}
		offers, err := s.repo.ListByCategory(ctx, cat, catFilter, offersPerCategory)
		if err != nil {
			s.logger.WithField("category", cat).WithError(err).Warn("offer lookup failed, treating category as empty")
			continue
		}
		byCategory[cat] = offers
	}

	combo, ok := offer.SelectBestCombo(byCategory, req.BasePrice)
	outcome := "found"
	if !ok {
		outcome = "none"
	}
	if s.requests != nil {
		s.requests.WithLabelValues(outcome).Inc()
	}
	if ok {
		s.logger.WithFields(logrus.Fields{
			"pairing":  combo.Pairing,
			"savings":  combo.TotalSavings,
			"platform": req.Platform,
		}).Info("selected offer combo")
	}
	return combo, ok, nil
}
