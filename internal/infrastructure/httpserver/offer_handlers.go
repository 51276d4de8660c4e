package httpserver

import (
	"net/http"

	"github.com/farepilot/farepilot/internal/core/domain/offer"
	"github.com/farepilot/farepilot/internal/core/ports"
	"github.com/labstack/echo/v4"
)

type bestComboResponse struct {
	Found bool         `json:"found"`
	Combo *offer.Combo `json:"combo,omitempty"`
}

// bestCombo computes the best allowed discount pairing for a base
// price. found=false with 200 means no pairing could be built, which is
// a normal outcome, not an error.
func (s *Server) bestCombo(c echo.Context) error {
	var req ports.ComboRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.BasePrice <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "base_price must be positive")
	}

	combo, found, err := s.offerSvc.BestCombo(c.Request().Context(), req)
	if err != nil {
		s.logger.WithError(err).Error("combo computation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute offer combo")
	}

	resp := bestComboResponse{Found: found}
	if found {
		resp.Combo = &combo
	}
	return c.JSON(http.StatusOK, resp)
}
