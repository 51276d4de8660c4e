package offer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

	// Flat-amount patterns, tried in order: ₹5,000 / Rs. 1000 / INR 500 /
	// "1000 off|cashback|discount". Amounts may or may not carry
	// thousands separators.
	flatPatterns = []*regexp.Regexp{
		regexp.MustCompile(`₹\s*(\d+(?:,\d{3})*)`),
		regexp.MustCompile(`rs\.?\s*(\d+(?:,\d{3})*)`),
		regexp.MustCompile(`inr\s*(\d+(?:,\d{3})*)`),
		regexp.MustCompile(`(\d+(?:,\d{3})*)\s*(?:off|cashback|discount)`),
	}
)

// ExtractDiscount reads a discount out of free-text offer copy. A
// percentage match wins over any flat-currency match in the same text;
// text matching neither pattern is a zero flat discount, never an error.
func ExtractDiscount(text string) Discount {
	if text == "" {
		return Discount{Type: DiscountFlat}
	}
	lowered := strings.ToLower(text)

	if m := percentPattern.FindStringSubmatch(lowered); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return Discount{Type: DiscountPercentage, Value: v}
	}
	for _, p := range flatPatterns {
		if m := p.FindStringSubmatch(lowered); m != nil {
			v, _ := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			return Discount{Type: DiscountFlat, Value: v}
		}
	}
	return Discount{Type: DiscountFlat}
}

// ApplyCombo applies the given offers to a base price. Percentage
// discounts go first, in input order, each compounding against the
// already-discounted running price; flat discounts are summed and
// subtracted once at the end. The final price never goes below zero.
// Offers whose text yields a zero discount contribute no step.
func ApplyCombo(basePrice float64, offers []Offer) Combo {
	combo := Combo{
		Offers:        offers,
		OriginalPrice: basePrice,
	}

	current := basePrice
	var flats []Step
	totalFlat := 0.0

	for _, o := range offers {
		d := ExtractDiscount(o.Description)
		if d.Value <= 0 {
			continue
		}
		switch d.Type {
		case DiscountPercentage:
			amount := current * d.Value / 100
			current -= amount
			combo.Steps = append(combo.Steps, Step{
				Offer:      o.Title,
				Type:       DiscountPercentage,
				Value:      d.Value,
				Amount:     amount,
				PriceAfter: current,
			})
		case DiscountFlat:
			totalFlat += d.Value
			flats = append(flats, Step{
				Offer:  o.Title,
				Type:   DiscountFlat,
				Value:  d.Value,
				Amount: d.Value,
			})
		}
	}

	current -= totalFlat
	for i := range flats {
		flats[i].PriceAfter = current
	}
	combo.Steps = append(combo.Steps, flats...)

	if current < 0 {
		current = 0
	}
	combo.FinalPrice = current
	combo.TotalSavings = basePrice - current
	return combo
}

// allowedPairings are the category pairs that may be combined. A
// general offer never stacks with a gift coupon.
var allowedPairings = [][2]Category{
	{CategoryPayment, CategoryGeneral},
	{CategoryPayment, CategoryGift},
}

// SelectBestCombo builds a combo for each allowed category pairing from
// the single highest-value offer in each category and returns the one
// with the greatest total savings. ok is false when no pairing has both
// categories populated.
//
// "Highest-value" compares raw extracted magnitudes, so a 15% offer
// loses to a ₹500 one regardless of the base price. That matches the
// upstream data this was built against and is a known approximation.
func SelectBestCombo(byCategory map[Category][]Offer, basePrice float64) (Combo, bool) {
	var best Combo
	found := false

	for _, pairing := range allowedPairings {
		first, ok := bestOfCategory(byCategory[pairing[0]])
		if !ok {
			continue
		}
		second, ok := bestOfCategory(byCategory[pairing[1]])
		if !ok {
			continue
		}
		combo := ApplyCombo(basePrice, []Offer{first, second})
		combo.Pairing = fmt.Sprintf("%s+%s", pairing[0], pairing[1])
		if !found || combo.TotalSavings > best.TotalSavings {
			best = combo
			found = true
		}
	}
	return best, found
}

func bestOfCategory(offers []Offer) (Offer, bool) {
	if len(offers) == 0 {
		return Offer{}, false
	}
	best := offers[0]
	bestValue := ExtractDiscount(best.Description).Value
	for _, o := range offers[1:] {
		if v := ExtractDiscount(o.Description).Value; v > bestValue {
			best = o
			bestValue = v
		}
	}
	return best, true
}
