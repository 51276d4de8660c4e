package offer

import (
	"time"

	"github.com/google/uuid"
)

// Category groups offers by how they combine. General offers are
// platform coupons, payment offers depend on a bank card, gift offers
// are voucher-style coupons.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryPayment Category = "payment"
	CategoryGift    Category = "gift"
)

// Offer is a single discount offer as stored in the offer store. The
// discount itself lives in the free-text Description and is extracted
// on demand; offers are read-only once retrieved.
type Offer struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Category    Category   `json:"category" db:"category"`
	Platform    string     `json:"platform" db:"platform"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Bank        string     `json:"bank,omitempty" db:"bank"`
	CardType    string     `json:"card_type,omitempty" db:"card_type"`
	CouponCode  string     `json:"coupon_code,omitempty" db:"coupon_code"`
	URL         string     `json:"url,omitempty" db:"url"`
	FlightType  string     `json:"flight_type,omitempty" db:"flight_type"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty" db:"expiry_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// DiscountType distinguishes percentage from flat-amount discounts.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

// Discount is the structured reading of an offer's free-text discount.
type Discount struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}

// Step records one applied discount and the running price after it.
type Step struct {
	Offer      string       `json:"offer"`
	Type       DiscountType `json:"type"`
	Value      float64      `json:"value"`
	Amount     float64      `json:"amount"`
	PriceAfter float64      `json:"price_after"`
}

// Combo is the result of applying a pairing of offers to a base price.
type Combo struct {
	Pairing       string  `json:"pairing,omitempty"`
	Offers        []Offer `json:"offers"`
	OriginalPrice float64 `json:"original_price"`
	FinalPrice    float64 `json:"final_price"`
	TotalSavings  float64 `json:"total_savings"`
	Steps         []Step  `json:"steps"`
}
