package pricing

import (
	"math"

	"github.com/marktline/billing-service/internal/domain"
)

// Listing-price brackets, in minor currency units.
const (
	bracketLow  = 1_000_000 // €10,000
	bracketMid  = 2_000_000 // €20,000
	bracketHigh = 5_000_000 // €50,000
)

var tierMultipliers = map[domain.VerificationTier]float64{
	domain.VerificationNone:     1.0,
	domain.VerificationPhone:    1.1,
	domain.VerificationID:       1.2,
	domain.VerificationBusiness: 1.3,
	domain.VerificationBank:     1.4,
	domain.VerificationFull:     1.5,
}

// LeadPrice returns the charge for a lead, in minor currency units. The base
// depends on the listing price bracket, scaled by the buyer's verification
// tier and rounded to the nearest unit. Deterministic, no side effects.
func LeadPrice(listingPrice int64, tier domain.VerificationTier) int64 {
	var base int64
	switch {
	case listingPrice < bracketLow:
		base = 200
	case listingPrice < bracketMid:
		base = 300
	case listingPrice < bracketHigh:
		base = 400
	default:
		base = 500
	}

	multiplier, ok := tierMultipliers[tier]
	if !ok {
		multiplier = 1.0
	}

	return int64(math.Round(float64(base) * multiplier))
}
