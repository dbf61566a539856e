package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/marktline/billing-service/internal/domain"
)

var tierScorePoints = map[domain.VerificationTier]int{
	domain.VerificationNone:     0,
	domain.VerificationPhone:    10,
	domain.VerificationID:       20,
	domain.VerificationBusiness: 25,
	domain.VerificationBank:     32,
	domain.VerificationFull:     40,
}

var intentKeywords = []string{
	"buy", "purchase", "offer", "price", "viewing", "test drive",
	"finance", "trade", "available", "when can",
}

// QualityScore grades a lead 0-100 from four bounded contributions:
// verification tier (0-40), trust score (0-30), message quality (0-30) and
// account age (0-10).
func QualityScore(buyer domain.BuyerProfile, message string, now time.Time) int {
	score := tierScorePoints[buyer.VerificationTier]
	score += trustPoints(buyer.TrustScore)
	score += messagePoints(message)
	score += accountAgePoints(buyer.RegisteredAt, now)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func trustPoints(trust float64) int {
	p := int(math.Round(trust * 0.3))
	if p > 30 {
		return 30
	}
	if p < 0 {
		return 0
	}
	return p
}

func messagePoints(message string) int {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return 0
	}

	var points int
	switch n := len(msg); {
	case n >= 200:
		points = 20
	case n >= 100:
		points = 15
	case n >= 40:
		points = 10
	default:
		points = 5
	}

	// Serious-intent keywords, 2 points each, capped at 10.
	lower := strings.ToLower(msg)
	var keywordPoints int
	for _, kw := range intentKeywords {
		if strings.Contains(lower, kw) {
			keywordPoints += 2
		}
	}
	if keywordPoints > 10 {
		keywordPoints = 10
	}

	return points + keywordPoints
}

func accountAgePoints(registeredAt time.Time, now time.Time) int {
	if registeredAt.IsZero() || registeredAt.After(now) {
		return 0
	}
	days := int(now.Sub(registeredAt).Hours() / 24)
	switch {
	case days >= 365:
		return 10
	case days >= 90:
		return 7
	case days >= 30:
		return 4
	case days >= 7:
		return 2
	default:
		return 0
	}
}
