// Package classifier maps raw request text to a ticket category using a
// fixed, ordered keyword rule table.
package classifier

import (
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Classification is the result of classifying a piece of text.
type Classification struct {
	Category   domain.Category
	Confidence float64
}

// fallbackConfidence is returned when no rule matches at all.
const fallbackConfidence = 0.30

type rule struct {
	category domain.Category
	keywords []string
}

// rules is ordered; ties between categories are broken by declaration order,
// first declared wins.
var rules = []rule{
	{domain.CategoryPassword, []string{"password", "passcode", "login failed", "locked account", "forgot"}},
	{domain.CategoryVPN, []string{"vpn", "remote", "anyconnect", "forticlient", "mfa"}},
	{domain.CategoryEmailOutlook, []string{"outlook", "email", "mailbox", "office 365", "o365"}},
	{domain.CategoryPrinter, []string{"printer", "print", "toner", "paper jam", "jam"}},
	{domain.CategoryNetwork, []string{"network", "wifi", "internet", "lan", "wan", "proxy", "dns"}},
	{domain.CategoryHardware, []string{"laptop", "desktop", "mouse", "keyboard", "hardware"}},
	{domain.CategorySoftware, []string{"install", "application", "software", "update", "license"}},
	{domain.CategoryAccessRequest, []string{"access", "permission", "authorization", "role", "entitlement"}},
}

// Classify scores the text against every rule and returns the winning
// category with a confidence in [0,1]. Empty or whitespace-only text is valid
// and yields the fallback. Classify never fails.
func Classify(text string) Classification {
	lowered := strings.ToLower(text)

	best := Classification{Category: domain.CategoryOther, Confidence: fallbackConfidence}
	bestScore := 0
	for _, r := range rules {
		score := 0
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				score++
			}
		}
		// strictly greater: earlier rules win ties
		if score > bestScore {
			bestScore = score
			best.Category = r.category
		}
	}
	if bestScore == 0 {
		return best
	}

	confidence := 0.4 + 0.1*float64(bestScore)
	if confidence > 0.9 {
		confidence = 0.9
	}
	best.Confidence = confidence
	return best
}
