package matchers

import (
	"strings"
	"time"

	"github.com/barganito/barganito.api/data"
)

// Matches reports whether a promotion satisfies an alert's predicates.
// All predicates are optional and conjunctive: an alert with none set
// matches every promotion it is given. Out-of-range predicate values
// (negative price or discount, discount above 100) never match, so one
// bad alert config cannot abort a matcher run.
func Matches(alert data.AlertConfig, promo data.PromotionWithProduct) bool {
	if alert.CategoryID != nil && promo.ProductCategoryID != *alert.CategoryID {
		return false
	}

	if alert.ProductNamePattern != nil {
		pattern := strings.ToLower(strings.TrimSpace(*alert.ProductNamePattern))
		if pattern == "" {
			return false
		}
		if !strings.Contains(strings.ToLower(promo.ProductName), pattern) {
			return false
		}
	}

	if alert.TargetPrice != nil {
		if *alert.TargetPrice < 0 {
			return false
		}
		if promo.ProductPrice > *alert.TargetPrice {
			return false
		}
	}

	if alert.TargetDiscount != nil {
		if *alert.TargetDiscount < 0 || *alert.TargetDiscount > 100 {
			return false
		}
		if promo.DiscountPercentage == nil {
			return false
		}
		if *promo.DiscountPercentage < *alert.TargetDiscount {
			return false
		}
	}

	return true
}

// Eligible reports whether a promotion can be matched at all: active and
// inside its [starts_at, expires_at) window. The window is half-open:
// a promotion starting exactly now is eligible, one expiring exactly now
// is not.
func Eligible(promo data.PromotionWithProduct, now time.Time) bool {
	if !promo.IsActive {
		return false
	}
	if promo.StartsAt.After(now) {
		return false
	}
	return promo.ExpiresAt.After(now)
}
