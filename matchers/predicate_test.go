package matchers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/barganito/barganito.api/data"
)

func ptr[T any](v T) *T { return &v }

func testPromo() data.PromotionWithProduct {
	return data.PromotionWithProduct{
		ID:                uuid.New(),
		ProductID:         uuid.New(),
		IsActive:          true,
		StartsAt:          time.Now().Add(-time.Hour),
		ExpiresAt:         time.Now().Add(time.Hour),
		ProductName:       "iPhone 15 Pro",
		ProductCategoryID: uuid.New(),
		ProductPrice:      100.00,
	}
}

func TestMatches_NoPredicates(t *testing.T) {
	assert.True(t, Matches(data.AlertConfig{}, testPromo()))
}

func TestMatches_Category(t *testing.T) {
	promo := testPromo()

	assert.True(t, Matches(data.AlertConfig{CategoryID: ptr(promo.ProductCategoryID)}, promo))
	assert.False(t, Matches(data.AlertConfig{CategoryID: ptr(uuid.New())}, promo))
}

func TestMatches_NamePatternCaseInsensitive(t *testing.T) {
	promo := testPromo()

	assert.True(t, Matches(data.AlertConfig{ProductNamePattern: ptr("iphone")}, promo))
	assert.True(t, Matches(data.AlertConfig{ProductNamePattern: ptr("IPHONE 15")}, promo))
	assert.True(t, Matches(data.AlertConfig{ProductNamePattern: ptr("15 pro")}, promo))
	assert.False(t, Matches(data.AlertConfig{ProductNamePattern: ptr("galaxy")}, promo))
}

func TestMatches_BlankPatternNeverMatches(t *testing.T) {
	promo := testPromo()

	assert.False(t, Matches(data.AlertConfig{ProductNamePattern: ptr("")}, promo))
	assert.False(t, Matches(data.AlertConfig{ProductNamePattern: ptr("   ")}, promo))
}

func TestMatches_PriceCeilingInclusive(t *testing.T) {
	promo := testPromo()
	promo.ProductPrice = 100.00

	assert.True(t, Matches(data.AlertConfig{TargetPrice: ptr(100.00)}, promo))

	promo.ProductPrice = 100.01
	assert.False(t, Matches(data.AlertConfig{TargetPrice: ptr(100.00)}, promo))
}

func TestMatches_DiscountFloor(t *testing.T) {
	promo := testPromo()
	promo.DiscountPercentage = ptr(30.0)

	assert.True(t, Matches(data.AlertConfig{TargetDiscount: ptr(30.0)}, promo))
	assert.True(t, Matches(data.AlertConfig{TargetDiscount: ptr(20.0)}, promo))
	assert.False(t, Matches(data.AlertConfig{TargetDiscount: ptr(40.0)}, promo))
}

func TestMatches_DiscountRequiresPresence(t *testing.T) {
	promo := testPromo()
	promo.DiscountPercentage = nil

	assert.False(t, Matches(data.AlertConfig{TargetDiscount: ptr(0.0)}, promo))
	assert.False(t, Matches(data.AlertConfig{TargetDiscount: ptr(10.0)}, promo))
}

func TestMatches_OutOfRangePredicatesNeverMatch(t *testing.T) {
	promo := testPromo()
	promo.DiscountPercentage = ptr(50.0)

	assert.False(t, Matches(data.AlertConfig{TargetPrice: ptr(-1.0)}, promo))
	assert.False(t, Matches(data.AlertConfig{TargetDiscount: ptr(-5.0)}, promo))
	assert.False(t, Matches(data.AlertConfig{TargetDiscount: ptr(101.0)}, promo))
}

func TestMatches_PredicatesAreConjunctive(t *testing.T) {
	promo := testPromo()
	promo.DiscountPercentage = ptr(25.0)

	alert := data.AlertConfig{
		CategoryID:         ptr(promo.ProductCategoryID),
		ProductNamePattern: ptr("iphone"),
		TargetPrice:        ptr(150.0),
		TargetDiscount:     ptr(20.0),
	}
	assert.True(t, Matches(alert, promo))

	// Any single failing predicate rejects the promotion.
	alert.TargetPrice = ptr(50.0)
	assert.False(t, Matches(alert, promo))
}

func TestEligible_Window(t *testing.T) {
	now := time.Now()
	promo := testPromo()

	promo.StartsAt = now.Add(-time.Hour)
	promo.ExpiresAt = now.Add(time.Hour)
	assert.True(t, Eligible(promo, now))

	promo.IsActive = false
	assert.False(t, Eligible(promo, now))
}

func TestEligible_Boundaries(t *testing.T) {
	now := time.Now()
	promo := testPromo()

	// starts_at == now is included
	promo.StartsAt = now
	promo.ExpiresAt = now.Add(time.Hour)
	assert.True(t, Eligible(promo, now))

	// expires_at == now is excluded
	promo.StartsAt = now.Add(-time.Hour)
	promo.ExpiresAt = now
	assert.False(t, Eligible(promo, now))

	// not started yet
	promo.StartsAt = now.Add(time.Minute)
	promo.ExpiresAt = now.Add(time.Hour)
	assert.False(t, Eligible(promo, now))

	// already expired
	promo.StartsAt = now.Add(-2 * time.Hour)
	promo.ExpiresAt = now.Add(-time.Hour)
	assert.False(t, Eligible(promo, now))
}
