package data

import (
	"time"

	"github.com/google/uuid"
)

// PromotionWithProduct is a promotion joined with the product it discounts,
// as loaded in one bulk query by the alert matcher.
type PromotionWithProduct struct {
	ID                 uuid.UUID `db:"id"`
	ProductID          uuid.UUID `db:"product_id"`
	DiscountPercentage *float64  `db:"discount_percentage"`
	IsActive           bool      `db:"is_active"`
	StartsAt           time.Time `db:"starts_at"`
	ExpiresAt          time.Time `db:"expires_at"`
	ProductName        string    `db:"product_name"`
	ProductCategoryID  uuid.UUID `db:"product_category_id"`
	ProductPrice       float64   `db:"product_price"`
}

// NotifiedPair is one row of the dedup ledger projection.
type NotifiedPair struct {
	UserID uuid.UUID `db:"user_id"`
	Link   string    `db:"link"`
}

// OfferRow is a promotion joined with product and category for listing pages.
type OfferRow struct {
	Promotion
	ProductName       string    `db:"product_name"`
	ProductCategoryID uuid.UUID `db:"product_category_id"`
	ProductPrice      float64   `db:"product_price"`
	ProductImage      string    `db:"product_image"`
	CategoryName      string    `db:"category_name"`
}

// Rating is the aggregated vote state for one promotion.
type Rating struct {
	Average float64 `db:"average"`
	Count   int     `db:"count"`
}

// CommentWithUser is a comment joined with its author's display name.
type CommentWithUser struct {
	Comment
	UserName string `db:"user_name"`
}

// ForMatching projects an offer row onto the shape the predicate matcher
// evaluates, used by the alert-matches preview.
func (o OfferRow) ForMatching() PromotionWithProduct {
	return PromotionWithProduct{
		ID:                 o.ID,
		ProductID:          o.ProductID,
		DiscountPercentage: o.DiscountPercentage,
		IsActive:           o.IsActive,
		StartsAt:           o.StartsAt,
		ExpiresAt:          o.ExpiresAt,
		ProductName:        o.ProductName,
		ProductCategoryID:  o.ProductCategoryID,
		ProductPrice:       o.ProductPrice,
	}
}
