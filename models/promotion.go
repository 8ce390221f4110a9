package models

import (
	"time"

	"github.com/google/uuid"
)

type Offer struct {
	ID                 uuid.UUID `json:"id"`
	ProductID          uuid.UUID `json:"productId"`
	ProductName        string    `json:"productName"`
	ProductPrice       float64   `json:"productPrice"`
	ProductImage       string    `json:"productImage"`
	CategoryName       string    `json:"categoryName"`
	DiscountPercentage *float64  `json:"discountPercentage"`
	Description        string    `json:"description"`
	IsActive           bool      `json:"isActive"`
	StartsAt           time.Time `json:"startsAt"`
	ExpiresAt          time.Time `json:"expiresAt"`
	CreatedAt          time.Time `json:"createdAt"`
}

type GetOffersResponse struct {
	Offers  []Offer `json:"offers"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"perPage"`
}

// SubmitOfferRequest is a user promotion suggestion. The product is upserted
// by URL and the promotion starts inactive until an admin approves it.
type SubmitOfferRequest struct {
	URL                string    `json:"url" validate:"required,url"`
	Name               string    `json:"name" validate:"required,min=2,max=200"`
	CategoryID         uuid.UUID `json:"categoryId" validate:"required"`
	CurrentPrice       float64   `json:"currentPrice" validate:"gte=0"`
	Description        string    `json:"description"`
	ImageURL           string    `json:"imageUrl" validate:"omitempty,url"`
	PromoDescription   string    `json:"promoDescription"`
	DiscountPercentage *float64  `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	ExpiresAt          time.Time `json:"expiresAt" validate:"required"`
}

// CreateOfferRequest is the admin promotion form.
type CreateOfferRequest struct {
	ProductID          uuid.UUID `json:"productId" validate:"required"`
	DiscountPercentage *float64  `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	Description        string    `json:"description"`
	StartsAt           time.Time `json:"startsAt"`
	ExpiresAt          time.Time `json:"expiresAt" validate:"required"`
}

type SetOfferActiveRequest struct {
	Active bool `json:"active"`
}
