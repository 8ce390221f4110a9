package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CategoryID   uuid.UUID `json:"categoryId"`
	CurrentPrice float64   `json:"currentPrice"`
	URL          *string   `json:"url"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type GetProductsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"perPage"`
}

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}
