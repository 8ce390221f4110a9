package models

import (
	"time"

	"github.com/google/uuid"
)

type CreateAlertRequest struct {
	CategoryID         *uuid.UUID `json:"categoryId"`
	ProductNamePattern *string    `json:"productNamePattern" validate:"omitempty,min=2,max=100"`
	TargetPrice        *float64   `json:"targetPrice" validate:"omitempty,gte=0"`
	TargetDiscount     *float64   `json:"targetDiscount" validate:"omitempty,gte=0,lte=100"`
}

type Alert struct {
	ID                 uuid.UUID  `json:"id"`
	CategoryID         *uuid.UUID `json:"categoryId"`
	ProductNamePattern *string    `json:"productNamePattern"`
	TargetPrice        *float64   `json:"targetPrice"`
	TargetDiscount     *float64   `json:"targetDiscount"`
	CreatedAt          time.Time  `json:"createdAt"`
	LastMatchedAt      *time.Time `json:"lastMatchedAt"`
}

type GetAlertsResponse struct {
	Alerts []Alert `json:"alerts"`
}

type AlertMatchesResponse struct {
	Offers  []Offer `json:"offers"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"perPage"`
}
