package models

type SubscribePushRequest struct {
	Token    string `json:"token" validate:"required,max=500"`
	Platform string `json:"platform" validate:"omitempty,oneof=web android ios"`
}
