package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      *string   `json:"link"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	PerPage       int            `json:"perPage"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type NotificationSettings struct {
	NotifyInternal bool `json:"notifyInternal"`
	NotifyEmail    bool `json:"notifyEmail"`
	NotifyPush     bool `json:"notifyPush"`
}
