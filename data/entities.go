package data

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// NotificationSettings holds a user's per-channel delivery preferences.
// A missing row means all channels enabled.
type NotificationSettings struct {
	UserID         uuid.UUID `db:"user_id"`
	NotifyInternal bool      `db:"notify_internal"`
	NotifyEmail    bool      `db:"notify_email"`
	NotifyPush     bool      `db:"notify_push"`
}

func DefaultNotificationSettings(userID uuid.UUID) NotificationSettings {
	return NotificationSettings{
		UserID:         userID,
		NotifyInternal: true,
		NotifyEmail:    true,
		NotifyPush:     true,
	}
}

type Category struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
	Slug string    `db:"slug"`
}

type Product struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	CategoryID   uuid.UUID `db:"category_id"`
	CurrentPrice float64   `db:"current_price"`
	URL          *string   `db:"url"`
	Description  string    `db:"description"`
	ImageURL     string    `db:"image_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type Promotion struct {
	ID                 uuid.UUID  `db:"id"`
	ProductID          uuid.UUID  `db:"product_id"`
	DiscountPercentage *float64   `db:"discount_percentage"`
	IsActive           bool       `db:"is_active"`
	StartsAt           time.Time  `db:"starts_at"`
	ExpiresAt          time.Time  `db:"expires_at"`
	Description        string     `db:"description"`
	SubmittedBy        *uuid.UUID `db:"submitted_by"`
	CreatedAt          time.Time  `db:"created_at"`
}

// AlertConfig is a user's standing subscription to deals. All predicate
// fields are optional and combined with AND when present.
type AlertConfig struct {
	ID                 uuid.UUID  `db:"id"`
	UserID             uuid.UUID  `db:"user_id"`
	CategoryID         *uuid.UUID `db:"category_id"`
	ProductNamePattern *string    `db:"product_name_pattern"`
	TargetPrice        *float64   `db:"target_price"`
	TargetDiscount     *float64   `db:"target_discount"`
	CreatedAt          time.Time  `db:"created_at"`
	LastMatchedAt      *time.Time `db:"last_matched_at"`
}

type NotificationType string

const (
	NotificationTypeAlert  NotificationType = "alert"
	NotificationTypeSystem NotificationType = "system"
)

// Notification is the in-app notification row. The (user_id, link) pair is
// unique and doubles as the cross-run dedup ledger for the alert matcher.
type Notification struct {
	ID        uuid.UUID        `db:"id"`
	UserID    uuid.UUID        `db:"user_id"`
	Title     string           `db:"title"`
	Message   string           `db:"message"`
	Link      *string          `db:"link"`
	Type      NotificationType `db:"type"`
	IsRead    bool             `db:"is_read"`
	CreatedAt time.Time        `db:"created_at"`
}

type PushSubscription struct {
	UserID    uuid.UUID `db:"user_id"`
	Token     string    `db:"token"`
	Platform  string    `db:"platform"`
	CreatedAt time.Time `db:"created_at"`
}

type Report struct {
	UserID      uuid.UUID `db:"user_id"`
	PromotionID uuid.UUID `db:"promotion_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// Vote is a user's deal-quality rating for a promotion, 0 (bad) to 5 (top).
// One vote per user per promotion; revoting overwrites.
type Vote struct {
	UserID      uuid.UUID `db:"user_id"`
	PromotionID uuid.UUID `db:"promotion_id"`
	Value       int       `db:"value"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Comment struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	PromotionID uuid.UUID `db:"promotion_id"`
	Text        string    `db:"text"`
	CreatedAt   time.Time `db:"created_at"`
}
