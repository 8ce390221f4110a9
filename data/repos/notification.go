package repos

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/barganito/barganito.api/data"
)

type NotificationRepo struct {
	db *sqlx.DB
}

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db}
}

// CreateNotification inserts the in-app row. For linked notifications the
// (user_id, link) unique index makes this the dedup ledger write: the insert
// is conflict-ignored so retried or overlapping matcher runs never fail on a
// duplicate key. Returns false when the row already existed.
func (r *NotificationRepo) CreateNotification(n data.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (id, user_id, title, message, link, type, is_read)
		VALUES (:id, :user_id, :title, :message, :link, :type, :is_read)
		ON CONFLICT (user_id, link) WHERE link IS NOT NULL DO NOTHING`

	res, err := r.db.NamedExec(query, n)
	if err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create notification: rows affected: %w", err)
	}

	return inserted > 0, nil
}

// GetNotifiedPairs bulk-loads the dedup ledger rows whose (user_id, link)
// falls within the given user and link sets. One query per matcher run
// instead of one existence check per match.
func (r *NotificationRepo) GetNotifiedPairs(userIDs []uuid.UUID, links []string) ([]data.NotifiedPair, error) {
	if len(userIDs) == 0 || len(links) == 0 {
		return []data.NotifiedPair{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT user_id, link
		FROM notifications
		WHERE user_id IN (?) AND link IN (?)`, userIDs, links)
	if err != nil {
		return nil, fmt.Errorf("build get notified pairs: %w", err)
	}
	query = r.db.Rebind(query)

	var pairs []data.NotifiedPair
	err = r.db.Select(&pairs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get notified pairs: %w", err)
	}

	return pairs, nil
}

func (r *NotificationRepo) GetNotificationsByUserID(userID uuid.UUID, limit, offset int) ([]data.Notification, int, error) {
	var notifications []data.Notification
	query := `
		SELECT id, user_id, title, message, link, type, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	err := r.db.Select(&notifications, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get notifications by user id: %w", err)
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM notifications WHERE user_id = $1", userID); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	return notifications, total, nil
}

func (r *NotificationRepo) GetUnreadCount(userID uuid.UUID) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false"
	if err := r.db.Get(&count, query, userID); err != nil {
		return 0, fmt.Errorf("get unread count: %w", err)
	}

	return count, nil
}

func (r *NotificationRepo) MarkRead(id, userID uuid.UUID) error {
	query := "UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2"
	_, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	return nil
}

func (r *NotificationRepo) MarkAllRead(userID uuid.UUID) error {
	query := "UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false"
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	return nil
}
